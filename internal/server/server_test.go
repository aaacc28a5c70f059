package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"yuzu/internal/config"
)

func TestHealthEndpoints(t *testing.T) {
	Convey("健康检查路由", t, func() {
		cfg := &config.Config{
			Server: config.ServerConfig{Mode: "test"},
		}
		srv, err := New(cfg, nil)
		So(err, ShouldBeNil)

		Convey("GET /health", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			srv.Engine().ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("GET /ready", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			srv.Engine().ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("未注册路由返回 404", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v2/none", nil)
			srv.Engine().ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
