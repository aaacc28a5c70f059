package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"yuzu/internal/config"
	"yuzu/internal/handler"
	"yuzu/internal/server/middleware"
	"yuzu/internal/service"
)

// Server HTTP 服务器
// serve 模式对外暴露发起生成与查询进度两个接口，生成本身在后台协程执行
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	runs   *service.RunService
}

// New 创建服务器实例
func New(cfg *config.Config, runs *service.RunService) (*Server, error) {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &Server{
		cfg:    cfg,
		engine: gin.New(),
		runs:   runs,
	}
	srv.setupRoutes()
	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())

	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	runHandler := handler.NewRunHandler(s.runs)
	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/runs", runHandler.Create)
		v1.GET("/runs/:id", runHandler.Get)
	}
}

// Run 启动服务器，ctx 取消时优雅关闭
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info().Str("addr", addr).Msg("server started")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
