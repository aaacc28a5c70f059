package storage

import (
	"context"
	"io"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"yuzu/internal/repository/checkpoint"
)

type memStorage struct {
	objects map[string]string // key -> contentType
}

func (m *memStorage) Upload(_ context.Context, key string, data io.Reader, contentType string) (string, error) {
	if m.objects == nil {
		m.objects = make(map[string]string)
	}
	if _, err := io.ReadAll(data); err != nil {
		return "", err
	}
	m.objects[key] = contentType
	return "mem://" + key, nil
}

func (m *memStorage) Download(context.Context, string) (io.ReadCloser, error) { return nil, nil }
func (m *memStorage) Delete(context.Context, string) error                    { return nil }
func (m *memStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}
func (m *memStorage) Type() string { return "mem" }

func TestPublisher(t *testing.T) {
	Convey("产物归档", t, func() {
		dir := t.TempDir()
		paths := checkpoint.NewPaths(dir, "run-1")
		So(os.MkdirAll(paths.RunDir(), 0o755), ShouldBeNil)
		for _, p := range []string{
			paths.Movie(), paths.Thumbnail(), paths.ThumbnailOriginal(),
			paths.Manuscript(), paths.Audio(),
		} {
			So(os.WriteFile(p, []byte("data"), 0o644), ShouldBeNil)
		}

		store := &memStorage{}
		publisher := NewPublisher(store)

		Convey("核心产物全部归档并带正确类型", func() {
			urls, err := publisher.PublishRun(context.Background(), paths, "run-1")
			So(err, ShouldBeNil)
			So(len(urls), ShouldEqual, 5)
			So(urls["movie.mp4"], ShouldEqual, "mem://run-1/movie.mp4")
			So(store.objects["run-1/movie.mp4"], ShouldEqual, "video/mp4")
			So(store.objects["run-1/thumbnail.png"], ShouldEqual, "image/png")
			So(store.objects["run-1/manuscript.json"], ShouldEqual, "application/json")
		})

		Convey("缺失产物时整体失败", func() {
			So(os.Remove(paths.Movie()), ShouldBeNil)
			_, err := publisher.PublishRun(context.Background(), paths, "run-1")
			So(err, ShouldNotBeNil)
		})
	})
}
