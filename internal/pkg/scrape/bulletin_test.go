package scrape

import (
	"context"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const threadHTML = `<!DOCTYPE html>
<html>
<head><title>thread</title></head>
<body>
<h1 id="threadtitle">【朗報】猫、かわいい</h1>
<article class="clear post" data-userid="ID:abc123">
  <section class="post-content">最初のコメントです</section>
</article>
<article class="clear post" data-userid="ID:def456">
  <section class="post-content">>>1 それな</section>
</article>
<article class="clear post" data-userid="ID:abc123">
  <section class="post-content">うちの猫も見てほしい</section>
</article>
</body>
</html>`

func TestParseThread(t *testing.T) {
	Convey("线程页面解析", t, func() {
		Convey("解析标题与回帖", func() {
			thread, err := ParseThread(strings.NewReader(threadHTML), "https://nova.5ch.net/test/read.cgi/livegalileo/1/")
			So(err, ShouldBeNil)
			So(thread.Title, ShouldEqual, "【朗報】猫、かわいい")
			So(len(thread.Posts), ShouldEqual, 3)
			So(thread.Posts[0].UserID, ShouldEqual, "ID:abc123")
			So(thread.Posts[0].Text, ShouldEqual, "最初のコメントです")
			So(thread.Posts[1].UserID, ShouldEqual, "ID:def456")
			So(thread.Posts[2].UserID, ShouldEqual, "ID:abc123")
		})

		Convey("无回帖的页面返回错误", func() {
			_, err := ParseThread(strings.NewReader("<html><body></body></html>"), "https://nova.5ch.net/test/read.cgi/x/1/")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFetchThreadURLValidation(t *testing.T) {
	Convey("仅接受 nova 域名的线程 URL", t, func() {
		c := NewClient()
		_, err := c.FetchThread(context.Background(), "https://example.com/thread/1")
		So(err, ShouldEqual, ErrUnsupportedURL)
	})
}
