package textwrap

import (
	"testing"
	"unicode/utf8"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWrap(t *testing.T) {
	Convey("字幕折行", t, func() {
		w := New()

		Convey("短文本不折行", func() {
			lines := w.Wrap("短いテキスト", 20)
			So(lines, ShouldHaveLength, 1)
			So(lines[0], ShouldEqual, "短いテキスト")
		})

		Convey("每行不超过指定字符数", func() {
			text := "これはかなり長い文章であり複数の行に折り返される必要がある"
			for _, line := range w.Wrap(text, 10) {
				So(utf8.RuneCountInString(line), ShouldBeLessThanOrEqualTo, 10)
			}
		})

		Convey("折行后拼接还原原文", func() {
			text := "これはかなり長い文章であり複数の行に折り返される必要がある"
			joined := ""
			for _, line := range w.Wrap(text, 10) {
				joined += line
			}
			So(joined, ShouldEqual, text)
		})

		Convey("空文本返回空结果", func() {
			So(w.Wrap("   ", 10), ShouldBeNil)
		})

		Convey("行宽为零时原样返回", func() {
			So(w.Wrap("テキスト", 0), ShouldResemble, []string{"テキスト"})
		})
	})
}
