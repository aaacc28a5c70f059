package llm

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCleanJSON(t *testing.T) {
	Convey("清理 LLM 返回的 JSON", t, func() {
		Convey("去掉 ```json 代码块", func() {
			So(CleanJSON("```json\n{\"a\":1}\n```"), ShouldEqual, `{"a":1}`)
		})

		Convey("去掉无语言标记的代码块", func() {
			So(CleanJSON("```\n{\"a\":1}\n```"), ShouldEqual, `{"a":1}`)
		})

		Convey("裸 JSON 原样返回", func() {
			So(CleanJSON(`  {"a":1} `), ShouldEqual, `{"a":1}`)
		})
	})
}
