package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/subgate-cli/subgate/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		So(SanitizeFilename("POST /api/submedia/add"), ShouldEqual, "POST_api_submedia_add")
		So(SanitizeFilename("file__name.txt"), ShouldEqual, "file_name.txt")
		So(SanitizeFilename("-file-name-"), ShouldEqual, "file-name")
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "item", "items"), ShouldEqual, "1 item")
		So(Quantify(0, "item", "items"), ShouldEqual, "0 items")
	})
}

func TestEllipsis(t *testing.T) {
	Convey("Ellipsis", t, func() {
		So(Ellipsis("权力的游戏", 3), ShouldEqual, "权力…")
		So(Ellipsis("short", 10), ShouldEqual, "short")
		So(Ellipsis("ab", 1), ShouldEqual, "…")
	})
}

func TestOrdering(t *testing.T) {
	Convey("Max/Min/Clamp", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Clamp(7, 1, 3), ShouldEqual, 3)
		So(Clamp(-1, 1, 3), ShouldEqual, 1)
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		So(filesystem.Dump("tmp/a/b.txt", []byte("x")), ShouldBeNil)
		So(Delete("tmp"), ShouldBeNil)

		exists, _ := filesystem.API().Exists("tmp/a/b.txt")
		So(exists, ShouldBeFalse)
		So(Delete("tmp"), ShouldNotBeNil)
	})
}

func TestStack(t *testing.T) {
	Convey("Stack", t, func() {
		var s Stack[int]
		s.Push(1)
		s.Push(2)
		So(s.Len(), ShouldEqual, 2)
		So(s.Peek(), ShouldEqual, 2)
		So(s.Pop(), ShouldEqual, 2)
		So(s.Pop(), ShouldEqual, 1)
		So(s.Pop(), ShouldEqual, 0)
		s.Push(3)
		s.Clear()
		So(s.Len(), ShouldEqual, 0)
	})
}
