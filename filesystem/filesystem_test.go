package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestDump(t *testing.T) {
	Convey("Given an in-memory backend", t, func() {
		SetMemMapFs()
		path := filepath.Join("captures", "nested", "body.bin")

		Convey("Dump creates parents and writes the payload", func() {
			So(Dump(path, []byte("raw")), ShouldBeNil)

			data, err := API().ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "raw")
		})

		Convey("GacheFs goes through the same backend", func() {
			So(GacheFs{}.MkdirAll("cache", os.ModePerm), ShouldBeNil)
			f, err := GacheFs{}.OpenFile(filepath.Join("cache", "x"), os.O_CREATE|os.O_WRONLY, 0o644)
			So(err, ShouldBeNil)
			_, _ = f.Write([]byte("ok"))
			So(f.Close(), ShouldBeNil)

			exists, _ := API().Exists(filepath.Join("cache", "x"))
			So(exists, ShouldBeTrue)
		})
	})
}
