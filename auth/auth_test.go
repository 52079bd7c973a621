package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/subgate-cli/subgate/key"
	"github.com/zalando/go-keyring"
)

func TestToken(t *testing.T) {
	Convey("Given a mock keyring", t, func() {
		keyring.MockInit()
		viper.Set(key.AuthToken, "")

		Convey("Nothing is stored", func() {
			token, src := Lookup()
			So(token, ShouldBeEmpty)
			So(src, ShouldEqual, SourceNone)
			So(Token(), ShouldBeEmpty)
		})

		Convey("A keyring token wins", func() {
			So(SetToken("  abc  "), ShouldBeNil)
			viper.Set(key.AuthToken, "from-config")

			token, src := Lookup()
			So(token, ShouldEqual, "abc")
			So(src, ShouldEqual, SourceKeyring)
		})

		Convey("Config is used when the keyring is empty", func() {
			So(DeleteToken(), ShouldBeNil)
			viper.Set(key.AuthToken, "from-config")

			token, src := Lookup()
			So(token, ShouldEqual, "from-config")
			So(src, ShouldEqual, SourceConfig)
		})

		Convey("Empty tokens are rejected", func() {
			So(SetToken("   "), ShouldNotBeNil)
		})

		Convey("Deleting a missing token is fine", func() {
			So(DeleteToken(), ShouldBeNil)
			So(DeleteToken(), ShouldBeNil)
		})
	})
}
