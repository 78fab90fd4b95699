package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

func TestKeyring(t *testing.T) {
	Convey("Given an empty keyring", t, func() {
		_ = DeleteKey()

		Convey("GetKey reports a missing secret", func() {
			_, err := GetKey()
			So(err, ShouldEqual, keyring.ErrNotFound)
		})

		Convey("A stored key can be read back and removed", func() {
			So(SetKey("secret"), ShouldBeNil)

			got, err := GetKey()
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "secret")

			So(DeleteKey(), ShouldBeNil)
			_, err = GetKey()
			So(err, ShouldNotBeNil)
		})
	})
}
