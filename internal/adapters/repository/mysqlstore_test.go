package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizeDSN(t *testing.T) {
	Convey("Given a DSN without parseTime", t, func() {
		dsn, err := normalizeDSN("user:pass@tcp(localhost:3306)/fellowtrack")
		So(err, ShouldBeNil)

		Convey("Then parseTime is forced on", func() {
			So(dsn, ShouldContainSubstring, "parseTime=true")
		})
	})

	Convey("Given a DSN that disables parseTime", t, func() {
		dsn, err := normalizeDSN("user:pass@tcp(localhost:3306)/fellowtrack?parseTime=false")
		So(err, ShouldBeNil)

		Convey("Then the setting is overridden", func() {
			So(dsn, ShouldContainSubstring, "parseTime=true")
			So(dsn, ShouldNotContainSubstring, "parseTime=false")
		})
	})

	Convey("Given a malformed DSN", t, func() {
		_, err := normalizeDSN("not a dsn")

		Convey("Then normalization fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestIsDuplicateKey(t *testing.T) {
	Convey("Given assorted errors", t, func() {
		dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

		Convey("Then a 1062 violation is recognized", func() {
			So(isDuplicateKey(dup), ShouldBeTrue)
		})

		Convey("Then a wrapped 1062 violation is recognized", func() {
			So(isDuplicateKey(fmt.Errorf("insert check-in: %w", dup)), ShouldBeTrue)
		})

		Convey("Then other MySQL errors are not", func() {
			So(isDuplicateKey(&mysql.MySQLError{Number: 1452}), ShouldBeFalse)
		})

		Convey("Then plain errors are not", func() {
			So(isDuplicateKey(errors.New("boom")), ShouldBeFalse)
			So(isDuplicateKey(nil), ShouldBeFalse)
		})
	})
}
