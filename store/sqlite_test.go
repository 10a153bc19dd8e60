package store

import (
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSQLiteCache(t *testing.T) {
	Convey("sqlite 캐시", t, func() {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		c, err := NewSQLite(dbPath, time.Hour)
		So(err, ShouldBeNil)
		defer c.Close()

		now := time.Date(2024, time.March, 15, 14, 50, 0, 0, time.UTC)
		c.now = func() time.Time { return now }

		Convey("없는 키는 miss", func() {
			_, ok, err := c.Get("202403151430:60,127")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("만료 전에는 저장한 값을 돌려준다", func() {
			So(c.Put("202403151430:60,127", []byte(`{"a":1}`)), ShouldBeNil)
			got, ok, err := c.Get("202403151430:60,127")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(string(got), ShouldEqual, `{"a":1}`)
		})

		Convey("같은 키는 덮어쓴다", func() {
			So(c.Put("k", []byte("old")), ShouldBeNil)
			So(c.Put("k", []byte("new")), ShouldBeNil)
			got, _, _ := c.Get("k")
			So(string(got), ShouldEqual, "new")
		})

		Convey("만료 후에는 miss이고 Prune으로 지워진다", func() {
			So(c.Put("k", []byte("v")), ShouldBeNil)
			now = now.Add(2 * time.Hour)

			_, ok, err := c.Get("k")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			n, err := c.Prune()
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})
	})
}
