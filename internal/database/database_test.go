package database_test

import (
	"path/filepath"
	"testing"

	"stack-scheduler/internal/config"
	"stack-scheduler/internal/database"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given a fresh database file", t, func() {
		cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "stack.db")}

		db, err := database.New(cfg, zerolog.Nop())
		So(err, ShouldBeNil)
		defer db.Close()

		Convey("Then every table is migrated", func() {
			for _, table := range []string{"rooms", "players", "time_slots", "votes"} {
				var name string
				err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
				So(err, ShouldBeNil)
				So(name, ShouldEqual, table)
			}
		})

		Convey("Then foreign keys are enforced", func() {
			var enabled int
			So(db.QueryRow(`PRAGMA foreign_keys`).Scan(&enabled), ShouldBeNil)
			So(enabled, ShouldEqual, 1)
		})

		Convey("Then opening it again is a no-op migration", func() {
			again, err := database.New(cfg, zerolog.Nop())
			So(err, ShouldBeNil)
			So(again.Close(), ShouldBeNil)
		})
	})
}
