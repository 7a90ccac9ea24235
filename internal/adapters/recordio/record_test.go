package recordio_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/teambadge/internal/adapters/recordio"
	"github.com/okian/teambadge/internal/domain/badge"
	"github.com/okian/teambadge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const doc = `[
  {"rank": 1, "team": "Houston", "conference": "Big 12", "record": "30-4", "pointMargin": 14.1, "qualityWins": "9"},
  {"team": "Auburn", "primaryBadge": "Stale", "pointsPerGame": 83.5, "notes": "top seed"}
]`

func TestDecode(t *testing.T) {
	Convey("Given a team document", t, func() {
		records, err := recordio.Decode([]byte(doc))
		So(err, ShouldBeNil)
		So(records, ShouldHaveLength, 2)

		Convey("Then keys keep document order", func() {
			So(records[0].Keys(), ShouldResemble, []string{"rank", "team", "conference", "record", "pointMargin", "qualityWins"})
		})

		Convey("Then statistics are extracted", func() {
			stats := records[0].Statistics()
			So(stats.Team, ShouldEqual, "Houston")
			So(stats.Value(model.StatPointMargin), ShouldEqual, 14.1)
			So(stats.Value(model.StatQualityWins), ShouldEqual, 9.0)
			So(records[1].Team(), ShouldEqual, "Auburn")
		})

		Convey("When a record is annotated", func() {
			So(records[0].Annotate(badge.Assignment{PrimaryBadge: badge.Fortress}), ShouldBeNil)
			So(records[1].Annotate(badge.Assignment{
				PrimaryBadge:    badge.Scorchers,
				SecondaryBadges: []badge.Badge{badge.Marksmen},
			}), ShouldBeNil)

			Convey("Then new keys are appended and existing keys stay in place", func() {
				So(records[0].Keys(), ShouldResemble, []string{
					"rank", "team", "conference", "record", "pointMargin", "qualityWins",
					recordio.PrimaryBadgeKey, recordio.SecondaryBadgesKey,
				})
				So(records[1].Keys(), ShouldResemble, []string{
					"team", recordio.PrimaryBadgeKey, "pointsPerGame", "notes", recordio.SecondaryBadgesKey,
				})
				raw, ok := records[0].Raw(recordio.SecondaryBadgesKey)
				So(ok, ShouldBeTrue)
				So(string(raw), ShouldEqual, "[]")
				raw, _ = records[1].Raw(recordio.PrimaryBadgeKey)
				So(string(raw), ShouldEqual, `"Scorchers"`)
			})

			Convey("Then encoding keeps pass-through values intact", func() {
				var buf bytes.Buffer
				So(recordio.Encode(&buf, records), ShouldBeNil)
				out := buf.String()
				So(out, ShouldContainSubstring, `"record": "30-4"`)
				So(out, ShouldContainSubstring, `"notes": "top seed"`)
				So(out, ShouldContainSubstring, `"primaryBadge": "Fortress"`)

				again, err := recordio.Decode(buf.Bytes())
				So(err, ShouldBeNil)
				So(again[1].Keys(), ShouldResemble, records[1].Keys())
			})
		})
	})

	Convey("Given documents of the wrong shape", t, func() {
		_, err := recordio.Decode([]byte(`{"team": "x"}`))
		So(errors.Is(err, recordio.ErrNotArray), ShouldBeTrue)

		_, err = recordio.Decode([]byte(`[{"team": "x"}, 5]`))
		So(errors.Is(err, recordio.ErrNotObject), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "record 1")

		_, err = recordio.Decode([]byte(`[{"team": }]`))
		So(err, ShouldNotBeNil)

		records, err := recordio.Decode([]byte(` [] `))
		So(err, ShouldBeNil)
		So(records, ShouldBeEmpty)
	})
}

func TestFiles(t *testing.T) {
	Convey("Given a temp directory", t, func() {
		dir := t.TempDir()
		records, err := recordio.Decode([]byte(doc))
		So(err, ShouldBeNil)

		for _, name := range []string{"rankings.json", "rankings.json.gz"} {
			path := filepath.Join(dir, name)

			So(recordio.WriteFile(path, records), ShouldBeNil)
			back, err := recordio.ReadFile(path)
			So(err, ShouldBeNil)
			So(back, ShouldHaveLength, 2)
			So(back[0].Keys(), ShouldResemble, records[0].Keys())
		}

		Convey("Then compressed files are really compressed", func() {
			path := filepath.Join(dir, "rankings.json.gz")
			So(recordio.WriteFile(path, records), ShouldBeNil)
			raw, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(raw[0], ShouldEqual, byte(0x1f))
			So(raw[1], ShouldEqual, byte(0x8b))
		})

		Convey("Then no temp files are left behind", func() {
			path := filepath.Join(dir, "out.json")
			So(recordio.WriteFile(path, records), ShouldBeNil)
			entries, err := os.ReadDir(dir)
			So(err, ShouldBeNil)
			for _, e := range entries {
				So(strings.HasPrefix(e.Name(), "."), ShouldBeFalse)
			}
		})

		Convey("Then missing files fail", func() {
			_, err := recordio.ReadFile(filepath.Join(dir, "missing.json"))
			So(err, ShouldNotBeNil)
		})
	})
}
