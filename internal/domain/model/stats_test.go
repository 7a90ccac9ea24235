package model_test

import (
	"encoding/json"
	"math"
	"testing"

	model "github.com/okian/teambadge/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestTeamStatisticsDecode(t *testing.T) {
	convey.Convey("Given a team record with mixed value types", t, func() {
		doc := `{
			"team": "Gonzaga",
			"conference": "WCC",
			"pointMargin": 14.2,
			"fieldGoalPct": "0.51",
			"qualityWins": " 12 ",
			"strengthOfSchedule": "N/A",
			"opponentFieldGoalPct": null,
			"reboundsPerGame": true
		}`

		var ts model.TeamStatistics
		err := json.Unmarshal([]byte(doc), &ts)

		convey.Convey("Then it decodes without error", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(ts.Team, convey.ShouldEqual, "Gonzaga")
		})

		convey.Convey("Then numbers and numeric text are coerced", func() {
			convey.So(ts.Value(model.StatPointMargin), convey.ShouldEqual, 14.2)
			convey.So(ts.Value(model.StatFieldGoalPct), convey.ShouldEqual, 0.51)
			convey.So(ts.Value(model.StatQualityWins), convey.ShouldEqual, 12.0)
		})

		convey.Convey("Then unusable values read as NaN", func() {
			convey.So(math.IsNaN(ts.Value(model.StatStrengthOfSchedule)), convey.ShouldBeTrue)
			convey.So(math.IsNaN(ts.Value(model.StatOpponentFieldGoalPct)), convey.ShouldBeTrue)
			convey.So(math.IsNaN(ts.Value(model.StatReboundsPerGame)), convey.ShouldBeTrue)
		})

		convey.Convey("Then absent values read as NaN and unknown keys are dropped", func() {
			convey.So(ts.Has(model.StatAssistsPerGame), convey.ShouldBeFalse)
			convey.So(math.IsNaN(ts.Value(model.StatAssistsPerGame)), convey.ShouldBeTrue)
			convey.So(ts.Values(), convey.ShouldNotContainKey, model.Stat("conference"))
		})
	})

	convey.Convey("Given malformed JSON", t, func() {
		var ts model.TeamStatistics
		err := json.Unmarshal([]byte(`{"team": `), &ts)

		convey.Convey("Then decoding fails", func() {
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestTeamStatisticsValues(t *testing.T) {
	convey.Convey("Given statistics built from a map", t, func() {
		src := map[model.Stat]float64{model.StatPointsPerGame: 80}
		ts := model.NewTeamStatistics("Iowa", src)

		convey.Convey("When the source map changes", func() {
			src[model.StatPointsPerGame] = 90

			convey.Convey("Then the statistics keep their own copy", func() {
				convey.So(ts.Value(model.StatPointsPerGame), convey.ShouldEqual, 80.0)
			})
		})

		convey.Convey("When a value is set on a zero value", func() {
			var empty model.TeamStatistics
			empty.Set(model.StatSteals, 7)

			convey.Convey("Then it is stored", func() {
				convey.So(empty.Value(model.StatSteals), convey.ShouldEqual, 7.0)
			})
		})

		convey.Convey("When marshalled with a NaN value", func() {
			ts.Set(model.StatBlocks, math.NaN())
			b, err := json.Marshal(ts)

			convey.Convey("Then NaN becomes null", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(b), convey.ShouldContainSubstring, `"blocks":null`)
				convey.So(string(b), convey.ShouldContainSubstring, `"team":"Iowa"`)
			})
		})
	})
}

func TestCoerce(t *testing.T) {
	convey.Convey("Given raw JSON values", t, func() {
		convey.So(model.Coerce(float64(3)), convey.ShouldEqual, 3.0)
		convey.So(model.Coerce(json.Number("7.5")), convey.ShouldEqual, 7.5)
		convey.So(model.Coerce("-4"), convey.ShouldEqual, -4.0)
		convey.So(math.IsNaN(model.Coerce("")), convey.ShouldBeTrue)
		convey.So(math.IsNaN(model.Coerce("abc")), convey.ShouldBeTrue)
		convey.So(math.IsNaN(model.Coerce(nil)), convey.ShouldBeTrue)
		convey.So(math.IsNaN(model.Coerce(false)), convey.ShouldBeTrue)
		convey.So(math.IsNaN(model.Coerce([]any{1})), convey.ShouldBeTrue)
	})

	convey.Convey("Given text that only Go syntax reads as a number", t, func() {
		for _, s := range []string{"1_2", "0x0c", "0b11", "Inf", "NaN", "1e", "12abc", "N/A", "--3"} {
			convey.So(math.IsNaN(model.Coerce(s)), convey.ShouldBeTrue)
		}
	})

	convey.Convey("Given plain decimal text", t, func() {
		convey.So(model.Coerce(" 12 "), convey.ShouldEqual, 12.0)
		convey.So(model.Coerce("+0.415"), convey.ShouldEqual, 0.415)
		convey.So(model.Coerce(".5"), convey.ShouldEqual, 0.5)
		convey.So(model.Coerce("7."), convey.ShouldEqual, 7.0)
		convey.So(model.Coerce("1.5e1"), convey.ShouldEqual, 15.0)
	})
}
