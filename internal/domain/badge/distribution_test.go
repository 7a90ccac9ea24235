package badge_test

import (
	"testing"

	"github.com/okian/teambadge/internal/domain/badge"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSummarize(t *testing.T) {
	Convey("Given a classified batch", t, func() {
		assignments := []badge.Assignment{
			{PrimaryBadge: badge.Scorchers, SecondaryBadges: []badge.Badge{badge.Fortress}},
			{PrimaryBadge: badge.Balanced, SecondaryBadges: []badge.Badge{}},
			{PrimaryBadge: badge.Fortress, SecondaryBadges: []badge.Badge{}},
			{PrimaryBadge: badge.Fortress, SecondaryBadges: []badge.Badge{badge.Lockdown}},
			{PrimaryBadge: badge.Balanced, SecondaryBadges: []badge.Badge{}},
			{PrimaryBadge: badge.Lockdown, SecondaryBadges: []badge.Badge{}},
		}

		d := badge.Summarize(assignments, badge.Balanced)

		Convey("Then totals are counted", func() {
			So(d.Total, ShouldEqual, 6)
			So(d.Specialty, ShouldEqual, 4)
			So(d.Balanced, ShouldEqual, 2)
			So(d.WithSecondary, ShouldEqual, 2)
		})

		Convey("Then shares sort by count and keep first appearance on ties", func() {
			So(d.Shares, ShouldResemble, []badge.Share{
				{Badge: badge.Balanced, Count: 2, Percent: 33.3},
				{Badge: badge.Fortress, Count: 2, Percent: 33.3},
				{Badge: badge.Scorchers, Count: 1, Percent: 16.7},
				{Badge: badge.Lockdown, Count: 1, Percent: 16.7},
			})
		})
	})

	Convey("Given an empty batch", t, func() {
		d := badge.Summarize(nil, badge.Balanced)
		So(d.Total, ShouldEqual, 0)
		So(d.Shares, ShouldBeEmpty)
		So(d.Shares, ShouldNotBeNil)
	})
}
