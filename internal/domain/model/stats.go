// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// Stat names one numeric team statistic by its JSON key.
type Stat string

// College statistics.
const (
	StatPointMargin           Stat = "pointMargin"
	StatTurnoversForced       Stat = "turnoversForced"
	StatReboundsPerGame       Stat = "reboundsPerGame"
	StatPointsPerGame         Stat = "pointsPerGame"
	StatFieldGoalPct          Stat = "fieldGoalPct"
	StatThreePointPct         Stat = "threePointPct"
	StatAssistsPerGame        Stat = "assistsPerGame"
	StatStrengthOfSchedule    Stat = "strengthOfSchedule"
	StatQualityWins           Stat = "qualityWins"
	StatOpponentFieldGoalPct  Stat = "opponentFieldGoalPct"
	StatOpponentThreePointPct Stat = "opponentThreePointPct"
)

// High-school statistics. fieldGoalPct, threePointPct and qualityWins are shared.
const (
	StatPointsScored      Stat = "pointsScored"
	StatPointsGivenUp     Stat = "pointsGivenUp"
	StatPointDifferential Stat = "pointDifferential"
	StatAssists           Stat = "assists"
	StatSteals            Stat = "steals"
	StatBlocks            Stat = "blocks"
	StatRebounds          Stat = "rebounds"
)

// TeamKey is the JSON key holding the team name.
const TeamKey = "team"

var knownStats = map[Stat]struct{}{
	StatPointMargin: {}, StatTurnoversForced: {}, StatReboundsPerGame: {}, StatPointsPerGame: {},
	StatFieldGoalPct: {}, StatThreePointPct: {}, StatAssistsPerGame: {}, StatStrengthOfSchedule: {},
	StatQualityWins: {}, StatOpponentFieldGoalPct: {}, StatOpponentThreePointPct: {},
	StatPointsScored: {}, StatPointsGivenUp: {}, StatPointDifferential: {}, StatAssists: {},
	StatSteals: {}, StatBlocks: {}, StatRebounds: {},
}

// IsKnown reports whether s is a statistic some ruleset reads.
func (s Stat) IsKnown() bool {
	_, ok := knownStats[s]
	return ok
}

// TeamStatistics is one team's season statistics. Values that are missing or
// not numeric read as NaN, which never satisfies a threshold.
type TeamStatistics struct {
	Team   string
	values map[Stat]float64
}

// NewTeamStatistics builds statistics from already-numeric values.
func NewTeamStatistics(team string, values map[Stat]float64) TeamStatistics {
	ts := TeamStatistics{Team: team, values: make(map[Stat]float64, len(values))}
	for k, v := range values {
		ts.values[k] = v
	}
	return ts
}

// Value returns the statistic or NaN when it is absent.
func (t TeamStatistics) Value(s Stat) float64 {
	v, ok := t.values[s]
	if !ok {
		return math.NaN()
	}
	return v
}

// Has reports whether the statistic was supplied.
func (t TeamStatistics) Has(s Stat) bool {
	_, ok := t.values[s]
	return ok
}

// Set stores a statistic.
func (t *TeamStatistics) Set(s Stat, v float64) {
	if t.values == nil {
		t.values = make(map[Stat]float64)
	}
	t.values[s] = v
}

// Values returns a copy of the supplied statistics.
func (t TeamStatistics) Values() map[Stat]float64 {
	out := make(map[Stat]float64, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}

// UnmarshalJSON reads a team record. Keys that are not known statistics are
// ignored; known statistics are coerced with Coerce.
func (t *TeamStatistics) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode team record: %w", err)
	}
	t.Team = ""
	t.values = make(map[Stat]float64, len(raw))
	for k, v := range raw {
		if k == TeamKey {
			t.Team = cast.ToString(v)
			continue
		}
		if s := Stat(k); s.IsKnown() {
			t.values[s] = Coerce(v)
		}
	}
	return nil
}

// MarshalJSON writes the team and its statistics. NaN values are written as null.
func (t TeamStatistics) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.values)+1)
	out[TeamKey] = t.Team
	for k, v := range t.values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[string(k)] = nil
			continue
		}
		out[string(k)] = v
	}
	return json.Marshal(out)
}

// decimalText matches plain decimal numbers with an optional exponent.
// Digit separators, hex and words like "Inf" are not numbers here.
var decimalText = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// Coerce converts a decoded JSON value to a number. Numbers pass through,
// decimal text is parsed after trimming, and anything else is NaN.
func Coerce(v any) float64 {
	switch x := v.(type) {
	case nil:
		return math.NaN()
	case string:
		s := strings.TrimSpace(x)
		if !decimalText.MatchString(s) {
			return math.NaN()
		}
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		return math.NaN()
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return math.NaN()
	}
	return f
}
