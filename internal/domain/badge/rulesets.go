package badge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/teambadge/internal/domain/model"
)

// Ruleset names.
const (
	RulesetNCAA = "ncaa"
	RulesetWIAA = "wiaa"
)

var ncaa = newTable(RulesetNCAA, Balanced,
	Rule{Stat: model.StatPointMargin, Label: "Point Margin", Badge: Fortress, Direction: AtLeast, Primary: 12.0, Secondary: 10.0, Score: ScoreValue},
	Rule{Stat: model.StatOpponentFieldGoalPct, Label: "Opponent FG%", Badge: Lockdown, Direction: AtMost, Primary: 0.40, Secondary: 0.42, Score: ScoreComplement, Percent: true},
	Rule{Stat: model.StatOpponentThreePointPct, Label: "Opponent 3PT%", Badge: ArcDefenders, Direction: AtMost, Primary: 0.32, Secondary: 0.335, Score: ScoreComplement, Percent: true},
	Rule{Stat: model.StatThreePointPct, Label: "3-Point %", Badge: Sharpshooters, Direction: AtLeast, Primary: 0.38, Secondary: 0.36, Score: ScoreValue, Percent: true},
	Rule{Stat: model.StatFieldGoalPct, Label: "Field Goal %", Badge: Marksmen, Direction: AtLeast, Primary: 0.48, Secondary: 0.46, Score: ScoreValue, Percent: true},
	Rule{Stat: model.StatPointsPerGame, Label: "Points Per Game", Badge: Scorchers, Direction: AtLeast, Primary: 82.0, Secondary: 78.0, Score: ScoreValue},
	Rule{Stat: model.StatAssistsPerGame, Label: "Assists Per Game", Badge: Distributors, Direction: AtLeast, Primary: 17.0, Secondary: 15.5, Score: ScoreValue},
	Rule{Stat: model.StatReboundsPerGame, Label: "Rebounds Per Game", Badge: GlassCleaners, Direction: AtLeast, Primary: 42.0, Secondary: 40.0, Score: ScoreValue},
	Rule{Stat: model.StatTurnoversForced, Label: "Turnovers Forced", Badge: Pickpockets, Direction: AtLeast, Primary: 15.0, Secondary: 13.5, Score: ScoreValue},
	Rule{Stat: model.StatQualityWins, Label: "Quality Wins Rank", Badge: GiantSlayers, Direction: AtMost, Primary: 15, Secondary: 25, Score: ScoreHundredMinus, RequirePositive: true},
	Rule{Stat: model.StatStrengthOfSchedule, Label: "Strength of Schedule Rank", Badge: BattleTested, Direction: AtMost, Primary: 15, Secondary: 25, Score: ScoreHundredMinus, RequirePositive: true},
)

var wiaa = newTable(RulesetWIAA, Balanced,
	Rule{Stat: model.StatPointsScored, Label: "Points Scored", Badge: Scorchers, Direction: AtLeast, Primary: 75, Secondary: 67, Score: ScoreValue},
	Rule{Stat: model.StatThreePointPct, Label: "3-Point %", Badge: Sharpshooters, Direction: AtLeast, Primary: 0.33, Secondary: 0.31, Score: ScoreValue, Percent: true},
	Rule{Stat: model.StatFieldGoalPct, Label: "Field Goal %", Badge: Marksmen, Direction: AtLeast, Primary: 0.44, Secondary: 0.42, Score: ScoreValue, Percent: true},
	Rule{Stat: model.StatAssists, Label: "Assists", Badge: Playmakers, Direction: AtLeast, Primary: 14, Secondary: 12, Score: ScoreValue},
	Rule{Stat: model.StatPointsGivenUp, Label: "Points Given Up", Badge: Fortress, Direction: AtMost, Primary: 55, Secondary: 60, Score: ScoreHundredMinus},
	Rule{Stat: model.StatPointDifferential, Label: "Point Differential", Badge: Lockdown, Direction: AtLeast, Primary: 10, Secondary: 8, Score: ScoreValue},
	Rule{Stat: model.StatSteals, Label: "Steals", Badge: Pickpockets, Direction: AtLeast, Primary: 6.5, Secondary: 5.5, Score: ScoreValue},
	Rule{Stat: model.StatBlocks, Label: "Blocks", Badge: RimProtectors, Direction: AtLeast, Primary: 3.5, Secondary: 3.0, Score: ScoreValue},
	Rule{Stat: model.StatRebounds, Label: "Rebounds", Badge: GlassCleaners, Direction: AtLeast, Primary: 34, Secondary: 31, Score: ScoreValue},
	Rule{Stat: model.StatQualityWins, Label: "Quality Wins", Badge: GiantSlayers, Direction: AtLeast, Primary: 5, Secondary: 3, Score: ScoreValue},
)

var registry = map[string]*Table{
	RulesetNCAA: ncaa,
	RulesetWIAA: wiaa,
}

// NCAA returns the college table.
func NCAA() *Table { return ncaa }

// WIAA returns the high-school table.
func WIAA() *Table { return wiaa }

// Lookup resolves a table by name, case-insensitively. An empty name
// selects the college table.
func Lookup(name string) (*Table, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return ncaa, nil
	}
	t, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuleset, name)
	}
	return t, nil
}

// Names lists the available rulesets in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
