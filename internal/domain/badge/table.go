package badge

import (
	"math"

	"github.com/okian/teambadge/internal/domain/model"
)

// Direction is the comparison a statistic must pass against a cutoff.
type Direction string

const (
	AtLeast Direction = ">="
	AtMost  Direction = "<="
)

// ScoreKind maps a qualifying value onto the score used to rank candidates.
type ScoreKind string

const (
	ScoreValue        ScoreKind = "value"     // the value itself
	ScoreComplement   ScoreKind = "1-value"   // percentages where lower is better
	ScoreHundredMinus ScoreKind = "100-value" // ranks and points allowed
)

// Apply computes the score for v.
func (k ScoreKind) Apply(v float64) float64 {
	switch k {
	case ScoreComplement:
		return 1 - v
	case ScoreHundredMinus:
		return 100 - v
	default:
		return v
	}
}

// Rule is one row of a threshold table.
type Rule struct {
	Stat      model.Stat `json:"stat"`
	Label     string     `json:"label"`
	Badge     Badge      `json:"badge"`
	Direction Direction  `json:"direction"`
	Primary   float64    `json:"primary"`
	Secondary float64    `json:"secondary"`
	Score     ScoreKind  `json:"score"`
	// RequirePositive rejects values <= 0, which is how an unranked team shows up.
	RequirePositive bool `json:"requirePositive,omitempty"`
	// Percent marks fractional values for display.
	Percent bool `json:"percent,omitempty"`
}

// Meets reports whether v passes cutoff under this rule.
func (r Rule) Meets(v, cutoff float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if r.RequirePositive && v <= 0 {
		return false
	}
	if r.Direction == AtMost {
		return v <= cutoff
	}
	return v >= cutoff
}

// Table is an immutable, ordered threshold table. Row order decides the
// order of secondary badges and which badge wins a tie.
type Table struct {
	name     string
	rules    []Rule
	fallback Badge
}

func newTable(name string, fallback Badge, rules ...Rule) *Table {
	return &Table{name: name, rules: rules, fallback: fallback}
}

// Name returns the ruleset name.
func (t *Table) Name() string { return t.name }

// Fallback returns the badge assigned when nothing qualifies.
func (t *Table) Fallback() Badge { return t.fallback }

// Rules returns a copy of the rows in order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Evaluate walks the rows in order and collects every badge the team
// qualifies for. A row lands in at most one tier; primary is checked first.
func (t *Table) Evaluate(stats model.TeamStatistics) Candidates {
	var c Candidates
	for _, r := range t.rules {
		v := stats.Value(r.Stat)
		switch {
		case r.Meets(v, r.Primary):
			c.Primary = append(c.Primary, Candidate{Badge: r.Badge, Score: r.Score.Apply(v)})
		case r.Meets(v, r.Secondary):
			c.Secondary = append(c.Secondary, Candidate{Badge: r.Badge, Score: r.Score.Apply(v)})
		}
	}
	return c
}

// Classify evaluates and selects in one step.
func (t *Table) Classify(stats model.TeamStatistics) Assignment {
	return Select(t.Evaluate(stats), t.fallback)
}
