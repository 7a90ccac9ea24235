// Package badge classifies a team's season statistics into one primary badge
// and an ordered list of secondary badges using a two-tier threshold table.
package badge

// Badge is a classification label.
type Badge string

// Badge labels. Balanced is the default when nothing qualifies.
const (
	Fortress      Badge = "Fortress"
	Lockdown      Badge = "Lockdown"
	ArcDefenders  Badge = "Arc Defenders"
	Sharpshooters Badge = "Sharpshooters"
	Marksmen      Badge = "Marksmen"
	Scorchers     Badge = "Scorchers"
	Distributors  Badge = "Distributors"
	GlassCleaners Badge = "Glass Cleaners"
	Pickpockets   Badge = "Pickpockets"
	GiantSlayers  Badge = "Giant Slayers"
	BattleTested  Badge = "Battle-Tested"
	Playmakers    Badge = "Playmakers"
	RimProtectors Badge = "Rim Protectors"
	Balanced      Badge = "Balanced"
)

// Tier is the threshold level a candidate qualified at.
type Tier string

const (
	TierPrimary   Tier = "primary"
	TierSecondary Tier = "secondary"
)

// Candidate is a badge a team qualified for together with its comparable score.
type Candidate struct {
	Badge Badge   `json:"badge"`
	Score float64 `json:"score"`
}

// Candidates holds the evaluator output, each list in table row order.
type Candidates struct {
	Primary   []Candidate `json:"primary"`
	Secondary []Candidate `json:"secondary"`
}

// Empty reports whether no row qualified at either tier.
func (c Candidates) Empty() bool {
	return len(c.Primary) == 0 && len(c.Secondary) == 0
}

// Assignment is the final classification of one team.
// SecondaryBadges is never nil so it encodes as [] rather than null.
type Assignment struct {
	PrimaryBadge    Badge   `json:"primaryBadge"`
	SecondaryBadges []Badge `json:"secondaryBadges"`
}

// IsDefault reports whether the team received the fallback badge.
func (a Assignment) IsDefault(fallback Badge) bool {
	return a.PrimaryBadge == fallback
}
