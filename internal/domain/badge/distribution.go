package badge

import (
	"math"
	"sort"
)

// Share is how many teams received one primary badge.
type Share struct {
	Badge   Badge   `json:"badge"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"` // of all teams, one decimal
}

// Distribution summarizes a classified batch.
type Distribution struct {
	Total         int     `json:"total"`
	Specialty     int     `json:"specialty"`     // teams with a non-fallback primary badge
	Balanced      int     `json:"balanced"`      // teams with the fallback badge
	WithSecondary int     `json:"withSecondary"` // teams with at least one secondary badge
	Shares        []Share `json:"shares"`
}

// Summarize counts primary badges, most common first. Equal counts keep the
// order in which the badge first appeared.
func Summarize(assignments []Assignment, fallback Badge) Distribution {
	d := Distribution{Total: len(assignments), Shares: []Share{}}
	index := make(map[Badge]int)
	for _, a := range assignments {
		i, ok := index[a.PrimaryBadge]
		if !ok {
			i = len(d.Shares)
			index[a.PrimaryBadge] = i
			d.Shares = append(d.Shares, Share{Badge: a.PrimaryBadge})
		}
		d.Shares[i].Count++
		if a.PrimaryBadge == fallback {
			d.Balanced++
		} else {
			d.Specialty++
		}
		if len(a.SecondaryBadges) > 0 {
			d.WithSecondary++
		}
	}
	sort.SliceStable(d.Shares, func(i, j int) bool {
		return d.Shares[i].Count > d.Shares[j].Count
	})
	for i := range d.Shares {
		d.Shares[i].Percent = percent(d.Shares[i].Count, d.Total)
	}
	return d
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)*1000/float64(total)) / 10
}
