package badge

// Select turns evaluator output into an assignment.
//
// The primary badge is the highest-scoring primary candidate, or the
// highest-scoring secondary candidate when no primary cutoff was met. Ties
// keep the earliest row. Every other candidate becomes a secondary badge:
// leftover primary candidates first, then secondary candidates, each in row
// order. With no candidates at all the fallback badge is assigned.
func Select(c Candidates, fallback Badge) Assignment {
	switch {
	case len(c.Primary) > 0:
		best := pickMax(c.Primary)
		secondary := make([]Badge, 0, len(c.Primary)-1+len(c.Secondary))
		secondary = appendExcept(secondary, c.Primary, best)
		secondary = appendExcept(secondary, c.Secondary, -1)
		return Assignment{PrimaryBadge: c.Primary[best].Badge, SecondaryBadges: secondary}
	case len(c.Secondary) > 0:
		best := pickMax(c.Secondary)
		secondary := make([]Badge, 0, len(c.Secondary)-1)
		secondary = appendExcept(secondary, c.Secondary, best)
		return Assignment{PrimaryBadge: c.Secondary[best].Badge, SecondaryBadges: secondary}
	default:
		return Assignment{PrimaryBadge: fallback, SecondaryBadges: []Badge{}}
	}
}

// pickMax returns the index of the first maximum. list must be non-empty.
func pickMax(list []Candidate) int {
	best := 0
	for i := 1; i < len(list); i++ {
		if list[i].Score > list[best].Score {
			best = i
		}
	}
	return best
}

func appendExcept(dst []Badge, src []Candidate, skip int) []Badge {
	for i, c := range src {
		if i == skip {
			continue
		}
		dst = append(dst, c.Badge)
	}
	return dst
}
