package model

// Job is one team of a batch waiting for classification.
type Job struct {
	BatchID string // batch the team belongs to
	Index   int    // position in the batch, used to keep input order
	Ruleset string // threshold table name
	Stats   TeamStatistics
}
