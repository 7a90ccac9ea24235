package recordio

import "errors"

// Sentinel kinds for record decoding errors.
var (
	ErrNotArray  = errors.New("document is not a JSON array")
	ErrNotObject = errors.New("record is not a JSON object")
)
