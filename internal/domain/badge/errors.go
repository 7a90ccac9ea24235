package badge

import "errors"

// ErrUnknownRuleset is returned by Lookup for a table name that does not exist.
var ErrUnknownRuleset = errors.New("unknown ruleset")
