// Package recordio reads and writes team record documents without
// disturbing fields the classifier does not own.
package recordio

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/okian/teambadge/internal/domain/badge"
	"github.com/okian/teambadge/internal/domain/model"
)

// Output keys written by Annotate.
const (
	PrimaryBadgeKey    = "primaryBadge"
	SecondaryBadgesKey = "secondaryBadges"
)

// Record is one team object with its keys in document order.
type Record struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{fields: orderedmap.New[string, json.RawMessage]()}
}

// UnmarshalJSON keeps every key and its raw value in order.
func (r *Record) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrNotObject
	}
	fields := orderedmap.New[string, json.RawMessage]()
	if err := fields.UnmarshalJSON(trimmed); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	r.fields = fields
	return nil
}

// MarshalJSON writes the keys back in their original order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return r.fields.MarshalJSON()
}

// Keys returns the record's keys in order.
func (r *Record) Keys() []string {
	if r.fields == nil {
		return nil
	}
	keys := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Raw returns the raw JSON value stored under key.
func (r *Record) Raw(key string) (json.RawMessage, bool) {
	if r.fields == nil {
		return nil, false
	}
	return r.fields.Get(key)
}

// Set stores v under key. An existing key keeps its position; a new key is
// appended.
func (r *Record) Set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if r.fields == nil {
		r.fields = orderedmap.New[string, json.RawMessage]()
	}
	r.fields.Set(key, b)
	return nil
}

// Team returns the record's team name, or "" when absent.
func (r *Record) Team() string {
	return r.Statistics().Team
}

// Statistics extracts the team name and every known statistic.
func (r *Record) Statistics() model.TeamStatistics {
	var ts model.TeamStatistics
	if r.fields == nil {
		return ts
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		var v any
		if err := json.Unmarshal(pair.Value, &v); err != nil {
			continue
		}
		if pair.Key == model.TeamKey {
			if s, ok := v.(string); ok {
				ts.Team = s
			} else if v != nil {
				ts.Team = string(pair.Value)
			}
			continue
		}
		if s := model.Stat(pair.Key); s.IsKnown() {
			ts.Set(s, model.Coerce(v))
		}
	}
	return ts
}

// Annotate writes the assignment into the record.
func (r *Record) Annotate(a badge.Assignment) error {
	sec := a.SecondaryBadges
	if sec == nil {
		sec = []badge.Badge{}
	}
	if err := r.Set(PrimaryBadgeKey, a.PrimaryBadge); err != nil {
		return err
	}
	return r.Set(SecondaryBadgesKey, sec)
}
