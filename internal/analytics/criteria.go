// Package analytics implements filtering and aggregation over an
// in-memory slice of transactions. Every function here is pure: inputs are
// never mutated and results never alias the input's backing array.
package analytics

import (
	"slices"
	"strings"

	"momodash/internal/core"
)

// Criteria is the user's current filter selection. A zero value for any
// field means "no restriction on this dimension".
type Criteria struct {
	Start     core.Date // inclusive, zero = open
	End       core.Date // inclusive, zero = open
	Provinces []string
	Districts []string
	Types     []string
	Statuses  []core.Status
	Channels  []string
}

// IsEmpty reports whether no dimension is restricted.
func (c Criteria) IsEmpty() bool {
	return c.Start.IsZero() && c.End.IsZero() &&
		len(c.Provinces) == 0 && len(c.Districts) == 0 &&
		len(c.Types) == 0 && len(c.Statuses) == 0 && len(c.Channels) == 0
}

// Key returns a canonical representation suitable for cache keys: two
// criteria selecting the same rows produce the same key regardless of the
// order values were picked in.
func (c Criteria) Key() string {
	statuses := make([]string, len(c.Statuses))
	for i, s := range c.Statuses {
		statuses[i] = string(s)
	}
	parts := []string{
		"start=" + c.Start.String(),
		"end=" + c.End.String(),
		"province=" + canonicalSet(c.Provinces),
		"district=" + canonicalSet(c.Districts),
		"type=" + canonicalSet(c.Types),
		"status=" + canonicalSet(statuses),
		"channel=" + canonicalSet(c.Channels),
	}
	return strings.Join(parts, "&")
}

func canonicalSet(values []string) string {
	if len(values) == 0 {
		return ""
	}
	out := slices.Clone(values)
	slices.Sort(out)
	out = slices.Compact(out)
	return strings.Join(out, "|")
}

// matcher is Criteria compiled into set lookups.
type matcher struct {
	start, end core.Date
	provinces  map[string]struct{}
	districts  map[string]struct{}
	types      map[string]struct{}
	statuses   map[core.Status]struct{}
	channels   map[string]struct{}
}

func (c Criteria) compile() matcher {
	return matcher{
		start:     c.Start,
		end:       c.End,
		provinces: toSet(c.Provinces),
		districts: toSet(c.Districts),
		types:     toSet(c.Types),
		statuses:  toSet(c.Statuses),
		channels:  toSet(c.Channels),
	}
}

func toSet[T comparable](values []T) map[T]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func allowed[T comparable](set map[T]struct{}, v T) bool {
	if set == nil {
		return true
	}
	_, ok := set[v]
	return ok
}

func (m matcher) match(tx core.Transaction) bool {
	if !m.start.IsZero() && tx.Date.Before(m.start) {
		return false
	}
	if !m.end.IsZero() && tx.Date.After(m.end) {
		return false
	}
	return allowed(m.provinces, tx.Province) &&
		allowed(m.districts, tx.District) &&
		allowed(m.types, tx.Type) &&
		allowed(m.statuses, tx.Status) &&
		allowed(m.channels, tx.Channel)
}
