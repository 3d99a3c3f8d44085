// Package filter implements text search and multi-field equality filtering
// over a claims snapshot. All view variants (table, export, markers) share
// this one implementation instead of re-deriving their own predicates.
package filter

import (
	"sort"
	"strings"

	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
)

// Query captures one filter pass over a snapshot. Empty values are no-ops,
// so the zero Query matches everything.
type Query struct {
	Search    string
	State     string
	District  string
	ClaimType string
	Status    string
}

// IsZero reports whether the query constrains nothing.
func (q Query) IsZero() bool {
	return q == Query{}
}

// Apply returns the records matching the search term and every non-empty
// equality filter. The passes are independent predicates ANDed together, so
// applying two queries in either order yields the same result set. The input
// slice is never mutated and relative order is preserved.
func Apply(records []models.ClaimRecord, q Query) []models.ClaimRecord {
	if q.IsZero() {
		out := make([]models.ClaimRecord, len(records))
		copy(out, records)
		return out
	}
	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.ClaimRecord, 0, len(records))
	for _, rec := range records {
		if !matchesSearch(rec, term) {
			continue
		}
		if !matchesField(rec.State, q.State) ||
			!matchesField(rec.District, q.District) ||
			q.ClaimType != "" && string(rec.ClaimType) != q.ClaimType ||
			q.Status != "" && string(rec.Status) != q.Status {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// matchesSearch is a case-insensitive substring match against the display
// fields. Absent fields never match; an empty term matches everything.
func matchesSearch(rec models.ClaimRecord, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []*string{rec.Name, rec.Village, rec.District, rec.State} {
		if field != nil && strings.Contains(strings.ToLower(*field), term) {
			return true
		}
	}
	return false
}

// matchesField is an exact, case-sensitive equality filter. An empty filter
// value matches everything; an absent field matches nothing else.
func matchesField(field *string, want string) bool {
	if want == "" {
		return true
	}
	return field != nil && *field == want
}

// Options holds the sorted distinct values observed per filterable field,
// used to populate filter dropdowns from the live snapshot.
type Options struct {
	States     []string `json:"states"`
	Districts  []string `json:"districts"`
	ClaimTypes []string `json:"claim_types"`
	Statuses   []string `json:"statuses"`
}

// DistinctOptions derives filter choices from the current snapshot,
// excluding absent and empty values.
func DistinctOptions(records []models.ClaimRecord) Options {
	states := map[string]struct{}{}
	districts := map[string]struct{}{}
	claimTypes := map[string]struct{}{}
	statuses := map[string]struct{}{}
	for _, rec := range records {
		addString(states, rec.State)
		addString(districts, rec.District)
		if rec.ClaimType != "" {
			claimTypes[string(rec.ClaimType)] = struct{}{}
		}
		if rec.Status != "" {
			statuses[string(rec.Status)] = struct{}{}
		}
	}
	return Options{
		States:     sortedKeys(states),
		Districts:  sortedKeys(districts),
		ClaimTypes: sortedKeys(claimTypes),
		Statuses:   sortedKeys(statuses),
	}
}

func addString(set map[string]struct{}, v *string) {
	if v != nil && *v != "" {
		set[*v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
