// Package analytics computes aggregate views over a claims snapshot:
// grouped counts, a time-bucketed cumulative series, and the approval rate.
// Aggregate is pure and total: any snapshot, including an empty one,
// produces a well-formed summary.
package analytics

import (
	"math"
	"sort"

	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
)

// TimelinePoint is one calendar day in the cumulative series.
type TimelinePoint struct {
	Date       string `json:"date"` // YYYY-MM-DD, UTC
	Count      int    `json:"count"`
	Cumulative int    `json:"cumulative"`
}

// Summary is the aggregate view of one snapshot. The four sections are
// independent reads of the same records: totals always include every record,
// while the timeline only covers records with a usable created_at.
type Summary struct {
	Total        int               `json:"total"`
	ByType       map[string]int    `json:"by_type"`
	ByStatus     map[string]int    `json:"by_status"`
	ByDistrict   map[string]int    `json:"by_district"`
	Timeline     []TimelinePoint   `json:"timeline"`
	ApprovalRate float64           `json:"approval_rate"`
}

const dayLayout = "2006-01-02"

// Aggregate computes the summary for a normalized snapshot.
func Aggregate(records []models.ClaimRecord) Summary {
	s := Summary{
		Total:      len(records),
		ByType:     make(map[string]int),
		ByStatus:   make(map[string]int),
		ByDistrict: make(map[string]int),
	}

	perDay := make(map[string]int)
	approved := 0
	for _, rec := range records {
		s.ByType[string(rec.ClaimType)]++
		s.ByStatus[string(rec.Status)]++
		s.ByDistrict[districtKey(rec.District)]++
		if rec.Status == models.StatusApproved {
			approved++
		}
		if rec.CreatedAt.Valid {
			perDay[rec.CreatedAt.Time.UTC().Format(dayLayout)]++
		}
	}

	s.Timeline = cumulativeSeries(perDay)
	s.ApprovalRate = rate(approved, s.Total)
	return s
}

func districtKey(d *string) string {
	if d == nil || *d == "" {
		return "Unknown"
	}
	return *d
}

// cumulativeSeries sorts the observed days ascending and folds the daily
// counts into a running sum, so the series is non-decreasing by
// construction.
func cumulativeSeries(perDay map[string]int) []TimelinePoint {
	days := make([]string, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Strings(days) // YYYY-MM-DD sorts chronologically

	out := make([]TimelinePoint, 0, len(days))
	running := 0
	for _, day := range days {
		running += perDay[day]
		out = append(out, TimelinePoint{Date: day, Count: perDay[day], Cumulative: running})
	}
	return out
}

// rate is approved/total as a percentage rounded to one decimal place,
// defined as 0 for an empty snapshot.
func rate(approved, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(approved)/float64(total)*1000) / 10
}

// Stats are the dashboard tile counts.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
}

// TileStats derives the dashboard tiles from a normalized snapshot.
func TileStats(records []models.ClaimRecord) Stats {
	st := Stats{Total: len(records)}
	for _, rec := range records {
		switch rec.Status {
		case models.StatusPending:
			st.Pending++
		case models.StatusApproved:
			st.Approved++
		}
	}
	return st
}
