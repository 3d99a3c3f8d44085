// Package geo classifies claims for map rendering: a total color mapping
// per claim type, a plottability check, and the marker payload the map
// layer consumes. Non-plottable records are silently skipped; a bad
// coordinate must never break the map for every other claim.
package geo

import (
	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
)

// Color is the marker color token for a claim type.
type Color string

const (
	ColorBlue  Color = "#0d6efd" // individual forest rights
	ColorGreen Color = "#198754" // community rights
	ColorAmber Color = "#ffc107" // community forest resource rights
	ColorGrey  Color = "#6c757d" // everything else
)

// Classify maps a claim type to its marker color. The mapping is total:
// any value outside the three colored types, including Unknown, falls back
// to grey.
func Classify(t models.ClaimType) Color {
	switch t {
	case models.ClaimTypeIFR:
		return ColorBlue
	case models.ClaimTypeCR:
		return ColorGreen
	case models.ClaimTypeCFR:
		return ColorAmber
	default:
		return ColorGrey
	}
}

// IsPlottable reports whether a record carries both coordinates as finite
// numbers. A record with only one coordinate is not plottable.
func IsPlottable(rec models.ClaimRecord) bool {
	return rec.Latitude.Finite() && rec.Longitude.Finite()
}

// Marker is the rendering descriptor for one plottable claim. The popup
// fields carry the "N/A" display substitution because the marker payload is
// presentation, unlike the export path which keeps missing values empty.
type Marker struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Color     Color   `json:"color"`
	Name      string  `json:"name"`
	Village   string  `json:"village"`
	District  string  `json:"district"`
	ClaimType string  `json:"claim_type"`
	Status    string  `json:"status"`
}

// Markers builds the map layer for a snapshot, excluding non-plottable
// records.
func Markers(records []models.ClaimRecord) []Marker {
	out := make([]Marker, 0, len(records))
	for _, rec := range records {
		if !IsPlottable(rec) {
			continue
		}
		out = append(out, Marker{
			ID:        rec.ID,
			Latitude:  rec.Latitude.Value,
			Longitude: rec.Longitude.Value,
			Color:     Classify(rec.ClaimType),
			Name:      orNA(rec.Name),
			Village:   orNA(rec.Village),
			District:  orNA(rec.District),
			ClaimType: string(rec.ClaimType),
			Status:    string(rec.Status),
		})
	}
	return out
}

// EmphasisOffset is the half-width, in degrees, of the square drawn around
// a claim on its detail view.
const EmphasisOffset = 0.01

// EmphasisBounds returns the corner ring of a fixed-offset square centered
// on the point, ordered SW, SE, NE, NW as [lat, lng] pairs. It is a visual
// affordance for the single-claim view only; the system holds no real
// parcel geometry.
func EmphasisBounds(lat, lng float64) [][2]float64 {
	return [][2]float64{
		{lat - EmphasisOffset, lng - EmphasisOffset},
		{lat - EmphasisOffset, lng + EmphasisOffset},
		{lat + EmphasisOffset, lng + EmphasisOffset},
		{lat + EmphasisOffset, lng - EmphasisOffset},
	}
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}
