package models

import "strings"

// ClaimType classifies a claim under the Forest Rights Act. The short
// literals are what the store rows carry; ParseClaimType also accepts the
// spelled-out forms that show up in digitized documents.
type ClaimType string

const (
	ClaimTypeIFR        ClaimType = "IFR"
	ClaimTypeCR         ClaimType = "CR"
	ClaimTypeCFR        ClaimType = "CFR"
	ClaimTypeIndividual ClaimType = "Individual"
	ClaimTypeCommunity  ClaimType = "Community"
	ClaimTypeUnknown    ClaimType = "Unknown"
)

var claimTypeAliases = map[string]ClaimType{
	"ifr":                               ClaimTypeIFR,
	"individual forest rights":          ClaimTypeIFR,
	"cr":                                ClaimTypeCR,
	"community rights":                  ClaimTypeCR,
	"cfr":                               ClaimTypeCFR,
	"community forest resource rights":  ClaimTypeCFR,
	"community forest resources rights": ClaimTypeCFR,
	"individual":                        ClaimTypeIndividual,
	"community":                         ClaimTypeCommunity,
}

// ParseClaimType normalizes a raw claim type value. Unrecognized or missing
// values collapse to ClaimTypeUnknown, so the result is always one of the
// six canonical types.
func ParseClaimType(raw string) ClaimType {
	if t, ok := claimTypeAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t
	}
	return ClaimTypeUnknown
}

// ClaimStatus is the workflow state of a claim.
type ClaimStatus string

const (
	StatusPending  ClaimStatus = "Pending"
	StatusApproved ClaimStatus = "Approved"
	StatusRejected ClaimStatus = "Rejected"
	StatusInReview ClaimStatus = "In Review"
)

// Statuses lists the canonical workflow states.
func Statuses() []ClaimStatus {
	return []ClaimStatus{StatusPending, StatusApproved, StatusRejected, StatusInReview}
}

// ParseStatus normalizes a raw status value. Absent or unrecognized values
// default to StatusPending, so after normalization a record always carries
// one of the four workflow states.
func ParseStatus(raw string) ClaimStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "approved":
		return StatusApproved
	case "rejected":
		return StatusRejected
	case "in review", "inreview", "in-review":
		return StatusInReview
	default:
		return StatusPending
	}
}

// ValidStatus reports whether raw is exactly one of the four workflow
// states. Unlike ParseStatus it does not coerce, so callers can reject
// free-form input instead of silently defaulting it.
func ValidStatus(raw string) bool {
	switch ClaimStatus(raw) {
	case StatusPending, StatusApproved, StatusRejected, StatusInReview:
		return true
	}
	return false
}
