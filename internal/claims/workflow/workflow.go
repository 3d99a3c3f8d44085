// Package workflow defines the claim status state machine. The graph is
// deliberately free: a reviewer can move a claim between any of the four
// states. The set of states itself is closed, so an illegal value is
// rejected before it ever reaches the store.
package workflow

import (
	"fmt"

	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
	"github.com/aryan-dani/FRA-GIS/pkg/domainerrors"
)

// transitions enumerates the allowed targets per state. Every state may
// reach every state, including itself: re-applying the current status is an
// idempotent success, not an error.
var transitions = map[models.ClaimStatus][]models.ClaimStatus{
	models.StatusPending:  models.Statuses(),
	models.StatusApproved: models.Statuses(),
	models.StatusRejected: models.Statuses(),
	models.StatusInReview: models.Statuses(),
}

// Validate checks that raw names one of the four workflow states and
// returns it typed. It does not coerce: "approved" or a free-form value is
// a bad request, unlike the ingestion boundary which defaults unknowns.
func Validate(raw string) (models.ClaimStatus, error) {
	if !models.ValidStatus(raw) {
		return "", domainerrors.New(domainerrors.CodeBadRequest,
			fmt.Sprintf("invalid status %q", raw))
	}
	return models.ClaimStatus(raw), nil
}

// CanTransition reports whether a claim currently in from may move to to.
func CanTransition(from, to models.ClaimStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition validates a status change request against the state machine.
func Transition(from models.ClaimStatus, raw string) (models.ClaimStatus, error) {
	to, err := Validate(raw)
	if err != nil {
		return "", err
	}
	if !CanTransition(from, to) {
		return "", domainerrors.New(domainerrors.CodeBadRequest,
			fmt.Sprintf("cannot move claim from %q to %q", from, to))
	}
	return to, nil
}
