package registry

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/aryan-dani/FRA-GIS/internal/claims/filter"
	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
	"github.com/aryan-dani/FRA-GIS/internal/claims/store"
	"github.com/aryan-dani/FRA-GIS/internal/platform/metrics"
	"github.com/aryan-dani/FRA-GIS/pkg/domainerrors"
)

type RegistrySuite struct {
	suite.Suite
	store    *store.Memory
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.store = store.NewMemory()
	s.registry = New(s.store, slog.New(slog.DiscardHandler), metrics.NewWith(prometheus.NewRegistry()))
}

func (s *RegistrySuite) seed(name string, status models.ClaimStatus) string {
	id, err := s.store.CreateClaim(context.Background(), models.ClaimRecord{
		Name:   models.StringPtr(name),
		Status: status,
	})
	s.Require().NoError(err)
	return id
}

func (s *RegistrySuite) TestRefreshNormalizesAtBoundary() {
	ctx := context.Background()
	_, err := s.store.CreateClaim(ctx, models.ClaimRecord{Name: models.StringPtr("x"), ClaimType: "garbage"})
	s.Require().NoError(err)
	s.Require().NoError(s.registry.Refresh(ctx))

	snapshot := s.registry.Snapshot()
	s.Require().Len(snapshot, 1)
	s.Equal(models.ClaimTypeUnknown, snapshot[0].ClaimType)
	s.Equal(models.StatusPending, snapshot[0].Status)
}

func (s *RegistrySuite) TestRefreshFailureKeepsPreviousSnapshot() {
	ctx := context.Background()
	s.seed("kept", models.StatusPending)
	s.Require().NoError(s.registry.Refresh(ctx))

	s.store.FailWith = domainerrors.New(domainerrors.CodeUnavailable, "store down")
	err := s.registry.Refresh(ctx)
	s.Require().Error(err)
	s.True(domainerrors.Is(err, domainerrors.CodeUnavailable))
	s.Len(s.registry.Snapshot(), 1, "previous snapshot retained")
}

func (s *RegistrySuite) TestCreateRequiresName() {
	_, err := s.registry.Create(context.Background(), models.ClaimRecord{})
	s.Require().Error(err)
	s.True(domainerrors.Is(err, domainerrors.CodeBadRequest))

	_, err = s.registry.Create(context.Background(), models.ClaimRecord{Name: models.StringPtr("   ")})
	s.True(domainerrors.Is(err, domainerrors.CodeBadRequest))
}

func (s *RegistrySuite) TestCreateRefreshesSnapshot() {
	ctx := context.Background()
	id, err := s.registry.Create(ctx, models.ClaimRecord{Name: models.StringPtr("Ram Singh")})
	s.Require().NoError(err)
	s.NotEmpty(id)

	snapshot := s.registry.Snapshot()
	s.Require().Len(snapshot, 1, "mutation is followed by a refresh")
	s.Equal(id, snapshot[0].ID)
}

func (s *RegistrySuite) TestSetStatus() {
	ctx := context.Background()
	id := s.seed("Ram", models.StatusPending)
	s.Require().NoError(s.registry.Refresh(ctx))

	rec, err := s.registry.SetStatus(ctx, id, "Approved")
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, rec.Status)

	snapshot := s.registry.Snapshot()
	s.Require().Len(snapshot, 1)
	s.Equal(models.StatusApproved, snapshot[0].Status, "table reflects the store's accepted value")
}

func (s *RegistrySuite) TestSetStatusSameValueIsIdempotentSuccess() {
	ctx := context.Background()
	id := s.seed("Ram", models.StatusApproved)

	rec, err := s.registry.SetStatus(ctx, id, "Approved")
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, rec.Status)
}

func (s *RegistrySuite) TestSetStatusRejectsInvalidValue() {
	ctx := context.Background()
	id := s.seed("Ram", models.StatusPending)
	s.Require().NoError(s.registry.Refresh(ctx))

	_, err := s.registry.SetStatus(ctx, id, "Archived")
	s.Require().Error(err)
	s.True(domainerrors.Is(err, domainerrors.CodeBadRequest))

	snapshot := s.registry.Snapshot()
	s.Equal(models.StatusPending, snapshot[0].Status, "no partial update applied")
}

func (s *RegistrySuite) TestSetStatusUnknownClaim() {
	_, err := s.registry.SetStatus(context.Background(), "missing", "Approved")
	s.True(domainerrors.Is(err, domainerrors.CodeNotFound))
}

func (s *RegistrySuite) TestViewShapesSnapshot() {
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		s.seed("claimant", models.StatusPending)
	}
	s.Require().NoError(s.registry.Refresh(ctx))

	view := s.registry.View(filter.Query{}, 3, 10)
	s.Equal(25, view.Total)
	s.Equal(3, view.TotalPages)
	s.Len(view.Claims, 5)

	s.Run("stale page past the end is empty, not an error", func() {
		view := s.registry.View(filter.Query{Status: "Rejected"}, 3, 10)
		s.Zero(view.Total)
		s.Empty(view.Claims)
		s.Zero(view.TotalPages)

		// The table consumer expects an array even for an empty page.
		body, err := json.Marshal(view)
		s.Require().NoError(err)
		s.Contains(string(body), `"claims":[]`)
	})

	s.Run("options come from the full snapshot", func() {
		view := s.registry.View(filter.Query{Status: "Rejected"}, 1, 10)
		s.Equal([]string{"Pending"}, view.Options.Statuses)
	})
}

func (s *RegistrySuite) TestAnalyticsAndStatsShareSnapshot() {
	ctx := context.Background()
	s.seed("a", models.StatusApproved)
	s.seed("b", models.StatusPending)
	s.Require().NoError(s.registry.Refresh(ctx))

	summary := s.registry.Analytics()
	stats := s.registry.Stats()
	s.Equal(summary.Total, stats.Total)
	s.Equal(summary.ByStatus["Approved"], stats.Approved)
	s.InDelta(50.0, summary.ApprovalRate, 0.0001)
}

func (s *RegistrySuite) TestWriteCSV() {
	ctx := context.Background()
	s.seed("Ram Singh", models.StatusApproved)
	s.Require().NoError(s.registry.Refresh(ctx))

	var buf bytes.Buffer
	s.Require().NoError(s.registry.WriteCSV(&buf, filter.Query{}))

	rows, err := csv.NewReader(&buf).ReadAll()
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal("ID", rows[0][0])
	s.Equal("Ram Singh", rows[1][1])
}

func (s *RegistrySuite) TestDetail() {
	ctx := context.Background()
	id, err := s.store.CreateClaim(ctx, models.ClaimRecord{
		Name:      models.StringPtr("Ram"),
		ClaimType: models.ClaimTypeIFR,
		Latitude:  models.Float(22.6),
		Longitude: models.Float(80.3),
	})
	s.Require().NoError(err)

	detail, err := s.registry.Detail(ctx, id)
	s.Require().NoError(err)
	s.True(detail.Plottable)
	s.Require().NotNil(detail.Marker)
	s.Len(detail.Emphasis, 4)

	s.Run("non-plottable claim still renders a detail", func() {
		id, err := s.store.CreateClaim(ctx, models.ClaimRecord{Name: models.StringPtr("NoGeo")})
		s.Require().NoError(err)
		detail, err := s.registry.Detail(ctx, id)
		s.Require().NoError(err)
		s.False(detail.Plottable)
		s.Nil(detail.Marker)
		s.Empty(detail.Emphasis)
	})

	s.Run("unknown id is an explicit not-found", func() {
		_, err := s.registry.Detail(ctx, "missing")
		s.True(domainerrors.Is(err, domainerrors.CodeNotFound))
	})
}

// gatedStore serves each ListClaims call from its own channel so a test can
// decide which in-flight refresh completes first.
type gatedStore struct {
	store.Memory
	calls atomic.Int32
	gates []chan []models.ClaimRecord
}

func (g *gatedStore) ListClaims(context.Context) ([]models.ClaimRecord, error) {
	n := g.calls.Add(1)
	return <-g.gates[n-1], nil
}

// A refresh that started first but lands last must be dropped: the last
// started full refresh wins.
func TestRefreshLastStartedWins(t *testing.T) {
	gated := &gatedStore{gates: []chan []models.ClaimRecord{
		make(chan []models.ClaimRecord),
		make(chan []models.ClaimRecord),
	}}
	reg := New(gated, slog.New(slog.DiscardHandler), metrics.NewWith(prometheus.NewRegistry()))
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() { firstDone <- reg.Refresh(ctx) }()
	for gated.calls.Load() < 1 { // first refresh holds ticket 1
		time.Sleep(time.Millisecond)
	}

	secondDone := make(chan error, 1)
	go func() { secondDone <- reg.Refresh(ctx) }()
	for gated.calls.Load() < 2 {
		time.Sleep(time.Millisecond)
	}

	// The second (newer) refresh completes first.
	gated.gates[1] <- []models.ClaimRecord{{ID: "newer"}}
	require.NoError(t, <-secondDone)

	// The first (stale) refresh lands afterwards and must be dropped.
	gated.gates[0] <- []models.ClaimRecord{{ID: "stale"}}
	require.NoError(t, <-firstDone)

	snapshot := reg.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "newer", snapshot[0].ID)
}
