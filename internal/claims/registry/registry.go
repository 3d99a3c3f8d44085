// Package registry orchestrates the claims snapshot. It owns the only
// in-memory copy of the records: mutations round-trip through the store and
// are followed by a full re-read, so readers always observe what the store
// accepted, never a local guess. The snapshot is replaced wholesale and
// atomically; it is never patched in place.
package registry

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/aryan-dani/FRA-GIS/internal/claims/analytics"
	"github.com/aryan-dani/FRA-GIS/internal/claims/export"
	"github.com/aryan-dani/FRA-GIS/internal/claims/filter"
	"github.com/aryan-dani/FRA-GIS/internal/claims/geo"
	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
	"github.com/aryan-dani/FRA-GIS/internal/claims/paginate"
	"github.com/aryan-dani/FRA-GIS/internal/claims/store"
	"github.com/aryan-dani/FRA-GIS/internal/claims/workflow"
	"github.com/aryan-dani/FRA-GIS/internal/platform/metrics"
	"github.com/aryan-dani/FRA-GIS/pkg/domainerrors"
)

// Registry composes the data-shaping components over the current snapshot.
type Registry struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu       sync.RWMutex
	snapshot []models.ClaimRecord
	applied  uint64 // ticket of the refresh the snapshot came from

	tickets atomic.Uint64
}

// New builds a registry over the given store. The snapshot starts empty;
// call Refresh to load it.
func New(st store.Store, logger *slog.Logger, m *metrics.Metrics) *Registry {
	return &Registry{store: st, logger: logger, metrics: m}
}

// Refresh re-reads the full collection from the store and atomically
// replaces the snapshot. Records are normalized here, at the ingestion
// boundary. Concurrent refreshes may complete in any order; only the one
// that started last wins, so a slow stale fetch can never clobber a newer
// snapshot. On failure the previous snapshot is retained.
func (r *Registry) Refresh(ctx context.Context) error {
	ticket := r.tickets.Add(1)

	records, err := r.store.ListClaims(ctx)
	if err != nil {
		r.metrics.RefreshFailures.Inc()
		if domainerrors.Is(err, domainerrors.CodeUnavailable) {
			return err
		}
		return domainerrors.Wrap(domainerrors.CodeUnavailable, "refresh snapshot", err)
	}
	models.NormalizeAll(records)

	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket < r.applied {
		// A refresh that started after this one already landed.
		r.logger.DebugContext(ctx, "dropping stale snapshot refresh", "ticket", ticket, "applied", r.applied)
		return nil
	}
	r.applied = ticket
	r.snapshot = records
	r.metrics.SnapshotRefreshes.Inc()
	return nil
}

// Snapshot returns a copy of the current point-in-time view. All readers
// (table, map, analytics) shape the same copy, so they are mutually
// consistent.
func (r *Registry) Snapshot() []models.ClaimRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ClaimRecord, len(r.snapshot))
	copy(out, r.snapshot)
	return out
}

// Get fetches one claim by id from the store (not the snapshot), so the
// detail view reflects the latest accepted state even between refreshes.
func (r *Registry) Get(ctx context.Context, id string) (*models.ClaimRecord, error) {
	rec, err := r.store.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Normalize()
	return rec, nil
}

// Create validates a submission, persists it, and refreshes the snapshot.
// The claimant name is the one required field; everything else may be
// filled in later from the digitized document.
func (r *Registry) Create(ctx context.Context, draft models.ClaimRecord) (string, error) {
	if strings.TrimSpace(models.String(draft.Name)) == "" {
		return "", domainerrors.New(domainerrors.CodeBadRequest, "claimant name is required")
	}
	draft.ID = ""
	draft.ClaimType = models.ParseClaimType(string(draft.ClaimType))

	id, err := r.store.CreateClaim(ctx, draft)
	if err != nil {
		return "", err
	}
	r.metrics.ClaimsCreated.Inc()
	r.refreshAfterWrite(ctx, "create", id)
	return id, nil
}

// SetStatus validates the transition, writes it to the store, refreshes,
// and returns the record as the store now holds it. When the store rejects
// the write the snapshot is left untouched.
func (r *Registry) SetStatus(ctx context.Context, id, rawStatus string) (*models.ClaimRecord, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := workflow.Transition(current.Status, rawStatus)
	if err != nil {
		return nil, err
	}
	if err := r.store.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	r.metrics.StatusUpdates.Inc()
	r.refreshAfterWrite(ctx, "status update", id)
	return r.Get(ctx, id)
}

// refreshAfterWrite completes the mutate-then-refresh step. The write
// already succeeded, so a failed refresh only logs: readers keep the
// previous snapshot until the next successful refresh.
func (r *Registry) refreshAfterWrite(ctx context.Context, op, id string) {
	if err := r.Refresh(ctx); err != nil {
		r.logger.WarnContext(ctx, "snapshot refresh failed after write",
			"op", op,
			"claim_id", id,
			"error", err.Error(),
		)
	}
}

// View is the shaped table page plus everything the table chrome needs.
type View struct {
	Claims     []models.ClaimRecord `json:"claims"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
	Options    filter.Options       `json:"options"`
}

// View filters, searches, and paginates the current snapshot. Filter
// options are derived from the whole snapshot, not the filtered subset, so
// choosing one filter never hides the others' choices.
func (r *Registry) View(q filter.Query, page, pageSize int) View {
	snapshot := r.Snapshot()
	matched := filter.Apply(snapshot, q)
	claims := paginate.Page(matched, pageSize, page)
	if claims == nil {
		// An out-of-range page serializes as an empty array, not null.
		claims = []models.ClaimRecord{}
	}
	return View{
		Claims:     claims,
		Total:      len(matched),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: paginate.TotalPages(len(matched), pageSize),
		Options:    filter.DistinctOptions(snapshot),
	}
}

// Analytics aggregates the current snapshot.
func (r *Registry) Analytics() analytics.Summary {
	return analytics.Aggregate(r.Snapshot())
}

// Stats derives the dashboard tile counts.
func (r *Registry) Stats() analytics.Stats {
	return analytics.TileStats(r.Snapshot())
}

// Markers builds the map layer for the current snapshot.
func (r *Registry) Markers() []geo.Marker {
	return geo.Markers(r.Snapshot())
}

// WriteCSV streams the filtered snapshot as claims_data.csv rows.
func (r *Registry) WriteCSV(w io.Writer, q filter.Query) error {
	matched := filter.Apply(r.Snapshot(), q)
	return export.Write(w, matched, export.DefaultColumns())
}

// Detail is the single-claim view: the record plus its map affordances.
type Detail struct {
	Claim     models.ClaimRecord `json:"claim"`
	Plottable bool               `json:"plottable"`
	Marker    *geo.Marker        `json:"marker,omitempty"`
	Emphasis  [][2]float64       `json:"emphasis,omitempty"`
}

// Detail fetches one claim and decorates it for the detail view. The
// emphasis square is a visual affordance only; there is no parcel geometry
// in this system.
func (r *Registry) Detail(ctx context.Context, id string) (*Detail, error) {
	rec, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &Detail{Claim: *rec, Plottable: geo.IsPlottable(*rec)}
	if d.Plottable {
		markers := geo.Markers([]models.ClaimRecord{*rec})
		d.Marker = &markers[0]
		d.Emphasis = geo.EmphasisBounds(rec.Latitude.Value, rec.Longitude.Value)
	}
	return d, nil
}
