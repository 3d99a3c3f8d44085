package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
	"github.com/aryan-dani/FRA-GIS/pkg/domainerrors"
)

// Postgres persists claims in PostgreSQL. The table name is the canonical
// `claims`; the legacy FRA_Claims naming from earlier deployments is not
// carried forward.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Schema is the claims table definition, applied by EnsureSchema.
const Schema = `
CREATE TABLE IF NOT EXISTS claims (
	id         UUID PRIMARY KEY,
	name       TEXT,
	village    TEXT,
	district   TEXT,
	state      TEXT,
	claim_type TEXT NOT NULL DEFAULT 'Unknown',
	status     TEXT NOT NULL DEFAULT 'Pending',
	latitude   DOUBLE PRECISION,
	longitude  DOUBLE PRECISION,
	raw_text   TEXT,
	entities   JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the claims table when it does not exist yet.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure claims schema: %w", err)
	}
	return nil
}

const selectColumns = `id, name, village, district, state, claim_type, status, latitude, longitude, raw_text, entities, created_at`

func (s *Postgres) ListClaims(ctx context.Context) ([]models.ClaimRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+selectColumns+` FROM claims ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeUnavailable, "list claims", err)
	}
	defer rows.Close()

	var out []models.ClaimRecord
	for rows.Next() {
		rec, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeUnavailable, "list claims", err)
	}
	return out, nil
}

func (s *Postgres) GetClaim(ctx context.Context, id string) (*models.ClaimRecord, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM claims WHERE id = $1`, id)
	rec, err := scanClaim(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.New(domainerrors.CodeNotFound, "claim not found")
		}
		return nil, domainerrors.Wrap(domainerrors.CodeUnavailable, "get claim", err)
	}
	return &rec, nil
}

func (s *Postgres) CreateClaim(ctx context.Context, draft models.ClaimRecord) (string, error) {
	id := uuid.NewString()
	status := draft.Status
	if status == "" {
		status = models.StatusPending
	}
	var entities []byte
	if len(draft.Entities) > 0 {
		var err error
		entities, err = json.Marshal(draft.Entities)
		if err != nil {
			return "", fmt.Errorf("marshal entities: %w", err)
		}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO claims (id, name, village, district, state, claim_type, status, latitude, longitude, raw_text, entities, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		id, draft.Name, draft.Village, draft.District, draft.State,
		string(models.ParseClaimType(string(draft.ClaimType))), string(status),
		nullableFloat(draft.Latitude), nullableFloat(draft.Longitude),
		draft.RawText, entities, time.Now().UTC(),
	)
	if err != nil {
		return "", domainerrors.Wrap(domainerrors.CodeUnavailable, "insert claim", err)
	}
	return id, nil
}

func (s *Postgres) UpdateStatus(ctx context.Context, id string, status models.ClaimStatus) error {
	tag, err := s.pool.Exec(ctx, `UPDATE claims SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return domainerrors.Wrap(domainerrors.CodeUnavailable, "update claim status", err)
	}
	if tag.RowsAffected() == 0 {
		return domainerrors.New(domainerrors.CodeNotFound, "claim not found")
	}
	return nil
}

func nullableFloat(f models.NullFloat) *float64 {
	if !f.Finite() {
		return nil
	}
	v := f.Value
	return &v
}

func scanClaim(row pgx.Row) (models.ClaimRecord, error) {
	var (
		rec      models.ClaimRecord
		lat, lng *float64
		entities []byte
		created  time.Time
	)
	err := row.Scan(&rec.ID, &rec.Name, &rec.Village, &rec.District, &rec.State,
		&rec.ClaimType, &rec.Status, &lat, &lng, &rec.RawText, &entities, &created)
	if err != nil {
		return models.ClaimRecord{}, err
	}
	if lat != nil {
		rec.Latitude = models.Float(*lat)
	}
	if lng != nil {
		rec.Longitude = models.Float(*lng)
	}
	if len(entities) > 0 {
		// Display-only metadata: a corrupt blob degrades to absent.
		_ = json.Unmarshal(entities, &rec.Entities)
	}
	rec.CreatedAt = models.Timestamp(created)
	return rec, nil
}

var _ Store = (*Postgres)(nil)
