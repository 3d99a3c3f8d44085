//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
	"github.com/aryan-dani/FRA-GIS/internal/claims/store"
	"github.com/aryan-dani/FRA-GIS/pkg/domainerrors"
	"github.com/aryan-dani/FRA-GIS/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.Pool)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "claims"))
}

func (s *PostgresStoreSuite) TestEnsureSchemaIsIdempotent() {
	s.NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) TestCreateAndGetRoundTrip() {
	ctx := context.Background()

	id, err := s.store.CreateClaim(ctx, models.ClaimRecord{
		Name:      models.StringPtr("Ram Singh"),
		Village:   models.StringPtr("Bichhiya"),
		District:  models.StringPtr("Mandla"),
		State:     models.StringPtr("Madhya Pradesh"),
		ClaimType: "ifr", // stored canonicalized
		Status:    models.StatusApproved,
		Latitude:  models.Float(22.5989),
		Longitude: models.Float(80.3711),
		RawText:   models.StringPtr("Name of Claimant: Ram Singh"),
		Entities:  map[string]string{"name": "Ram Singh", "village": "Bichhiya"},
	})
	s.Require().NoError(err)
	s.NotEmpty(id)

	got, err := s.store.GetClaim(ctx, id)
	s.Require().NoError(err)
	s.Equal(id, got.ID)
	s.Equal("Ram Singh", models.String(got.Name))
	s.Equal("Bichhiya", models.String(got.Village))
	s.Equal("Mandla", models.String(got.District))
	s.Equal("Madhya Pradesh", models.String(got.State))
	s.Equal(models.ClaimTypeIFR, got.ClaimType)
	s.Equal(models.StatusApproved, got.Status)
	s.Require().True(got.Latitude.Valid)
	s.InDelta(22.5989, got.Latitude.Value, 0.0001)
	s.Require().True(got.Longitude.Valid)
	s.InDelta(80.3711, got.Longitude.Value, 0.0001)
	s.Equal("Name of Claimant: Ram Singh", models.String(got.RawText))
	s.Equal("Bichhiya", got.Entities["village"])
	s.True(got.CreatedAt.Valid)
	s.WithinDuration(time.Now().UTC(), got.CreatedAt.Time, time.Minute)
}

func (s *PostgresStoreSuite) TestCreateFillsDefaults() {
	ctx := context.Background()

	id, err := s.store.CreateClaim(ctx, models.ClaimRecord{
		Name: models.StringPtr("Sita Devi"),
	})
	s.Require().NoError(err)

	got, err := s.store.GetClaim(ctx, id)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, got.Status)
	s.Equal(models.ClaimTypeUnknown, got.ClaimType)
	s.Nil(got.Village)
	s.Nil(got.RawText)
	s.Nil(got.Entities)
	s.False(got.Latitude.Valid)
	s.False(got.Longitude.Valid)
}

func (s *PostgresStoreSuite) TestListClaimsNewestFirst() {
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		id, err := s.store.CreateClaim(ctx, models.ClaimRecord{Name: models.StringPtr(name)})
		s.Require().NoError(err)
		ids = append(ids, id)
		time.Sleep(5 * time.Millisecond) // distinct created_at
	}

	claims, err := s.store.ListClaims(ctx)
	s.Require().NoError(err)
	s.Require().Len(claims, 3)
	s.Equal(ids[2], claims[0].ID)
	s.Equal(ids[1], claims[1].ID)
	s.Equal(ids[0], claims[2].ID)
}

func (s *PostgresStoreSuite) TestGetClaimNotFound() {
	_, err := s.store.GetClaim(context.Background(), uuid.NewString())
	s.Require().Error(err)
	s.True(domainerrors.Is(err, domainerrors.CodeNotFound))
}

func (s *PostgresStoreSuite) TestUpdateStatus() {
	ctx := context.Background()

	id, err := s.store.CreateClaim(ctx, models.ClaimRecord{Name: models.StringPtr("Ram")})
	s.Require().NoError(err)

	s.Require().NoError(s.store.UpdateStatus(ctx, id, models.StatusInReview))

	got, err := s.store.GetClaim(ctx, id)
	s.Require().NoError(err)
	s.Equal(models.StatusInReview, got.Status)
}

func (s *PostgresStoreSuite) TestUpdateStatusUnknownClaim() {
	err := s.store.UpdateStatus(context.Background(), uuid.NewString(), models.StatusApproved)
	s.Require().Error(err)
	s.True(domainerrors.Is(err, domainerrors.CodeNotFound))
}
