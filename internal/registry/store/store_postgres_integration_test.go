//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"scad/internal/identifier"
	"scad/internal/registry/models"
	"scad/internal/registry/store"
	"scad/pkg/platform/sentinel"
	"scad/pkg/testutil"
	"scad/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) record(id string, company bool) *models.Record {
	return &models.Record{
		Owner:        testutil.Addresses.Alice,
		Identifier:   identifier.Digits(id),
		IsCompany:    company,
		RegisteredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	rec := s.record(testutil.OrganizationIdentifier, true)
	s.Require().NoError(s.store.Create(ctx, rec))

	got, err := s.store.FindByOwner(ctx, rec.Owner)
	s.Require().NoError(err)
	s.Equal(rec.Owner, got.Owner)
	s.Equal(rec.Identifier, got.Identifier)
	s.True(got.IsCompany)
	s.True(rec.RegisteredAt.Equal(got.RegisteredAt))
}

func (s *PostgresStoreSuite) TestSecondCreateConflictsAndKeepsFirst() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.record(testutil.PersonIdentifier, false)))

	err := s.store.Create(ctx, s.record(testutil.OrganizationIdentifier, true))
	s.ErrorIs(err, sentinel.ErrConflict)

	got, err := s.store.FindByOwner(ctx, testutil.Addresses.Alice)
	s.Require().NoError(err)
	s.Equal(identifier.Digits(testutil.PersonIdentifier), got.Identifier)
	s.False(got.IsCompany)
}

func (s *PostgresStoreSuite) TestFindMissing() {
	_, err := s.store.FindByOwner(context.Background(), testutil.Addresses.Bob)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSameIdentifierForDifferentOwners() {
	ctx := context.Background()
	for i := range 3 {
		rec := s.record(testutil.PersonIdentifier, false)
		rec.Owner = testutil.AddressN(i)
		s.Require().NoError(s.store.Create(ctx, rec))
	}
	s.Equal(3, s.postgres.Count(ctx, s.T(), "registrations"))
}

func (s *PostgresStoreSuite) TestSchemaRejectsMalformedRows() {
	ctx := context.Background()
	_, err := s.postgres.Exec(ctx, `
		INSERT INTO registrations (owner, identifier, is_company, registered_at)
		VALUES ($1, $2, false, NOW())
	`, testutil.Addresses.Bob.String(), testutil.OrganizationIdentifier)
	s.Error(err, "a 14 digit identifier cannot be a person")
}
