//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"scad/internal/consent/models"
	"scad/internal/consent/store"
	"scad/pkg/domain"
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

func grant(owner, reader domain.Address, granted bool) *models.Grant {
	return &models.Grant{Owner: owner, Reader: reader, Granted: granted, UpdatedAt: time.Now().UTC()}
}

func (s *PostgresStoreSuite) TestUpsertOverwrites() {
	ctx := context.Background()
	alice, bob := testutil.Addresses.Alice, testutil.Addresses.Bob

	s.Require().NoError(s.store.Upsert(ctx, grant(alice, bob, true)))
	s.Require().NoError(s.store.Upsert(ctx, grant(alice, bob, false)))

	g, err := s.store.Find(ctx, alice, bob)
	s.Require().NoError(err)
	s.False(g.Granted)
	s.Equal(1, s.postgres.Count(ctx, s.T(), "consents"))
}

func (s *PostgresStoreSuite) TestFindIsDirectional() {
	ctx := context.Background()
	s.Require().NoError(s.store.Upsert(ctx, grant(testutil.Addresses.Alice, testutil.Addresses.Bob, true)))

	_, err := s.store.Find(ctx, testutil.Addresses.Bob, testutil.Addresses.Alice)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListGrantedSkipsRevoked() {
	ctx := context.Background()
	alice := testutil.Addresses.Alice
	s.Require().NoError(s.store.Upsert(ctx, grant(alice, testutil.Addresses.Dave, true)))
	s.Require().NoError(s.store.Upsert(ctx, grant(alice, testutil.Addresses.Bob, true)))
	s.Require().NoError(s.store.Upsert(ctx, grant(alice, testutil.Addresses.Carol, false)))

	grants, err := s.store.ListGranted(ctx, alice)
	s.Require().NoError(err)
	s.Require().Len(grants, 2)
	s.Less(grants[0].Reader.String(), grants[1].Reader.String(), "ordered by reader")
	for _, g := range grants {
		s.True(g.Granted)
	}
}

func (s *PostgresStoreSuite) TestSchemaRejectsSelfConsent() {
	err := s.store.Upsert(context.Background(), grant(testutil.Addresses.Alice, testutil.Addresses.Alice, true))
	s.Error(err)
}
