//go:build integration

package consent_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/luissimon96/sistema-exames-sub000/internal/consent"
	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
	"github.com/luissimon96/sistema-exames-sub000/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *consent.PostgresStore
	ctx      context.Context
	userID   domain.UserID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = consent.NewPostgresStore(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx))
	s.userID = domain.NewUserID()
}

func (s *PostgresStoreSuite) newSnapshot(dataType, purpose string) consent.Snapshot {
	return consent.Snapshot{
		ID:          domain.NewConsentID().String(),
		UserID:      s.userID.String(),
		DataType:    dataType,
		Purpose:     purpose,
		Given:       true,
		ConsentDate: time.Now().UTC().Truncate(time.Microsecond),
		Source:      "explicit_request",
		LegalBasis:  "consent",
		Metadata:    map[string]string{"channel": "web"},
	}
}

func (s *PostgresStoreSuite) TestSaveAndFind() {
	snap := s.newSnapshot("health_data", "service_provision")
	s.Require().NoError(s.store.Save(s.ctx, snap))

	s.Run("find by id restores JSONB metadata", func() {
		id, err := domain.ParseConsentID(snap.ID)
		s.Require().NoError(err)
		found, err := s.store.FindByID(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(snap.UserID, found.UserID)
		s.Equal("web", found.Metadata["channel"])
		s.Nil(found.RevokedDate)
	})

	s.Run("find by user and type", func() {
		found, err := s.store.FindByUserAndType(s.ctx, s.userID,
			consent.DataTypeHealth, consent.PurposeServiceProvision)
		s.Require().NoError(err)
		s.Equal(snap.ID, found.ID)
	})

	s.Run("miss returns ErrNotFound", func() {
		_, err := s.store.FindByUserAndType(s.ctx, s.userID,
			consent.DataTypeLocation, consent.PurposeSecurity)
		s.Require().ErrorIs(err, consent.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestNaturalKeyConstraint() {
	first := s.newSnapshot("health_data", "service_provision")
	s.Require().NoError(s.store.Save(s.ctx, first))

	s.Run("duplicate triple under a new id is rejected", func() {
		duplicate := s.newSnapshot("health_data", "service_provision")
		err := s.store.Save(s.ctx, duplicate)
		s.Require().ErrorIs(err, consent.ErrConsentConflict)
	})

	s.Run("updating the existing row is not a conflict", func() {
		revoked := time.Now().UTC().Truncate(time.Microsecond)
		first.Given = false
		first.RevokedDate = &revoked
		s.NoError(s.store.Save(s.ctx, first))
	})

	s.Run("same triple for another user is allowed", func() {
		other := s.newSnapshot("health_data", "service_provision")
		other.UserID = domain.NewUserID().String()
		s.NoError(s.store.Save(s.ctx, other))
	})
}

func (s *PostgresStoreSuite) TestFindByUserOrdering() {
	older := s.newSnapshot("personal_data", "service_provision")
	older.ConsentDate = older.ConsentDate.Add(-time.Hour)
	newer := s.newSnapshot("health_data", "service_provision")

	s.Require().NoError(s.store.Save(s.ctx, newer))
	s.Require().NoError(s.store.Save(s.ctx, older))

	all, err := s.store.FindByUser(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(older.ID, all[0].ID, "ordered by consent date")
}

func (s *PostgresStoreSuite) TestRevokedDateRoundTrip() {
	snap := s.newSnapshot("behavioral_data", "analytics")
	revoked := time.Now().UTC().Truncate(time.Microsecond)
	snap.Given = true
	snap.RevokedDate = &revoked
	s.Require().NoError(s.store.Save(s.ctx, snap))

	id, err := domain.ParseConsentID(snap.ID)
	s.Require().NoError(err)
	found, err := s.store.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(found.RevokedDate)
	s.True(revoked.Equal(*found.RevokedDate))
}

func (s *PostgresStoreSuite) TestFindExpired() {
	old := s.newSnapshot("personal_data", "marketing")
	old.ConsentDate = time.Now().UTC().AddDate(0, -25, 0)
	fresh := s.newSnapshot("health_data", "service_provision")

	s.Require().NoError(s.store.Save(s.ctx, old))
	s.Require().NoError(s.store.Save(s.ctx, fresh))

	cutoff := time.Now().UTC().AddDate(0, -24, 0)
	expired, err := s.store.FindExpired(s.ctx, cutoff)
	s.Require().NoError(err)
	s.Require().Len(expired, 1)
	s.Equal(old.ID, expired[0].ID)
}

func (s *PostgresStoreSuite) TestUpsertAndDelete() {
	snap := s.newSnapshot("health_data", "research")
	s.Require().NoError(s.store.Save(s.ctx, snap))

	snap.Given = false
	s.Require().NoError(s.store.Save(s.ctx, snap))

	n, err := s.store.CountByUser(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(1, n)

	id, err := domain.ParseConsentID(snap.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Delete(s.ctx, id))
	s.Require().ErrorIs(s.store.Delete(s.ctx, id), consent.ErrNotFound)
}
