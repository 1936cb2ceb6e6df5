package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/luissimon96/sistema-exames-sub000/internal/consent"
	"github.com/luissimon96/sistema-exames-sub000/internal/eventbus"
	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

type ConsentServiceSuite struct {
	suite.Suite
	store   *consent.InMemoryStore
	bus     *eventbus.Bus
	repo    *consent.Repository
	service *Service
	ctx     context.Context
	userID  domain.UserID
}

func TestConsentServiceSuite(t *testing.T) {
	suite.Run(t, new(ConsentServiceSuite))
}

func (s *ConsentServiceSuite) SetupTest() {
	s.store = consent.NewInMemoryStore()
	s.bus = eventbus.New(nil, nil)
	s.repo = consent.NewRepository(s.store, s.bus, nil, nil)
	s.service = New(s.repo, nil, nil)
	s.ctx = context.Background()
	s.userID = domain.NewUserID()
}

func (s *ConsentServiceSuite) grantInput(dataType, purpose string) GrantInput {
	return GrantInput{
		UserID:           s.userID.String(),
		RequestingUserID: s.userID.String(),
		DataType:         dataType,
		Purpose:          purpose,
	}
}

func (s *ConsentServiceSuite) TestGrantConsent() {
	s.Run("creates a new consent and publishes consent.granted", func() {
		res := s.service.GrantConsent(s.ctx, s.grantInput("health_data", "service_provision"))
		s.Require().True(res.IsSuccess())

		granted := res.Value().Consent
		s.True(granted.IsActive())
		s.Equal(consent.SourceExplicitRequest, granted.Source())
		s.Equal(consent.BasisConsent, granted.LegalBasis())

		events := s.bus.Events()
		s.Require().Len(events, 1)
		s.Equal(consent.EventTypeGranted, events[0].Type)
		s.Equal(s.userID.String(), events[0].Metadata["userId"])
		s.Equal("health_data", events[0].Metadata["dataType"])
	})

	s.Run("granting an already-active pair is idempotent", func() {
		first := s.service.GrantConsent(s.ctx, s.grantInput("health_data", "service_provision"))
		s.Require().True(first.IsSuccess())
		eventsBefore := len(s.bus.Events())

		second := s.service.GrantConsent(s.ctx, s.grantInput("health_data", "service_provision"))
		s.Require().True(second.IsSuccess())
		s.Equal(first.Value().Consent.ID(), second.Value().Consent.ID())
		s.Len(s.bus.Events(), eventsBefore, "no duplicate event")
	})

	s.Run("granting a revoked pair renews it", func() {
		grant := s.service.GrantConsent(s.ctx, s.grantInput("behavioral_data", "analytics"))
		s.Require().True(grant.IsSuccess())
		original := grant.Value().Consent

		revoke := s.service.RevokeConsent(s.ctx, RevokeInput{
			UserID:           s.userID.String(),
			RequestingUserID: s.userID.String(),
			ConsentID:        original.ID().String(),
			Reason:           "changed my mind",
		})
		s.Require().True(revoke.IsSuccess())

		again := s.service.GrantConsent(s.ctx, s.grantInput("behavioral_data", "analytics"))
		s.Require().True(again.IsSuccess())

		renewed := again.Value().Consent
		s.Equal(original.ID(), renewed.ID(), "same record, renewed")
		s.True(renewed.IsActive())
		s.NotContains(renewed.Metadata(), "revocationReason")

		last := s.bus.Events()[len(s.bus.Events())-1]
		s.Equal(consent.EventTypeRenewed, last.Type)
	})

	s.Run("rejects a request for another user", func() {
		in := s.grantInput("health_data", "service_provision")
		in.RequestingUserID = domain.NewUserID().String()
		res := s.service.GrantConsent(s.ctx, in)
		s.Require().True(res.IsFailure())
		s.True(dErrors.HasCode(res.Err(), dErrors.CodeInsufficientPermissions))
	})

	s.Run("rejects unknown vocabulary", func() {
		res := s.service.GrantConsent(s.ctx, s.grantInput("genetic_data", "service_provision"))
		s.Require().True(res.IsFailure())
		s.True(dErrors.HasCode(res.Err(), dErrors.CodeValidation))
	})
}

func (s *ConsentServiceSuite) TestRevokeConsent() {
	s.Run("revokes by consent id", func() {
		granted := s.service.GrantConsent(s.ctx, s.grantInput("health_data", "service_provision"))
		s.Require().True(granted.IsSuccess())

		res := s.service.RevokeConsent(s.ctx, RevokeInput{
			UserID:           s.userID.String(),
			RequestingUserID: s.userID.String(),
			ConsentID:        granted.Value().Consent.ID().String(),
			Reason:           "no longer using the service",
		})
		s.Require().True(res.IsSuccess())
		s.False(res.Value().Consent.IsActive())
		s.Equal("no longer using the service", res.Value().Consent.Metadata()["revocationReason"])

		last := s.bus.Events()[len(s.bus.Events())-1]
		s.Equal(consent.EventTypeRevoked, last.Type)
	})

	s.Run("revokes by dataType and purpose", func() {
		s.Require().True(s.service.GrantConsent(s.ctx, s.grantInput("location_data", "security")).IsSuccess())

		res := s.service.RevokeConsent(s.ctx, RevokeInput{
			UserID:           s.userID.String(),
			RequestingUserID: s.userID.String(),
			DataType:         "location_data",
			Purpose:          "security",
		})
		s.Require().True(res.IsSuccess())
		s.False(res.Value().Consent.IsActive())
	})

	s.Run("cannot revoke another user's consent by id", func() {
		otherUser := domain.NewUserID()
		other, err := consent.NewConsent(otherUser, consent.DataTypeHealth,
			consent.PurposeResearch, true, consent.SourceExplicitRequest, consent.BasisConsent, nil)
		s.Require().NoError(err)
		_, err = s.repo.Save(s.ctx, other)
		s.Require().NoError(err)

		res := s.service.RevokeConsent(s.ctx, RevokeInput{
			UserID:           s.userID.String(),
			RequestingUserID: s.userID.String(),
			ConsentID:        other.ID().String(),
		})
		s.Require().True(res.IsFailure())
		s.True(dErrors.HasCode(res.Err(), dErrors.CodeInsufficientPermissions))
	})

	s.Run("nothing identifies a consent", func() {
		res := s.service.RevokeConsent(s.ctx, RevokeInput{
			UserID:           s.userID.String(),
			RequestingUserID: s.userID.String(),
		})
		s.Require().True(res.IsFailure())
		s.True(dErrors.HasCode(res.Err(), dErrors.CodeValidation))
	})

	s.Run("no active consent for the pair", func() {
		res := s.service.RevokeConsent(s.ctx, RevokeInput{
			UserID:           s.userID.String(),
			RequestingUserID: s.userID.String(),
			DataType:         "financial_data",
			Purpose:          "fraud_prevention",
		})
		s.Require().True(res.IsFailure())
		s.True(dErrors.HasCode(res.Err(), dErrors.CodeValidation))
	})
}

func (s *ConsentServiceSuite) TestGetUserConsents() {
	s.Require().True(s.service.GrantConsent(s.ctx, s.grantInput("health_data", "service_provision")).IsSuccess())
	granted := s.service.GrantConsent(s.ctx, s.grantInput("behavioral_data", "analytics"))
	s.Require().True(granted.IsSuccess())
	s.Require().True(s.service.RevokeConsent(s.ctx, RevokeInput{
		UserID:           s.userID.String(),
		RequestingUserID: s.userID.String(),
		ConsentID:        granted.Value().Consent.ID().String(),
	}).IsSuccess())

	res := s.service.GetUserConsents(s.ctx, QueryInput{
		UserID:           s.userID.String(),
		RequestingUserID: s.userID.String(),
	})
	s.Require().True(res.IsSuccess())

	out := res.Value()
	s.Len(out.Consents, 2)
	s.Equal(1, out.Summary.TotalActive)
	s.Equal(1, out.Summary.TotalRevoked)
	s.Equal(0, out.Summary.NeedingRenewal)
	s.Equal(0, out.Summary.Expired)
}

func (s *ConsentServiceSuite) TestSeedDefaultConsents() {
	in := SeedInput{UserID: s.userID.String(), RequestingUserID: s.userID.String()}

	s.Run("seeds the full template set", func() {
		res := s.service.SeedDefaultConsents(s.ctx, in)
		s.Require().True(res.IsSuccess())
		s.Equal(4, res.Value().Applied)

		all, err := s.repo.FindByUser(s.ctx, s.userID)
		s.Require().NoError(err)
		s.Len(all, 4)

		// Three granted templates produce three events; withheld marketing none.
		granted := 0
		for _, evt := range s.bus.Events() {
			if evt.Type == consent.EventTypeGranted {
				granted++
			}
		}
		s.Equal(3, granted)
	})

	s.Run("existing pairs are skipped on reseed", func() {
		res := s.service.SeedDefaultConsents(s.ctx, in)
		s.Require().True(res.IsSuccess())
		s.Equal(0, res.Value().Applied)

		all, err := s.repo.FindByUser(s.ctx, s.userID)
		s.Require().NoError(err)
		s.Len(all, 4, "no duplicates")
	})
}

func (s *ConsentServiceSuite) TestDispatch() {
	s.Run("routes grants", func() {
		res := s.service.Dispatch(s.ctx, Request{
			UserID:           s.userID.String(),
			RequestingUserID: s.userID.String(),
			DataType:         "health_data",
			Purpose:          "research",
		})
		s.Require().True(res.IsSuccess())
		s.Require().NotNil(res.Value().Granted)
		s.True(res.Value().Granted.IsActive())
	})

	s.Run("routes revocations when a reason is present", func() {
		res := s.service.Dispatch(s.ctx, Request{
			UserID:           s.userID.String(),
			RequestingUserID: s.userID.String(),
			DataType:         "health_data",
			Purpose:          "research",
			Reason:           "done participating",
		})
		s.Require().True(res.IsSuccess())
		s.Require().NotNil(res.Value().Revoked)
		s.False(res.Value().Revoked.IsActive())
	})

	s.Run("routes reads when nothing else matches", func() {
		res := s.service.Dispatch(s.ctx, Request{
			UserID:           s.userID.String(),
			RequestingUserID: s.userID.String(),
		})
		s.Require().True(res.IsSuccess())
		s.Require().NotNil(res.Value().Query)
		s.Len(res.Value().Query.Consents, 1)
	})
}
