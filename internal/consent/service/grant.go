package service

import (
	"context"
	"time"

	"github.com/luissimon96/sistema-exames-sub000/internal/consent"
	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
)

// GrantInput requests consent for one (dataType, purpose) pair. Source
// defaults to explicit_request and legal basis to consent when omitted.
type GrantInput struct {
	UserID           string
	RequestingUserID string
	DataType         string
	Purpose          string
	Source           string
	LegalBasis       string
	Metadata         map[string]string
}

// GrantOutput reports the active consent after the operation.
type GrantOutput struct {
	Consent *consent.Consent
}

const usecaseGrant = "grant_consent"

// GrantConsent is idempotent: an already-active consent for the pair is
// returned unchanged, an inactive one is renewed, and a missing one is
// created.
func (s *Service) GrantConsent(ctx context.Context, in GrantInput) domain.Result[GrantOutput] {
	start := time.Now()
	out, err := s.grant(ctx, in)
	s.finish(usecaseGrant, in.UserID, start, err)
	if err != nil {
		return domain.Failure[GrantOutput](err)
	}
	return domain.Success(out)
}

func (s *Service) grant(ctx context.Context, in GrantInput) (GrantOutput, error) {
	userID, err := authorize(in.RequestingUserID, in.UserID)
	if err != nil {
		return GrantOutput{}, err
	}

	dataType, err := consent.ParseDataType(in.DataType)
	if err != nil {
		return GrantOutput{}, err
	}
	purpose, err := consent.ParsePurpose(in.Purpose)
	if err != nil {
		return GrantOutput{}, err
	}
	source := consent.SourceExplicitRequest
	if in.Source != "" {
		if source, err = consent.ParseSource(in.Source); err != nil {
			return GrantOutput{}, err
		}
	}
	basis := consent.BasisConsent
	if in.LegalBasis != "" {
		if basis, err = consent.ParseLegalBasis(in.LegalBasis); err != nil {
			return GrantOutput{}, err
		}
	}

	existing, err := s.consents.FindByUserAndType(ctx, userID, dataType, purpose)
	if err != nil {
		return GrantOutput{}, err
	}

	switch {
	case existing != nil && existing.IsActive():
		// Idempotent grant: no new record, no event.
		return GrantOutput{Consent: existing}, nil

	case existing != nil:
		if err := existing.Renew(source); err != nil {
			return GrantOutput{}, err
		}
		saved, err := s.consents.Save(ctx, existing)
		if err != nil {
			return GrantOutput{}, err
		}
		s.metrics.IncrementGranted(string(dataType), string(purpose))
		return GrantOutput{Consent: saved}, nil

	default:
		created, err := consent.NewConsent(userID, dataType, purpose, true, source, basis, in.Metadata)
		if err != nil {
			return GrantOutput{}, err
		}
		saved, err := s.consents.Save(ctx, created)
		if err != nil {
			return GrantOutput{}, err
		}
		s.metrics.IncrementGranted(string(dataType), string(purpose))
		return GrantOutput{Consent: saved}, nil
	}
}
