package service

import (
	"context"
	"time"

	"github.com/luissimon96/sistema-exames-sub000/internal/consent"
	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

// RevokeInput identifies the consent to withdraw either by explicit id or by
// its (dataType, purpose) pair among the requester's active consents.
type RevokeInput struct {
	UserID           string
	RequestingUserID string
	ConsentID        string
	DataType         string
	Purpose          string
	Reason           string
}

// RevokeOutput reports the consent after revocation.
type RevokeOutput struct {
	Consent *consent.Consent
}

const usecaseRevoke = "revoke_consent"

// RevokeConsent withdraws one active consent.
func (s *Service) RevokeConsent(ctx context.Context, in RevokeInput) domain.Result[RevokeOutput] {
	start := time.Now()
	out, err := s.revoke(ctx, in)
	s.finish(usecaseRevoke, in.UserID, start, err)
	if err != nil {
		return domain.Failure[RevokeOutput](err)
	}
	return domain.Success(out)
}

func (s *Service) revoke(ctx context.Context, in RevokeInput) (RevokeOutput, error) {
	userID, err := authorize(in.RequestingUserID, in.UserID)
	if err != nil {
		return RevokeOutput{}, err
	}

	target, err := s.resolveTarget(ctx, userID, in)
	if err != nil {
		return RevokeOutput{}, err
	}

	if err := target.Revoke(in.Reason); err != nil {
		return RevokeOutput{}, err
	}
	saved, err := s.consents.Save(ctx, target)
	if err != nil {
		return RevokeOutput{}, err
	}
	s.metrics.IncrementRevoked(string(saved.DataType()), string(saved.Purpose()))
	return RevokeOutput{Consent: saved}, nil
}

func (s *Service) resolveTarget(ctx context.Context, userID domain.UserID, in RevokeInput) (*consent.Consent, error) {
	if in.ConsentID != "" {
		id, err := domain.ParseConsentID(in.ConsentID)
		if err != nil {
			return nil, err
		}
		c, err := s.consents.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if c.UserID() != userID {
			return nil, dErrors.New(dErrors.CodeInsufficientPermissions,
				"consent belongs to another user")
		}
		return c, nil
	}

	if in.DataType == "" || in.Purpose == "" {
		return nil, dErrors.New(dErrors.CodeValidation,
			"either consentId or dataType and purpose must identify the consent to revoke")
	}
	dataType, err := consent.ParseDataType(in.DataType)
	if err != nil {
		return nil, err
	}
	purpose, err := consent.ParsePurpose(in.Purpose)
	if err != nil {
		return nil, err
	}
	c, err := s.consents.FindByUserAndType(ctx, userID, dataType, purpose)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.IsActive() {
		return nil, dErrors.Newf(dErrors.CodeValidation,
			"no active consent for %s/%s", dataType, purpose)
	}
	return c, nil
}
