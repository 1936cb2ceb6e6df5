package service

import (
	"context"
	"time"

	"github.com/luissimon96/sistema-exames-sub000/internal/consent"
	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
)

// QueryInput asks for every consent a user holds.
type QueryInput struct {
	UserID           string
	RequestingUserID string
}

// Summary aggregates the state of a user's consents.
type Summary struct {
	TotalActive    int
	TotalRevoked   int
	NeedingRenewal int
	Expired        int
}

// QueryOutput lists a user's consents with a lifecycle summary.
type QueryOutput struct {
	Consents []*consent.Consent
	Summary  Summary
}

const usecaseQuery = "get_user_consents"

// GetUserConsents returns every consent recorded for the user together with
// counts of active, revoked, renewal-due and expired entries.
func (s *Service) GetUserConsents(ctx context.Context, in QueryInput) domain.Result[QueryOutput] {
	start := time.Now()
	out, err := s.query(ctx, in)
	s.finish(usecaseQuery, in.UserID, start, err)
	if err != nil {
		return domain.Failure[QueryOutput](err)
	}
	return domain.Success(out)
}

func (s *Service) query(ctx context.Context, in QueryInput) (QueryOutput, error) {
	userID, err := authorize(in.RequestingUserID, in.UserID)
	if err != nil {
		return QueryOutput{}, err
	}

	consents, err := s.consents.FindByUser(ctx, userID)
	if err != nil {
		return QueryOutput{}, err
	}
	stats, err := s.consents.Statistics(ctx, userID, s.now())
	if err != nil {
		return QueryOutput{}, err
	}
	return QueryOutput{
		Consents: consents,
		Summary: Summary{
			TotalActive:    stats.Active,
			TotalRevoked:   stats.Revoked,
			NeedingRenewal: stats.NeedingRenewal,
			Expired:        stats.Expired,
		},
	}, nil
}
