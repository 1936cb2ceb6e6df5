package service

import (
	"context"
	"time"

	"github.com/luissimon96/sistema-exames-sub000/internal/consent"
	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
)

// SeedInput requests the default consent set for a newly registered user.
type SeedInput struct {
	UserID           string
	RequestingUserID string
}

// SeedOutput reports how many template consents were created. Pairs the user
// already holds are skipped, so Applied may be lower than the template count.
type SeedOutput struct {
	Applied int
}

const usecaseSeed = "seed_default_consents"

// SeedDefaultConsents creates the registration-time consent set for a user.
// Seeding is best effort: templates apply one at a time and an error aborts
// the remainder, reporting how many were written before the failure.
func (s *Service) SeedDefaultConsents(ctx context.Context, in SeedInput) domain.Result[SeedOutput] {
	start := time.Now()
	out, err := s.seed(ctx, in)
	s.finish(usecaseSeed, in.UserID, start, err)
	if err != nil {
		return domain.Failure[SeedOutput](err)
	}
	return domain.Success(out)
}

func (s *Service) seed(ctx context.Context, in SeedInput) (SeedOutput, error) {
	userID, err := authorize(in.RequestingUserID, in.UserID)
	if err != nil {
		return SeedOutput{}, err
	}

	applied := 0
	for _, tpl := range consent.DefaultTemplates() {
		existing, err := s.consents.FindByUserAndType(ctx, userID, tpl.DataType, tpl.Purpose)
		if err != nil {
			return SeedOutput{Applied: applied}, err
		}
		if existing != nil {
			continue
		}
		c, err := consent.NewFromTemplate(userID, tpl)
		if err != nil {
			return SeedOutput{Applied: applied}, err
		}
		if _, err := s.consents.Save(ctx, c); err != nil {
			return SeedOutput{Applied: applied}, err
		}
		if tpl.Granted {
			s.metrics.IncrementGranted(string(tpl.DataType), string(tpl.Purpose))
		}
		applied++
	}
	return SeedOutput{Applied: applied}, nil
}
