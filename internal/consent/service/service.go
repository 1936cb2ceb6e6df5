// Package service holds the consent module's application use cases:
// GrantConsent, RevokeConsent, GetUserConsents and the registration seeding
// step. Each entry point authorizes the requester before touching any state.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/luissimon96/sistema-exames-sub000/internal/consent"
	"github.com/luissimon96/sistema-exames-sub000/internal/consent/metrics"
	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

// Service wires the consent use cases to their collaborators. The clock is
// injectable so renewal/expiry decisions are testable.
type Service struct {
	consents *consent.Repository
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service at construction.
type Option func(*Service)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(consents *consent.Repository, m *metrics.Metrics, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		consents: consents,
		metrics:  m,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// authorize enforces requester-equals-target before any consent operation.
func authorize(requestingUserID, userID string) (domain.UserID, error) {
	if requestingUserID != userID {
		return domain.UserID{}, dErrors.New(dErrors.CodeInsufficientPermissions,
			"users can only manage their own consents")
	}
	return domain.ParseUserID(userID)
}

func (s *Service) finish(usecase, userID string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = statusLabel(err)
	}
	s.metrics.IncrementUseCaseOutcome(usecase, status)
	if s.logger != nil {
		s.logger.Info("use case executed",
			"domain", "consent",
			"usecase", usecase,
			"user_id", userID,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

func statusLabel(err error) string {
	switch {
	case dErrors.HasCode(err, dErrors.CodeInsufficientPermissions):
		return "unauthorized"
	case dErrors.HasCode(err, dErrors.CodeValidation):
		return "invalid"
	case dErrors.HasCode(err, dErrors.CodeConsentNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// Request is the generic consent request kept for callers that want a
// single endpoint; Dispatch routes on field presence the way the legacy API
// did. New callers should use the named use cases directly.
type Request struct {
	UserID           string
	RequestingUserID string
	ConsentID        string
	DataType         string
	Purpose          string
	Source           string
	LegalBasis       string
	Reason           string
	Metadata         map[string]string
}

// DispatchOutput carries whichever result the routed use case produced.
type DispatchOutput struct {
	Granted *consent.Consent
	Revoked *consent.Consent
	Query   *QueryOutput
}

// Dispatch routes a generic request: grant when dataType+purpose are present
// without a consent id or reason, revoke when a reason or consent id is
// present, otherwise a read.
func (s *Service) Dispatch(ctx context.Context, req Request) domain.Result[DispatchOutput] {
	switch {
	case req.DataType != "" && req.Purpose != "" && req.ConsentID == "" && req.Reason == "":
		res := s.GrantConsent(ctx, GrantInput{
			UserID:           req.UserID,
			RequestingUserID: req.RequestingUserID,
			DataType:         req.DataType,
			Purpose:          req.Purpose,
			Source:           req.Source,
			LegalBasis:       req.LegalBasis,
			Metadata:         req.Metadata,
		})
		if res.IsFailure() {
			return domain.Failure[DispatchOutput](res.Err())
		}
		return domain.Success(DispatchOutput{Granted: res.Value().Consent})

	case req.Reason != "" || req.ConsentID != "":
		res := s.RevokeConsent(ctx, RevokeInput{
			UserID:           req.UserID,
			RequestingUserID: req.RequestingUserID,
			ConsentID:        req.ConsentID,
			DataType:         req.DataType,
			Purpose:          req.Purpose,
			Reason:           req.Reason,
		})
		if res.IsFailure() {
			return domain.Failure[DispatchOutput](res.Err())
		}
		return domain.Success(DispatchOutput{Revoked: res.Value().Consent})

	default:
		res := s.GetUserConsents(ctx, QueryInput{
			UserID:           req.UserID,
			RequestingUserID: req.RequestingUserID,
		})
		if res.IsFailure() {
			return domain.Failure[DispatchOutput](res.Err())
		}
		out := res.Value()
		return domain.Success(DispatchOutput{Query: &out})
	}
}
