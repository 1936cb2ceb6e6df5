// Package service holds the user module's application use cases. Each use
// case authorizes first, validates raw input second, and only then touches
// the aggregate, so a request never partially mutates state.
package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/luissimon96/sistema-exames-sub000/internal/user"
	"github.com/luissimon96/sistema-exames-sub000/internal/user/metrics"
	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

// UpdateProfileInput is the raw request. Nil pointers mean "not supplied";
// at least one field must be supplied.
type UpdateProfileInput struct {
	UserID           string
	RequestingUserID string
	Name             *string
	Bio              *string
	ImageURL         *string
}

// UpdateProfileOutput reports the saved aggregate and which fields actually
// changed. UpdatedFields is empty for a no-op request.
type UpdateProfileOutput struct {
	User          *user.User
	UpdatedFields []string
}

// UpdateProfile orchestrates authorization, validation, the aggregate
// mutation and persistence for profile edits.
type UpdateProfile struct {
	users   *user.Repository
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewUpdateProfile(users *user.Repository, m *metrics.Metrics, logger *slog.Logger) *UpdateProfile {
	return &UpdateProfile{users: users, metrics: m, logger: logger}
}

const usecaseUpdateProfile = "update_user_profile"

func (uc *UpdateProfile) Execute(ctx context.Context, in UpdateProfileInput) domain.Result[UpdateProfileOutput] {
	start := time.Now()

	out, err := uc.execute(ctx, in)
	status := "success"
	if err != nil {
		status = statusLabel(err)
	}
	d := time.Since(start)
	uc.metrics.IncrementUseCaseOutcome(usecaseUpdateProfile, status)
	uc.metrics.ObserveUseCaseLatency(usecaseUpdateProfile, d)
	if uc.logger != nil {
		uc.logger.Info("use case executed",
			"domain", "user",
			"usecase", usecaseUpdateProfile,
			"user_id", in.UserID,
			"status", status,
			"duration_ms", d.Milliseconds())
	}
	if err != nil {
		return domain.Failure[UpdateProfileOutput](err)
	}
	return domain.Success(out)
}

func (uc *UpdateProfile) execute(ctx context.Context, in UpdateProfileInput) (UpdateProfileOutput, error) {
	if in.RequestingUserID != in.UserID {
		return UpdateProfileOutput{}, dErrors.New(dErrors.CodeInsufficientPermissions,
			"users can only update their own profile")
	}

	if err := validateProfileInput(in); err != nil {
		return UpdateProfileOutput{}, err
	}

	id, err := domain.ParseUserID(in.UserID)
	if err != nil {
		return UpdateProfileOutput{}, err
	}
	u, err := uc.users.FindByID(ctx, id)
	if err != nil {
		return UpdateProfileOutput{}, err
	}

	changed, err := u.UpdateProfile(user.ProfileUpdate{
		Name:     in.Name,
		Bio:      in.Bio,
		ImageURL: in.ImageURL,
	})
	if err != nil {
		return UpdateProfileOutput{}, err
	}
	if len(changed) == 0 {
		// Nothing changed: skip the save entirely, report no updates.
		return UpdateProfileOutput{User: u, UpdatedFields: []string{}}, nil
	}

	saved, err := uc.users.Save(ctx, u)
	if err != nil {
		return UpdateProfileOutput{}, err
	}
	return UpdateProfileOutput{User: saved, UpdatedFields: changed}, nil
}

// validateProfileInput mirrors the value object constraints on the raw
// request so one aggregated VALIDATION_ERROR is returned before the
// aggregate is touched.
func validateProfileInput(in UpdateProfileInput) error {
	if in.Name == nil && in.Bio == nil && in.ImageURL == nil {
		return dErrors.New(dErrors.CodeValidation,
			"at least one profile field must be provided")
	}

	problems := make(map[string]string)
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if utf8.RuneCountInString(name) < 2 {
			problems["name"] = "must be at least 2 characters"
		} else if utf8.RuneCountInString(name) > 100 {
			problems["name"] = "must be at most 100 characters"
		}
	}
	if in.Bio != nil && utf8.RuneCountInString(strings.TrimSpace(*in.Bio)) > 500 {
		problems["bio"] = "must be at most 500 characters"
	}
	if in.ImageURL != nil {
		raw := strings.TrimSpace(*in.ImageURL)
		if raw != "" {
			u, err := url.Parse(raw)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				problems["imageUrl"] = "must be a valid http(s) URL"
			}
		}
	}
	if len(problems) == 0 {
		return nil
	}

	err := dErrors.New(dErrors.CodeValidation, "profile data is invalid")
	for field, constraint := range problems {
		err = err.WithContext(field, constraint)
	}
	return err
}

func statusLabel(err error) string {
	switch {
	case dErrors.HasCode(err, dErrors.CodeInsufficientPermissions),
		dErrors.HasCode(err, dErrors.CodeInvalidCredentials):
		return "unauthorized"
	case dErrors.HasCode(err, dErrors.CodeValidation),
		dErrors.HasCode(err, dErrors.CodeWeakPassword):
		return "invalid"
	case dErrors.HasCode(err, dErrors.CodeUserNotFound):
		return "not_found"
	case dErrors.HasCode(err, dErrors.CodeEmailExists):
		return "conflict"
	default:
		return "error"
	}
}

var _ domain.UseCase[UpdateProfileInput, UpdateProfileOutput] = (*UpdateProfile)(nil)
