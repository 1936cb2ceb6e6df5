package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/luissimon96/sistema-exames-sub000/internal/user"
	"github.com/luissimon96/sistema-exames-sub000/internal/user/metrics"
	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

// ChangePasswordInput is the raw request. CurrentPassword is checked against
// the stored credential before the new one is accepted.
type ChangePasswordInput struct {
	UserID           string
	RequestingUserID string
	CurrentPassword  string
	NewPassword      string
}

// ChangePasswordOutput reports the saved aggregate.
type ChangePasswordOutput struct {
	User *user.User
}

// ChangePassword rotates a user's credential. The bcrypt cost comes from
// configuration so operators can tune it without a rebuild.
type ChangePassword struct {
	users      *user.Repository
	bcryptCost int
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewChangePassword(users *user.Repository, bcryptCost int, m *metrics.Metrics, logger *slog.Logger) *ChangePassword {
	return &ChangePassword{users: users, bcryptCost: bcryptCost, metrics: m, logger: logger}
}

const usecaseChangePassword = "change_user_password"

func (uc *ChangePassword) Execute(ctx context.Context, in ChangePasswordInput) domain.Result[ChangePasswordOutput] {
	start := time.Now()

	out, err := uc.execute(ctx, in)
	status := "success"
	if err != nil {
		status = statusLabel(err)
	}
	d := time.Since(start)
	uc.metrics.IncrementUseCaseOutcome(usecaseChangePassword, status)
	uc.metrics.ObserveUseCaseLatency(usecaseChangePassword, d)
	if uc.logger != nil {
		uc.logger.Info("use case executed",
			"domain", "user",
			"usecase", usecaseChangePassword,
			"user_id", in.UserID,
			"status", status,
			"duration_ms", d.Milliseconds())
	}
	if err != nil {
		return domain.Failure[ChangePasswordOutput](err)
	}
	return domain.Success(out)
}

func (uc *ChangePassword) execute(ctx context.Context, in ChangePasswordInput) (ChangePasswordOutput, error) {
	if in.RequestingUserID != in.UserID {
		return ChangePasswordOutput{}, dErrors.New(dErrors.CodeInsufficientPermissions,
			"users can only change their own password")
	}

	id, err := domain.ParseUserID(in.UserID)
	if err != nil {
		return ChangePasswordOutput{}, err
	}
	u, err := uc.users.FindByID(ctx, id)
	if err != nil {
		return ChangePasswordOutput{}, err
	}

	// An account without a stored credential (social login, legacy import)
	// can set one without proving the old value.
	if u.Password().Hash() != "" && !u.Password().Verify(in.CurrentPassword) {
		return ChangePasswordOutput{}, dErrors.New(dErrors.CodeInvalidCredentials,
			"current password is incorrect")
	}

	password, err := user.NewPassword(in.NewPassword, uc.bcryptCost)
	if err != nil {
		return ChangePasswordOutput{}, err
	}

	u.ChangePassword(password)
	saved, err := uc.users.Save(ctx, u)
	if err != nil {
		return ChangePasswordOutput{}, err
	}
	return ChangePasswordOutput{User: saved}, nil
}
