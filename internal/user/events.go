package user

import (
	"strings"

	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
)

// Domain event types emitted by the User aggregate. Subscription changes are
// intentionally absent: billing is event-sourced by its own collaborator.
const (
	EventTypeProfileUpdated    = "user.profile_updated"
	EventTypeEmailVerified     = "user.email_verified"
	EventTypeTwoFactorEnabled  = "user.two_factor_enabled"
	EventTypeTwoFactorDisabled = "user.two_factor_disabled"
	EventTypePasswordChanged   = "user.password_changed"
)

func newProfileUpdatedEvent(id domain.UserID, updatedFields []string) domain.Event {
	return domain.NewEvent(EventTypeProfileUpdated, id.String(), map[string]string{
		"updatedFields": strings.Join(updatedFields, ","),
	})
}

func newEmailVerifiedEvent(id domain.UserID) domain.Event {
	return domain.NewEvent(EventTypeEmailVerified, id.String(), nil)
}

func newTwoFactorEnabledEvent(id domain.UserID) domain.Event {
	return domain.NewEvent(EventTypeTwoFactorEnabled, id.String(), nil)
}

func newTwoFactorDisabledEvent(id domain.UserID) domain.Event {
	return domain.NewEvent(EventTypeTwoFactorDisabled, id.String(), nil)
}

func newPasswordChangedEvent(id domain.UserID) domain.Event {
	return domain.NewEvent(EventTypePasswordChanged, id.String(), nil)
}
