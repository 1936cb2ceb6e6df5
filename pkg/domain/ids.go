package domain

import (
	"github.com/google/uuid"

	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

// Typed identifiers keep aggregate references from being mixed up at compile
// time. Construct via the New*/Parse* functions; direct casting bypasses
// validation.

// UserID identifies a User aggregate.
type UserID uuid.UUID

// ConsentID identifies a Consent aggregate.
type ConsentID uuid.UUID

// EventID identifies a single domain event occurrence.
type EventID uuid.UUID

// NewUserID returns a fresh random UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewConsentID returns a fresh random ConsentID.
func NewConsentID() ConsentID { return ConsentID(uuid.New()) }

// NewEventID returns a fresh random EventID.
func NewEventID() EventID { return EventID(uuid.New()) }

// ParseUserID constructs a UserID from external input.
//
// Errors: returns CodeValidation when the value is empty, malformed, or the
// nil UUID; no other errors are expected.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "userId")
	return UserID(u), err
}

// ParseConsentID constructs a ConsentID from external input.
func ParseConsentID(s string) (ConsentID, error) {
	u, err := parseUUID(s, "consentId")
	return ConsentID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Validation(field, s, "must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Validation(field, s, "must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Validation(field, s, "must not be the nil UUID")
	}
	return u, nil
}

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id ConsentID) String() string { return uuid.UUID(id).String() }
func (id EventID) String() string   { return uuid.UUID(id).String() }

func (id UserID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ConsentID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }
