package user

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

// maxEmailLength follows RFC 5321's path limit.
const maxEmailLength = 254

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserEmail is a validated, normalized (trimmed, lower-cased) email address.
type UserEmail struct {
	value string
}

// NewUserEmail validates and normalizes raw input.
func NewUserEmail(raw string) (UserEmail, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return UserEmail{}, dErrors.Validation("email", raw, "must not be empty")
	}
	if utf8.RuneCountInString(normalized) > maxEmailLength {
		return UserEmail{}, dErrors.Validation("email", raw, "must be at most 254 characters")
	}
	if !emailPattern.MatchString(normalized) {
		return UserEmail{}, dErrors.Validation("email", raw, "must be a valid email address")
	}
	return UserEmail{value: normalized}, nil
}

func (e UserEmail) String() string { return e.value }

// LocalPart returns everything before the last "@".
func (e UserEmail) LocalPart() string {
	at := strings.LastIndex(e.value, "@")
	return e.value[:at]
}

// Domain returns everything after the last "@".
func (e UserEmail) Domain() string {
	at := strings.LastIndex(e.value, "@")
	return e.value[at+1:]
}

func (e UserEmail) Equals(other UserEmail) bool { return e.value == other.value }

var _ domain.ValueObject[UserEmail] = UserEmail{}
