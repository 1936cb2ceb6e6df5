package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorsSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsSuite))
}

func (s *ErrorsSuite) TestStatusBinding() {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeInsufficientPermissions, http.StatusForbidden},
		{CodeUserNotFound, http.StatusNotFound},
		{CodeEmailExists, http.StatusConflict},
		{CodeWeakPassword, http.StatusBadRequest},
		{CodeSubscriptionRequired, http.StatusPaymentRequired},
		{CodeValidation, http.StatusBadRequest},
		{CodeDatabase, http.StatusInternalServerError},
		{CodeRateLimitExceeded, http.StatusTooManyRequests},
		{CodeConsentRequired, http.StatusForbidden},
		{CodeConsentNotFound, http.StatusNotFound},
		{CodeConsentExists, http.StatusConflict},
		{CodeDataRetentionError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.status, New(tc.code, "x").Status)
		})
	}
}

func (s *ErrorsSuite) TestDomainError() {
	s.Run("Error includes code and message", func() {
		err := New(CodeUserNotFound, "user does not exist")
		s.Equal("USER_NOT_FOUND: user does not exist", err.Error())
	})

	s.Run("Newf formats the message", func() {
		err := Newf(CodeValidation, "bad value %d", 7)
		s.Equal("bad value 7", err.Message)
	})

	s.Run("WithContext accumulates pairs", func() {
		err := New(CodeValidation, "x").
			WithContext("field", "email").
			WithContext("constraint", "required")
		s.Equal("email", err.Context["field"])
		s.Equal("required", err.Context["constraint"])
	})

	s.Run("Validation carries field, value and constraint", func() {
		err := Validation("email", "bad", "must be a valid address")
		s.Equal(CodeValidation, err.Code)
		s.Equal("email must be a valid address", err.Message)
		s.Equal("bad", err.Context["value"])
	})
}

func (s *ErrorsSuite) TestInfrastructureError() {
	cause := errors.New("connection refused")

	s.Run("Database preserves the cause via Unwrap", func() {
		err := Database("user lookup", cause)
		s.Equal(CodeDatabase, err.Code)
		s.ErrorIs(err, cause)
		s.Contains(err.Error(), "connection refused")
	})

	s.Run("ExternalService names the collaborator", func() {
		err := ExternalService("email-provider", cause)
		s.Equal("email-provider", err.Service)
		s.Equal(CodeExternalService, err.Code)
	})
}

func (s *ErrorsSuite) TestHasCode() {
	s.Run("matches domain errors", func() {
		s.True(HasCode(New(CodeEmailExists, "taken"), CodeEmailExists))
		s.False(HasCode(New(CodeEmailExists, "taken"), CodeUserNotFound))
	})

	s.Run("matches infrastructure errors", func() {
		s.True(HasCode(Database("save", errors.New("x")), CodeDatabase))
	})

	s.Run("matches through wrapping", func() {
		wrapped := fmt.Errorf("saving user: %w", New(CodeEmailExists, "taken"))
		s.True(HasCode(wrapped, CodeEmailExists))
	})

	s.Run("false for plain errors", func() {
		s.False(HasCode(errors.New("plain"), CodeValidation))
	})
}

func (s *ErrorsSuite) TestStatusOf() {
	s.Equal(http.StatusNotFound, StatusOf(New(CodeUserNotFound, "x")))
	s.Equal(http.StatusInternalServerError, StatusOf(errors.New("unknown")))
}
