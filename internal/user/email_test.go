package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

type EmailSuite struct {
	suite.Suite
}

func TestEmailSuite(t *testing.T) {
	suite.Run(t, new(EmailSuite))
}

func (s *EmailSuite) TestNewUserEmail() {
	s.Run("normalizes case and whitespace", func() {
		email, err := NewUserEmail("  Maria.Silva@Example.COM  ")
		s.Require().NoError(err)
		s.Equal("maria.silva@example.com", email.String())
	})

	s.Run("rejects invalid shapes", func() {
		invalid := []string{
			"",
			"   ",
			"no-at-sign",
			"missing-domain@",
			"@missing-local.com",
			"no-tld@example",
			"spaces in@example.com",
		}
		for _, raw := range invalid {
			_, err := NewUserEmail(raw)
			s.Require().Error(err, "input %q", raw)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation), "input %q", raw)
		}
	})

	s.Run("rejects addresses over 254 characters", func() {
		raw := strings.Repeat("a", 250) + "@ex.com"
		_, err := NewUserEmail(raw)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("measures length in characters, not bytes", func() {
		// 207 runes but over 254 bytes of UTF-8.
		raw := strings.Repeat("é", 200) + "@ex.com"
		_, err := NewUserEmail(raw)
		s.NoError(err)
	})
}

func (s *EmailSuite) TestParts() {
	email, err := NewUserEmail("maria.silva@sub.example.com")
	s.Require().NoError(err)
	s.Equal("maria.silva", email.LocalPart())
	s.Equal("sub.example.com", email.Domain())
}

func (s *EmailSuite) TestEquals() {
	a, err := NewUserEmail("Maria@Example.com")
	s.Require().NoError(err)
	b, err := NewUserEmail("maria@example.com")
	s.Require().NoError(err)
	c, err := NewUserEmail("other@example.com")
	s.Require().NoError(err)

	s.True(a.Equals(b), "normalization makes differently-cased inputs equal")
	s.False(a.Equals(c))
}
