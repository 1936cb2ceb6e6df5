package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

type PasswordSuite struct {
	suite.Suite
}

func TestPasswordSuite(t *testing.T) {
	suite.Run(t, new(PasswordSuite))
}

func (s *PasswordSuite) TestPolicy() {
	weak := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1!x"},
		{"too long", strings.Repeat("Ab1!", 33)},
		{"common password", "Password123"},
		{"no upper case", "valid-pass1!"},
		{"no lower case", "VALID-PASS1!"},
		{"no digit", "Valid-Pass!!"},
		{"no special character", "ValidPass123"},
	}
	for _, tc := range weak {
		s.Run(tc.name, func() {
			_, err := NewPassword(tc.password, bcrypt.MinCost)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeWeakPassword))
		})
	}

	s.Run("accepts a compliant password", func() {
		_, err := NewPassword("Valid-Pass123!", bcrypt.MinCost)
		s.NoError(err)
	})

	s.Run("accepts a 100-character password beyond the bcrypt input limit", func() {
		long := "Aa1!" + strings.Repeat("x", 96)
		p, err := NewPassword(long, bcrypt.MinCost)
		s.Require().NoError(err)
		s.True(p.Verify(long))
		s.False(p.Verify(long + "y"))
	})

	s.Run("counts characters, not bytes", func() {
		// 100 runes but well over 128 bytes of UTF-8.
		accented := "Aa1!" + strings.Repeat("é", 96)
		p, err := NewPassword(accented, bcrypt.MinCost)
		s.Require().NoError(err)
		s.True(p.Verify(accented))

		_, err = NewPassword("Aa1!"+strings.Repeat("é", 125), bcrypt.MinCost)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeWeakPassword))
	})
}

func (s *PasswordSuite) TestLongPasswordsKeepFullEntropy() {
	// Two passwords that agree on their first 72 bytes must not verify
	// against each other's hash.
	prefix := "Aa1!" + strings.Repeat("x", 80)
	first, err := NewPassword(prefix+"alpha", bcrypt.MinCost)
	s.Require().NoError(err)

	s.False(first.Verify(prefix + "omega"))
	s.True(first.Verify(prefix + "alpha"))
}

func (s *PasswordSuite) TestVerify() {
	p, err := NewPassword("Valid-Pass123!", bcrypt.MinCost)
	s.Require().NoError(err)

	s.True(p.Verify("Valid-Pass123!"))
	s.False(p.Verify("Wrong-Pass123!"))
}

func (s *PasswordSuite) TestFromHash() {
	original, err := NewPassword("Valid-Pass123!", bcrypt.MinCost)
	s.Require().NoError(err)

	restored := PasswordFromHash(original.Hash())
	s.True(restored.Verify("Valid-Pass123!"))
	s.True(original.Equals(restored))
}
