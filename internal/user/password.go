package user

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

// commonPasswords is a small deny-list; the real first line of defense is
// the complexity policy, this just blocks the worst offenders.
var commonPasswords = map[string]bool{
	"password":    true,
	"password1":   true,
	"password123": true,
	"12345678":    true,
	"123456789":   true,
	"qwerty123":   true,
	"abc12345":    true,
	"letmein1":    true,
	"admin123":    true,
	"senha1234":   true,
}

// Password wraps a bcrypt hash. NewPassword is the only path that enforces
// the complexity policy; PasswordFromHash trusts storage and re-validates
// nothing.
type Password struct {
	hash string
}

// NewPassword validates plaintext against the policy and hashes it.
// Policy failures carry CodeWeakPassword.
func NewPassword(plaintext string, cost int) (Password, error) {
	if err := checkPolicy(plaintext); err != nil {
		return Password{}, err
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword(prehash(plaintext), cost)
	if err != nil {
		return Password{}, dErrors.ExternalService("bcrypt", err)
	}
	return Password{hash: string(hash)}, nil
}

// PasswordFromHash wraps an already-hashed value loaded from storage.
func PasswordFromHash(hash string) Password {
	return Password{hash: hash}
}

// Hash returns the stored bcrypt hash.
func (p Password) Hash() string { return p.hash }

// Verify reports whether plaintext matches the stored hash.
func (p Password) Verify(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.hash), prehash(plaintext)) == nil
}

func (p Password) Equals(other Password) bool { return p.hash == other.hash }

// prehash folds the plaintext through SHA-256 before bcrypt. bcrypt only
// looks at the first 72 bytes of its input, which would truncate (and with
// this library, reject) policy-valid long passwords; the digest is
// base64-encoded so it never contains a NUL byte.
func prehash(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

func checkPolicy(plaintext string) error {
	// Length limits count characters, not bytes: a multibyte password is as
	// long as the user perceives it.
	length := utf8.RuneCountInString(plaintext)
	if length < minPasswordLength {
		return dErrors.New(dErrors.CodeWeakPassword, "password must be at least 8 characters")
	}
	if length > maxPasswordLength {
		return dErrors.New(dErrors.CodeWeakPassword, "password must be at most 128 characters")
	}
	if commonPasswords[strings.ToLower(plaintext)] {
		return dErrors.New(dErrors.CodeWeakPassword, "password is too common")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range plaintext {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return dErrors.New(dErrors.CodeWeakPassword,
			"password must contain upper case, lower case, digit and special characters")
	}
	return nil
}

var _ domain.ValueObject[Password] = Password{}
