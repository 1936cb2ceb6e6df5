package user

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

const (
	minNameLength = 2
	maxNameLength = 100
	maxBioLength  = 500
)

// Profile is the user's public-facing identity: a display name plus optional
// bio and avatar URL. Empty optional fields are unset, never empty strings.
type Profile struct {
	name     string
	bio      string
	imageURL string
}

// NewProfile validates and normalizes the three profile fields. bio and
// imageURL may be empty; an empty string normalizes to unset.
func NewProfile(name, bio, imageURL string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, dErrors.Validation("name", name, "must not be empty")
	}
	// Length limits count characters, not bytes, so accented names are not
	// penalized for their UTF-8 encoding.
	if utf8.RuneCountInString(name) < minNameLength {
		return Profile{}, dErrors.Validation("name", name, "must be at least 2 characters")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return Profile{}, dErrors.Validation("name", name, "must be at most 100 characters")
	}

	bio = strings.TrimSpace(bio)
	if utf8.RuneCountInString(bio) > maxBioLength {
		return Profile{}, dErrors.Validation("bio", bio, "must be at most 500 characters")
	}

	imageURL = strings.TrimSpace(imageURL)
	if imageURL != "" && !isHTTPURL(imageURL) {
		return Profile{}, dErrors.Validation("imageUrl", imageURL, "must be a valid http(s) URL")
	}

	return Profile{name: name, bio: bio, imageURL: imageURL}, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (p Profile) Name() string     { return p.name }
func (p Profile) Bio() string      { return p.bio }
func (p Profile) ImageURL() string { return p.imageURL }

// DisplayName is the trimmed name as shown in the UI.
func (p Profile) DisplayName() string { return p.name }

// Initials returns the first letter of up to two whitespace-separated words,
// uppercased.
func (p Profile) Initials() string {
	words := strings.Fields(p.name)
	var b strings.Builder
	for i, w := range words {
		if i == 2 {
			break
		}
		r := []rune(w)
		b.WriteString(strings.ToUpper(string(r[0])))
	}
	return b.String()
}

func (p Profile) Equals(other Profile) bool {
	return p.name == other.name && p.bio == other.bio && p.imageURL == other.imageURL
}

var _ domain.ValueObject[Profile] = Profile{}
