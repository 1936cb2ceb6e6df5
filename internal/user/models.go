package user

import (
	"strings"
	"time"

	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

// SubscriptionTier is the billing plan the user is on.
type SubscriptionTier string

const (
	TierFree   SubscriptionTier = "free"
	TierPro    SubscriptionTier = "pro"
	TierFamily SubscriptionTier = "family"
)

var validTiers = map[SubscriptionTier]bool{
	TierFree:   true,
	TierPro:    true,
	TierFamily: true,
}

// ParseSubscriptionTier constructs a tier from external input.
func ParseSubscriptionTier(s string) (SubscriptionTier, error) {
	t := SubscriptionTier(s)
	if !t.IsValid() {
		return "", dErrors.Validation("subscriptionTier", s, "must be one of: free, pro, family")
	}
	return t, nil
}

func (t SubscriptionTier) IsValid() bool { return validTiers[t] }

// SubscriptionStatus is the billing state of the current plan.
type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusInactive  SubscriptionStatus = "inactive"
	StatusCancelled SubscriptionStatus = "cancelled"
)

var validStatuses = map[SubscriptionStatus]bool{
	StatusActive:    true,
	StatusInactive:  true,
	StatusCancelled: true,
}

// ParseSubscriptionStatus constructs a status from external input.
func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	st := SubscriptionStatus(s)
	if !st.IsValid() {
		return "", dErrors.Validation("subscriptionStatus", s, "must be one of: active, inactive, cancelled")
	}
	return st, nil
}

func (s SubscriptionStatus) IsValid() bool { return validStatuses[s] }

// Monthly upload allowances per tier.
const (
	uploadsFree   = 5
	uploadsPro    = 50
	uploadsFamily = 200
)

// User is the aggregate root for account state: identity email, profile,
// UI preferences, verification and two-factor flags, and the subscription
// entitlement snapshot. UpdatedAt only advances on an actual state change;
// no-op mutations bump nothing and emit nothing.
type User struct {
	domain.AggregateRoot[domain.UserID]

	email            UserEmail
	profile          Profile
	preferences      Preferences
	password         Password
	emailVerified    bool
	twoFactorEnabled bool
	tier             SubscriptionTier
	status           SubscriptionStatus
	createdAt        time.Time
	updatedAt        time.Time
}

// NewUser creates a fresh aggregate on the free tier with defaults a new
// registration starts from.
func NewUser(email UserEmail, profile Profile, prefs Preferences) *User {
	now := time.Now().UTC()
	return &User{
		AggregateRoot: domain.NewAggregateRoot(domain.NewUserID()),
		email:         email,
		profile:       profile,
		preferences:   prefs,
		tier:          TierFree,
		status:        StatusActive,
		createdAt:     now,
		updatedAt:     now,
	}
}

func (u *User) Email() UserEmail                       { return u.email }
func (u *User) Profile() Profile                       { return u.profile }
func (u *User) Preferences() Preferences               { return u.preferences }
func (u *User) Password() Password                     { return u.password }
func (u *User) IsEmailVerified() bool                  { return u.emailVerified }
func (u *User) IsTwoFactorEnabled() bool               { return u.twoFactorEnabled }
func (u *User) SubscriptionTier() SubscriptionTier     { return u.tier }
func (u *User) SubscriptionStatus() SubscriptionStatus { return u.status }
func (u *User) CreatedAt() time.Time                   { return u.createdAt }
func (u *User) UpdatedAt() time.Time                   { return u.updatedAt }

// ProfileUpdate carries the fields a caller wants to change. A nil field
// means "leave as is"; a set field equal to the current value is a no-op.
type ProfileUpdate struct {
	Name     *string
	Bio      *string
	ImageURL *string
}

// UpdateProfile applies the partial update. It returns the names of the
// fields whose values actually changed; when nothing changed it returns an
// empty slice, does not bump UpdatedAt, and emits no event.
func (u *User) UpdateProfile(input ProfileUpdate) ([]string, error) {
	name := u.profile.Name()
	bio := u.profile.Bio()
	imageURL := u.profile.ImageURL()

	// Compare against normalized input so a whitespace-only difference does
	// not count as a change.
	var changed []string
	if input.Name != nil && strings.TrimSpace(*input.Name) != name {
		name = *input.Name
		changed = append(changed, "name")
	}
	if input.Bio != nil && strings.TrimSpace(*input.Bio) != bio {
		bio = *input.Bio
		changed = append(changed, "bio")
	}
	if input.ImageURL != nil && strings.TrimSpace(*input.ImageURL) != imageURL {
		imageURL = *input.ImageURL
		changed = append(changed, "imageUrl")
	}
	if len(changed) == 0 {
		return nil, nil
	}

	profile, err := NewProfile(name, bio, imageURL)
	if err != nil {
		return nil, err
	}
	u.profile = profile
	u.touch()
	u.Record(newProfileUpdatedEvent(u.ID(), changed))
	return changed, nil
}

// VerifyEmail marks the address verified. Idempotent: verifying an already
// verified account changes nothing and emits nothing.
func (u *User) VerifyEmail() {
	if u.emailVerified {
		return
	}
	u.emailVerified = true
	u.touch()
	u.Record(newEmailVerifiedEvent(u.ID()))
}

// EnableTwoFactor turns two-factor on. Enabling twice is an error: callers
// must know the actual state before toggling a security control.
func (u *User) EnableTwoFactor() error {
	if u.twoFactorEnabled {
		return dErrors.New(dErrors.CodeValidation, "two-factor authentication is already enabled")
	}
	u.twoFactorEnabled = true
	u.touch()
	u.Record(newTwoFactorEnabledEvent(u.ID()))
	return nil
}

// DisableTwoFactor turns two-factor off, with the same strict-toggle policy.
func (u *User) DisableTwoFactor() error {
	if !u.twoFactorEnabled {
		return dErrors.New(dErrors.CodeValidation, "two-factor authentication is not enabled")
	}
	u.twoFactorEnabled = false
	u.touch()
	u.Record(newTwoFactorDisabledEvent(u.ID()))
	return nil
}

// ChangePassword swaps in a new credential and queues a security event.
// Policy validation happens in NewPassword; this method only takes the
// already-hashed value. Verifying the current password is the use case's
// responsibility, not the aggregate's.
func (u *User) ChangePassword(p Password) {
	u.password = p
	u.touch()
	u.Record(newPasswordChangedEvent(u.ID()))
}

// UpdateSubscription overwrites the entitlement snapshot. No event: the
// billing collaborator owns subscription event sourcing.
func (u *User) UpdateSubscription(tier SubscriptionTier, status SubscriptionStatus) error {
	if !tier.IsValid() {
		return dErrors.Validation("subscriptionTier", string(tier), "must be a supported tier")
	}
	if !status.IsValid() {
		return dErrors.Validation("subscriptionStatus", string(status), "must be a supported status")
	}
	u.tier = tier
	u.status = status
	u.touch()
	return nil
}

// CanAccessProFeatures requires a paid tier with an active subscription.
func (u *User) CanAccessProFeatures() bool {
	return u.tier != TierFree && u.status == StatusActive
}

// CanManageFamilyAccounts requires the family tier with an active subscription.
func (u *User) CanManageFamilyAccounts() bool {
	return u.tier == TierFamily && u.status == StatusActive
}

// MaxUploadsPerMonth returns the exam upload allowance for the current tier.
func (u *User) MaxUploadsPerMonth() int {
	switch u.tier {
	case TierPro:
		return uploadsPro
	case TierFamily:
		return uploadsFamily
	default:
		return uploadsFree
	}
}

func (u *User) touch() {
	u.updatedAt = time.Now().UTC()
}

// Snapshot is the flat persistence representation of a User. Stores read and
// write snapshots; only the aggregate mutates business state.
type Snapshot struct {
	ID                 string
	Email              string
	Name               string
	Bio                string
	ImageURL           string
	PasswordHash       string
	Theme              string
	PrimaryColor       string
	SecondaryColor     string
	EmailVerified      bool
	TwoFactorEnabled   bool
	SubscriptionTier   string
	SubscriptionStatus string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Snapshot flattens the aggregate for storage.
func (u *User) Snapshot() Snapshot {
	return Snapshot{
		ID:                 u.ID().String(),
		Email:              u.email.String(),
		Name:               u.profile.Name(),
		Bio:                u.profile.Bio(),
		ImageURL:           u.profile.ImageURL(),
		PasswordHash:       u.password.Hash(),
		Theme:              string(u.preferences.Theme()),
		PrimaryColor:       string(u.preferences.PrimaryColor()),
		SecondaryColor:     string(u.preferences.SecondaryColor()),
		EmailVerified:      u.emailVerified,
		TwoFactorEnabled:   u.twoFactorEnabled,
		SubscriptionTier:   string(u.tier),
		SubscriptionStatus: string(u.status),
		CreatedAt:          u.createdAt,
		UpdatedAt:          u.updatedAt,
	}
}

// UserFromSnapshot rehydrates an aggregate from storage, re-validating every
// value object so an invalid row cannot produce an invalid aggregate.
func UserFromSnapshot(s Snapshot) (*User, error) {
	id, err := domain.ParseUserID(s.ID)
	if err != nil {
		return nil, err
	}
	email, err := NewUserEmail(s.Email)
	if err != nil {
		return nil, err
	}
	profile, err := NewProfile(s.Name, s.Bio, s.ImageURL)
	if err != nil {
		return nil, err
	}
	prefs, err := NewPreferences(s.Theme, s.PrimaryColor, s.SecondaryColor)
	if err != nil {
		return nil, err
	}
	tier, err := ParseSubscriptionTier(s.SubscriptionTier)
	if err != nil {
		return nil, err
	}
	status, err := ParseSubscriptionStatus(s.SubscriptionStatus)
	if err != nil {
		return nil, err
	}
	return &User{
		AggregateRoot:    domain.NewAggregateRoot(id),
		email:            email,
		profile:          profile,
		preferences:      prefs,
		password:         PasswordFromHash(s.PasswordHash),
		emailVerified:    s.EmailVerified,
		twoFactorEnabled: s.TwoFactorEnabled,
		tier:             tier,
		status:           status,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
	}, nil
}
