package consent

import (
	"maps"
	"time"

	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
	dErrors "github.com/luissimon96/sistema-exames-sub000/pkg/domain-errors"
)

// DataType labels the category of personal data a consent covers. The
// vocabulary is closed; construct via ParseDataType at trust boundaries.
type DataType string

const (
	DataTypePersonal   DataType = "personal_data"
	DataTypeSensitive  DataType = "sensitive_data"
	DataTypeHealth     DataType = "health_data"
	DataTypeBiometric  DataType = "biometric_data"
	DataTypeLocation   DataType = "location_data"
	DataTypeBehavioral DataType = "behavioral_data"
	DataTypeFinancial  DataType = "financial_data"
)

var validDataTypes = map[DataType]bool{
	DataTypePersonal:   true,
	DataTypeSensitive:  true,
	DataTypeHealth:     true,
	DataTypeBiometric:  true,
	DataTypeLocation:   true,
	DataTypeBehavioral: true,
	DataTypeFinancial:  true,
}

// ParseDataType constructs a DataType from external input.
func ParseDataType(s string) (DataType, error) {
	d := DataType(s)
	if !d.IsValid() {
		return "", dErrors.Validation("dataType", s, "must be a supported data type")
	}
	return d, nil
}

func (d DataType) IsValid() bool { return validDataTypes[d] }

// Purpose labels why data is processed. Purpose binding allows selective
// revocation without affecting other flows.
type Purpose string

const (
	PurposeServiceProvision Purpose = "service_provision"
	PurposeCustomerSupport  Purpose = "customer_support"
	PurposeSecurity         Purpose = "security"
	PurposeAnalytics        Purpose = "analytics"
	PurposeMarketing        Purpose = "marketing"
	PurposeResearch         Purpose = "research"
	PurposeLegalCompliance  Purpose = "legal_compliance"
	PurposeFraudPrevention  Purpose = "fraud_prevention"
)

var validPurposes = map[Purpose]bool{
	PurposeServiceProvision: true,
	PurposeCustomerSupport:  true,
	PurposeSecurity:         true,
	PurposeAnalytics:        true,
	PurposeMarketing:        true,
	PurposeResearch:         true,
	PurposeLegalCompliance:  true,
	PurposeFraudPrevention:  true,
}

// ParsePurpose constructs a Purpose from external input.
func ParsePurpose(s string) (Purpose, error) {
	p := Purpose(s)
	if !p.IsValid() {
		return "", dErrors.Validation("purpose", s, "must be a supported purpose")
	}
	return p, nil
}

func (p Purpose) IsValid() bool { return validPurposes[p] }

// Source records how the consent decision was collected.
type Source string

const (
	SourceRegistration    Source = "registration"
	SourceProfileUpdate   Source = "profile_update"
	SourceFeatureAccess   Source = "feature_access"
	SourceExplicitRequest Source = "explicit_request"
)

var validSources = map[Source]bool{
	SourceRegistration:    true,
	SourceProfileUpdate:   true,
	SourceFeatureAccess:   true,
	SourceExplicitRequest: true,
}

// ParseSource constructs a Source from external input.
func ParseSource(s string) (Source, error) {
	src := Source(s)
	if !src.IsValid() {
		return "", dErrors.Validation("source", s, "must be a supported source")
	}
	return src, nil
}

func (s Source) IsValid() bool { return validSources[s] }

// LegalBasis is the LGPD ground the processing rests on.
type LegalBasis string

const (
	BasisConsent            LegalBasis = "consent"
	BasisLegitimateInterest LegalBasis = "legitimate_interest"
	BasisLegalObligation    LegalBasis = "legal_obligation"
	BasisVitalInterests     LegalBasis = "vital_interests"
	BasisPublicTask         LegalBasis = "public_task"
	BasisContract           LegalBasis = "contract"
)

var validBases = map[LegalBasis]bool{
	BasisConsent:            true,
	BasisLegitimateInterest: true,
	BasisLegalObligation:    true,
	BasisVitalInterests:     true,
	BasisPublicTask:         true,
	BasisContract:           true,
}

// ParseLegalBasis constructs a LegalBasis from external input.
func ParseLegalBasis(s string) (LegalBasis, error) {
	b := LegalBasis(s)
	if !b.IsValid() {
		return "", dErrors.Validation("legalBasis", s, "must be a supported legal basis")
	}
	return b, nil
}

func (b LegalBasis) IsValid() bool { return validBases[b] }

// Metadata key for the revocation reason. Renewal clears it.
const metadataRevocationReason = "revocationReason"

// LGPD retention defaults, in months.
const (
	DefaultMaxAgeMonths           = 24
	DefaultRenewalThresholdMonths = 18
)

// Consent is the LGPD compliance record for one (user, dataType, purpose)
// decision. A consent that was never revoked has no RevokedDate; revocation
// sets only that field, renewal clears it along with the stored reason.
type Consent struct {
	domain.AggregateRoot[domain.ConsentID]

	userID      domain.UserID
	dataType    DataType
	purpose     Purpose
	given       bool
	consentDate time.Time
	revokedDate *time.Time
	source      Source
	legalBasis  LegalBasis
	metadata    map[string]string
}

// NewConsent creates a consent record with a fresh id and date. When the
// consent is given, a consent.granted event is queued.
func NewConsent(userID domain.UserID, dataType DataType, purpose Purpose, given bool,
	source Source, basis LegalBasis, metadata map[string]string) (*Consent, error) {

	if userID.IsZero() {
		return nil, dErrors.Validation("userId", userID.String(), "must not be empty")
	}
	if !dataType.IsValid() {
		return nil, dErrors.Validation("dataType", string(dataType), "must be a supported data type")
	}
	if !purpose.IsValid() {
		return nil, dErrors.Validation("purpose", string(purpose), "must be a supported purpose")
	}
	if !source.IsValid() {
		return nil, dErrors.Validation("source", string(source), "must be a supported source")
	}
	if !basis.IsValid() {
		return nil, dErrors.Validation("legalBasis", string(basis), "must be a supported legal basis")
	}

	c := &Consent{
		AggregateRoot: domain.NewAggregateRoot(domain.NewConsentID()),
		userID:        userID,
		dataType:      dataType,
		purpose:       purpose,
		given:         given,
		consentDate:   time.Now().UTC(),
		source:        source,
		legalBasis:    basis,
		metadata:      cloneMetadata(metadata),
	}
	if given {
		c.Record(newGrantedEvent(c))
	}
	return c, nil
}

func (c *Consent) UserID() domain.UserID  { return c.userID }
func (c *Consent) DataType() DataType     { return c.dataType }
func (c *Consent) Purpose() Purpose       { return c.purpose }
func (c *Consent) ConsentGiven() bool     { return c.given }
func (c *Consent) ConsentDate() time.Time { return c.consentDate }
func (c *Consent) Source() Source         { return c.source }
func (c *Consent) LegalBasis() LegalBasis { return c.legalBasis }

// RevokedDate returns the revocation time, or nil when never revoked.
func (c *Consent) RevokedDate() *time.Time {
	if c.revokedDate == nil {
		return nil
	}
	t := *c.revokedDate
	return &t
}

// Metadata returns a copy of the free-form metadata map.
func (c *Consent) Metadata() map[string]string { return cloneMetadata(c.metadata) }

// IsActive reports whether the consent is currently in force.
func (c *Consent) IsActive() bool { return c.given && c.revokedDate == nil }

// IsExpired reports whether the consent is older than the retention window.
func (c *Consent) IsExpired(now time.Time, maxAgeMonths int) bool {
	return now.After(c.consentDate.AddDate(0, maxAgeMonths, 0))
}

// NeedsRenewal reports whether the consent is approaching expiry.
func (c *Consent) NeedsRenewal(now time.Time, thresholdMonths int) bool {
	return now.After(c.consentDate.AddDate(0, thresholdMonths, 0))
}

// Revoke withdraws an active consent. Only RevokedDate is touched; the
// original ConsentDate stays for the audit trail. The reason, when given,
// is stored under the revocationReason metadata key.
func (c *Consent) Revoke(reason string) error {
	if !c.given {
		return dErrors.New(dErrors.CodeValidation, "consent was never given and cannot be revoked")
	}
	if c.revokedDate != nil {
		return dErrors.New(dErrors.CodeValidation, "consent is already revoked")
	}
	now := time.Now().UTC()
	c.revokedDate = &now
	if reason != "" {
		if c.metadata == nil {
			c.metadata = make(map[string]string)
		}
		c.metadata[metadataRevocationReason] = reason
	}
	c.Record(newRevokedEvent(c, reason))
	return nil
}

// Renew re-activates a revoked or never-given consent: fresh ConsentDate,
// cleared RevokedDate, cleared revocation reason. Renewing an active consent
// is an error.
func (c *Consent) Renew(source Source) error {
	if c.IsActive() {
		return dErrors.New(dErrors.CodeValidation, "consent is already active and cannot be renewed")
	}
	if !source.IsValid() {
		return dErrors.Validation("source", string(source), "must be a supported source")
	}
	c.given = true
	c.consentDate = time.Now().UTC()
	c.revokedDate = nil
	c.source = source
	delete(c.metadata, metadataRevocationReason)
	c.Record(newRenewedEvent(c))
	return nil
}

func cloneMetadata(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}

// Snapshot is the flat persistence representation of a Consent.
type Snapshot struct {
	ID          string
	UserID      string
	DataType    string
	Purpose     string
	Given       bool
	ConsentDate time.Time
	RevokedDate *time.Time
	Source      string
	LegalBasis  string
	Metadata    map[string]string
}

// Snapshot flattens the aggregate for storage.
func (c *Consent) Snapshot() Snapshot {
	return Snapshot{
		ID:          c.ID().String(),
		UserID:      c.userID.String(),
		DataType:    string(c.dataType),
		Purpose:     string(c.purpose),
		Given:       c.given,
		ConsentDate: c.consentDate,
		RevokedDate: c.RevokedDate(),
		Source:      string(c.source),
		LegalBasis:  string(c.legalBasis),
		Metadata:    cloneMetadata(c.metadata),
	}
}

// FromSnapshot rehydrates a consent from storage, re-validating the closed
// vocabularies so an invalid row cannot produce an invalid aggregate.
func FromSnapshot(s Snapshot) (*Consent, error) {
	id, err := domain.ParseConsentID(s.ID)
	if err != nil {
		return nil, err
	}
	userID, err := domain.ParseUserID(s.UserID)
	if err != nil {
		return nil, err
	}
	dataType, err := ParseDataType(s.DataType)
	if err != nil {
		return nil, err
	}
	purpose, err := ParsePurpose(s.Purpose)
	if err != nil {
		return nil, err
	}
	source, err := ParseSource(s.Source)
	if err != nil {
		return nil, err
	}
	basis, err := ParseLegalBasis(s.LegalBasis)
	if err != nil {
		return nil, err
	}

	var revoked *time.Time
	if s.RevokedDate != nil {
		t := *s.RevokedDate
		revoked = &t
	}
	return &Consent{
		AggregateRoot: domain.NewAggregateRoot(id),
		userID:        userID,
		dataType:      dataType,
		purpose:       purpose,
		given:         s.Given,
		consentDate:   s.ConsentDate,
		revokedDate:   revoked,
		source:        source,
		legalBasis:    basis,
		metadata:      cloneMetadata(s.Metadata),
	}, nil
}
