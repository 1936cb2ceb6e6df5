package consent

import "github.com/luissimon96/sistema-exames-sub000/pkg/domain"

// Template describes one of the canned consents seeded at registration.
// Marketing is deliberately not granted by default: LGPD requires explicit
// opt-in for it.
type Template struct {
	DataType   DataType
	Purpose    Purpose
	Granted    bool
	LegalBasis LegalBasis
}

// DefaultTemplates is the registration seeding set.
func DefaultTemplates() []Template {
	return []Template{
		{DataType: DataTypePersonal, Purpose: PurposeServiceProvision, Granted: true, LegalBasis: BasisContract},
		{DataType: DataTypeHealth, Purpose: PurposeServiceProvision, Granted: true, LegalBasis: BasisConsent},
		{DataType: DataTypeBehavioral, Purpose: PurposeAnalytics, Granted: true, LegalBasis: BasisLegitimateInterest},
		{DataType: DataTypePersonal, Purpose: PurposeMarketing, Granted: false, LegalBasis: BasisConsent},
	}
}

// NewFromTemplate materializes a template for a user with the registration
// source.
func NewFromTemplate(userID domain.UserID, t Template) (*Consent, error) {
	return NewConsent(userID, t.DataType, t.Purpose, t.Granted,
		SourceRegistration, t.LegalBasis, nil)
}
