package consent

import "github.com/luissimon96/sistema-exames-sub000/pkg/domain"

// Domain event types emitted by the Consent aggregate. All of them are
// compliance records in the audit trail.
const (
	EventTypeGranted = "consent.granted"
	EventTypeRevoked = "consent.revoked"
	EventTypeRenewed = "consent.renewed"
)

func newGrantedEvent(c *Consent) domain.Event {
	return domain.NewEvent(EventTypeGranted, c.ID().String(), map[string]string{
		"userId":     c.userID.String(),
		"dataType":   string(c.dataType),
		"purpose":    string(c.purpose),
		"source":     string(c.source),
		"legalBasis": string(c.legalBasis),
	})
}

func newRevokedEvent(c *Consent, reason string) domain.Event {
	md := map[string]string{
		"userId":   c.userID.String(),
		"dataType": string(c.dataType),
		"purpose":  string(c.purpose),
	}
	if reason != "" {
		md["reason"] = reason
	}
	return domain.NewEvent(EventTypeRevoked, c.ID().String(), md)
}

func newRenewedEvent(c *Consent) domain.Event {
	return domain.NewEvent(EventTypeRenewed, c.ID().String(), map[string]string{
		"userId":   c.userID.String(),
		"dataType": string(c.dataType),
		"purpose":  string(c.purpose),
		"source":   string(c.source),
	})
}
