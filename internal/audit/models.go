package audit

import (
	"strings"
	"time"
)

// Category classifies audit entries by their primary purpose. This enables
// different retention policies and routing downstream.
type Category string

const (
	// CategoryCompliance covers entries with legal/regulatory significance
	// (LGPD consent lifecycle). These require long retention.
	CategoryCompliance Category = "compliance"

	// CategorySecurity covers entries relevant to security monitoring,
	// such as two-factor state changes.
	CategorySecurity Category = "security"

	// CategoryOperations covers routine activity useful for debugging.
	CategoryOperations Category = "operations"
)

// Entry is the persisted audit record for one domain event. Keep it
// transport-agnostic so stores and sinks can fan out.
type Entry struct {
	Timestamp   time.Time
	Category    Category
	EventID     string
	EventType   string
	AggregateID string
	Metadata    map[string]string
}

// categoryByType routes known event types. Unknown types default to
// operations via Categorize.
var categoryByType = map[string]Category{
	"user.two_factor_enabled":  CategorySecurity,
	"user.two_factor_disabled": CategorySecurity,
	"user.password_changed":    CategorySecurity,
}

// Categorize maps a dot-namespaced event type to its audit category. All
// consent lifecycle events are compliance records.
func Categorize(eventType string) Category {
	if strings.HasPrefix(eventType, "consent.") {
		return CategoryCompliance
	}
	if cat, ok := categoryByType[eventType]; ok {
		return cat
	}
	return CategoryOperations
}
