package generator

import (
	"regexp"

	"github.com/mcncl/casegen/internal/config"
	"github.com/mcncl/casegen/internal/models"
)

var (
	// Canonical UUID text: version nibble 1-5, RFC 4122 variant nibble.
	uuidRegex = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	// ISO 8601 date, optionally with a time, fraction and zone.
	isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?)?$`)
)

// IsUUID reports whether s is a canonical UUID string.
func IsUUID(s string) bool {
	return uuidRegex.MatchString(s)
}

// IsISODate reports whether s looks like an ISO 8601 date or date-time. Only
// the shape is checked; calendar validity is not.
func IsISODate(s string) bool {
	return isoDateRegex.MatchString(s)
}

// DomainRule is a rule set applied on top of the type rules when its
// trigger matches the field's key and value.
type DomainRule struct {
	Name     string
	Prefix   string
	Applies  func(key string, value models.Value) bool
	Variants []Variant
}

// EmailRule triggers on keys matching the configured email pattern,
// whatever the value's type.
func EmailRule(rule config.KeyRule) DomainRule {
	return DomainRule{
		Name:   "email",
		Prefix: "Invalid Email",
		Applies: func(key string, _ models.Value) bool {
			return rule.MatchesKey(key)
		},
		Variants: tableVariants("Invalid Email", invalidEmails),
	}
}

// UUIDRule triggers on string values that are canonical UUIDs.
func UUIDRule() DomainRule {
	return DomainRule{
		Name:   "uuid",
		Prefix: "Invalid UUID",
		Applies: func(_ string, value models.Value) bool {
			s, ok := value.(models.String)
			return ok && IsUUID(string(s))
		},
		Variants: tableVariants("Invalid UUID", invalidUUIDs),
	}
}

// DateRule triggers on keys matching the configured date pattern whose
// value is an ISO 8601 date string.
func DateRule(rule config.KeyRule) DomainRule {
	return DomainRule{
		Name:   "date",
		Prefix: "Invalid Date",
		Applies: func(key string, value models.Value) bool {
			s, ok := value.(models.String)
			return ok && rule.MatchesKey(key) && IsISODate(string(s))
		},
		Variants: tableVariants("Invalid Date", invalidDates),
	}
}

// defaultDomainRules builds the enabled domain rules in their fixed order:
// email, UUID, date.
func defaultDomainRules(cfg *config.Config) []DomainRule {
	var rules []DomainRule
	if cfg.Rules.Email.Enabled {
		rules = append(rules, EmailRule(cfg.Rules.Email))
	}
	if cfg.Rules.UUID.Enabled {
		rules = append(rules, UUIDRule())
	}
	if cfg.Rules.Date.Enabled {
		rules = append(rules, DateRule(cfg.Rules.Date))
	}
	return rules
}
