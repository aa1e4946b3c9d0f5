// Package validation holds the help form's field rules. The same rule list is
// evaluated on the server and rendered into the form page for the browser.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/navarrastar/helpdesk-form/pkg/models"
)

// Kind identifies how a rule is checked.
type Kind string

const (
	KindMinLength Kind = "minLength"
	KindPattern   Kind = "pattern"
	KindRequired  Kind = "required"
)

// Patterns are written in the subset shared by RE2 and ECMAScript so the
// browser can compile them unchanged.
const (
	EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
	PhonePattern = `^[0-9\s\-()+]{10,}$`
)

var (
	emailRe = regexp.MustCompile(EmailPattern)
	phoneRe = regexp.MustCompile(PhonePattern)
)

// Rule is a single field constraint.
type Rule struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Min     int    `json:"min,omitempty"`
	Pattern string `json:"pattern,omitempty"`
	Message string `json:"message"`
	// ServerOnly rules are not rendered for the browser.
	ServerOnly bool `json:"-"`

	re *regexp.Regexp
}

// Variant selects which optional rules apply.
type Variant struct {
	Extended bool
}

// Rules returns the ordered rule list for the variant.
func Rules(v Variant) []Rule {
	rules := []Rule{
		{Field: models.FieldFirstName, Kind: KindMinLength, Min: 2, Message: "First name is required (minimum 2 characters)"},
		{Field: models.FieldLastName, Kind: KindMinLength, Min: 2, Message: "Last name is required (minimum 2 characters)"},
		{Field: models.FieldEmail, Kind: KindPattern, Pattern: EmailPattern, Message: "Valid email is required", re: emailRe},
		{Field: models.FieldPhone, Kind: KindPattern, Pattern: PhonePattern, Message: "Valid phone number is required", re: phoneRe},
		{Field: models.FieldProblemDescription, Kind: KindMinLength, Min: 10, Message: "Problem description is required (minimum 10 characters)"},
	}
	if v.Extended {
		rules = append(rules,
			Rule{Field: models.FieldAddress, Kind: KindMinLength, Min: 5, Message: "Address is required (minimum 5 characters)"},
			Rule{Field: models.FieldBookingTime, Kind: KindRequired, Message: "Booking time is required"},
		)
	}
	return append(rules, Rule{Field: models.FieldUrgency, Kind: KindRequired, Message: "Urgency level is required", ServerOnly: true})
}

// ClientRules returns the rules the browser evaluates.
func ClientRules(v Variant) []Rule {
	var out []Rule
	for _, r := range Rules(v) {
		if !r.ServerOnly {
			out = append(out, r)
		}
	}
	return out
}

// Check reports whether value satisfies the rule. Values are trimmed first.
func (r Rule) Check(value string) bool {
	value = strings.TrimSpace(value)
	switch r.Kind {
	case KindMinLength:
		return utf8.RuneCountInString(value) >= r.Min
	case KindPattern:
		re := r.re
		if re == nil {
			re = regexp.MustCompile(r.Pattern)
		}
		return re.MatchString(value)
	case KindRequired:
		return value != ""
	}
	return false
}

// Validator evaluates the rule list for one form variant.
type Validator struct {
	rules []Rule
}

// New creates a Validator for the variant.
func New(v Variant) *Validator {
	return &Validator{rules: Rules(v)}
}

// Validate returns the message of every violated rule in rule order. An empty
// result means the fields are valid.
func (v *Validator) Validate(fields map[string]string) []string {
	var errs []string
	for _, r := range v.rules {
		if !r.Check(fields[r.Field]) {
			errs = append(errs, r.Message)
		}
	}
	return errs
}
