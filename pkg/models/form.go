package models

import (
	"fmt"
	"strconv"
)

// Form field names as posted by the help form.
const (
	FieldFirstName          = "first_name"
	FieldLastName           = "last_name"
	FieldCompanyName        = "company_name"
	FieldEmail              = "email"
	FieldPhone              = "phone"
	FieldUrgency            = "urgency"
	FieldProblemDescription = "problem_description"
	FieldAddress            = "address"
	FieldBookingTime        = "booking_time"
	FieldCaptchaToken       = "g-recaptcha-response"
)

// Urgency levels offered by the form.
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// HelpRequest represents a single help form submission
type HelpRequest struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	CompanyName        string `json:"company_name,omitempty"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Urgency            string `json:"urgency"`
	ProblemDescription string `json:"problem_description"`
	Address            string `json:"address,omitempty"`
	BookingTime        string `json:"booking_time,omitempty"`
	CaptchaToken       string `json:"g-recaptcha-response"`
}

// Fields flattens a raw submission into field name -> string. Missing and nil
// values become empty strings, JSON numbers keep their plain decimal form.
func Fields(raw map[string]any) map[string]string {
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			fields[k] = ""
		case string:
			fields[k] = val
		case float64:
			fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			fields[k] = fmt.Sprint(val)
		}
	}
	return fields
}

// NewHelpRequest builds a HelpRequest from flattened form fields.
func NewHelpRequest(fields map[string]string) *HelpRequest {
	return &HelpRequest{
		FirstName:          fields[FieldFirstName],
		LastName:           fields[FieldLastName],
		CompanyName:        fields[FieldCompanyName],
		Email:              fields[FieldEmail],
		Phone:              fields[FieldPhone],
		Urgency:            fields[FieldUrgency],
		ProblemDescription: fields[FieldProblemDescription],
		Address:            fields[FieldAddress],
		BookingTime:        fields[FieldBookingTime],
		CaptchaToken:       fields[FieldCaptchaToken],
	}
}

// IdentityClaims is the claims payload of a verified identity token.
type IdentityClaims map[string]any

// IdentityLoginRequest is the body of POST /google-login.
type IdentityLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}
