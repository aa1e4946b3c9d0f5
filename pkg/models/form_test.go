package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFields_FlattensScalars(t *testing.T) {
	fields := Fields(map[string]any{
		FieldFirstName: "Al",
		FieldPhone:     float64(1234567890),
		FieldAddress:   nil,
		"subscribed":   true,
	})

	assert.Equal(t, "Al", fields[FieldFirstName])
	assert.Equal(t, "1234567890", fields[FieldPhone])
	assert.Equal(t, "", fields[FieldAddress])
	assert.Equal(t, "true", fields["subscribed"])
}

func TestNewHelpRequest(t *testing.T) {
	req := NewHelpRequest(map[string]string{
		FieldFirstName:          "Al",
		FieldLastName:           "Lee",
		FieldEmail:              "a@b.com",
		FieldPhone:              "1234567890",
		FieldUrgency:            UrgencyHigh,
		FieldProblemDescription: "System is down badly",
		FieldCaptchaToken:       "tok",
	})

	assert.Equal(t, "Al", req.FirstName)
	assert.Equal(t, "Lee", req.LastName)
	assert.Equal(t, "", req.CompanyName)
	assert.Equal(t, UrgencyHigh, req.Urgency)
	assert.Equal(t, "tok", req.CaptchaToken)
}
