package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navarrastar/helpdesk-form/pkg/models"
)

func newTestComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := NewComposer("Help Form", "mailer@example.com", "support@example.com")
	require.NoError(t, err)
	return c
}

func sampleRequest() *models.HelpRequest {
	return &models.HelpRequest{
		FirstName:          "Al",
		LastName:           "Lee",
		CompanyName:        "Acme &amp; Sons",
		Email:              "a@b.com",
		Phone:              "1234567890",
		Urgency:            models.UrgencyHigh,
		ProblemDescription: "System is down badly\nsince this morning",
	}
}

func TestUrgencyColor(t *testing.T) {
	assert.Equal(t, "#dc3545", UrgencyColor("critical"))
	assert.Equal(t, "#fd7e14", UrgencyColor("high"))
	assert.Equal(t, "#ffc107", UrgencyColor("medium"))
	assert.Equal(t, "#28a745", UrgencyColor("low"))
	assert.Equal(t, "#28a745", UrgencyColor("whenever"))
}

func TestCompose_Envelope(t *testing.T) {
	n, err := newTestComposer(t).Compose(sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "Help Form", n.FromName)
	assert.Equal(t, "mailer@example.com", n.FromAddress)
	assert.Equal(t, "support@example.com", n.To)
	assert.Equal(t, "a@b.com", n.ReplyTo)
	assert.Equal(t, "New Help Request - HIGH - Al Lee", n.Subject)
}

func TestCompose_BodiesContainEveryField(t *testing.T) {
	req := sampleRequest()
	n, err := newTestComposer(t).Compose(req)
	require.NoError(t, err)

	for _, v := range []string{req.FirstName, req.LastName, req.CompanyName, req.Email, req.Phone, req.Urgency, req.ProblemDescription} {
		assert.Contains(t, n.Text, v)
		assert.Contains(t, n.HTML, v)
	}
	assert.Contains(t, n.Text, "Name: Al Lee\n")
	assert.Contains(t, n.Text, "Company: Acme &amp; Sons\n")
	assert.Contains(t, n.HTML, "<strong class=\"urgency-high\">HIGH</strong>")
	assert.Contains(t, n.HTML, "white-space: pre-wrap")
	assert.NotContains(t, n.Text, "Address:")
	assert.NotContains(t, n.HTML, "Booking Time:")
}

func TestCompose_UrgencyColorInHTML(t *testing.T) {
	c := newTestComposer(t)
	for urgency, color := range map[string]string{
		"critical": "#dc3545",
		"high":     "#fd7e14",
		"medium":   "#ffc107",
		"low":      "#28a745",
	} {
		req := sampleRequest()
		req.Urgency = urgency
		n, err := c.Compose(req)
		require.NoError(t, err)
		assert.Contains(t, n.HTML, ".urgency-"+urgency+" { color: "+color+"; }", urgency)
	}
}

func TestCompose_CompanyFallback(t *testing.T) {
	req := sampleRequest()
	req.CompanyName = ""
	n, err := newTestComposer(t).Compose(req)
	require.NoError(t, err)

	assert.Contains(t, n.Text, "Company: N/A\n")
	assert.Contains(t, n.HTML, "N/A")
}

func TestCompose_ExtendedFields(t *testing.T) {
	req := sampleRequest()
	req.Address = "1 Main St"
	req.BookingTime = "2026-10-20T09:00"
	n, err := newTestComposer(t).Compose(req)
	require.NoError(t, err)

	assert.Contains(t, n.Text, "Address: 1 Main St\n")
	assert.Contains(t, n.Text, "Booking time: 2026-10-20T09:00\n")
	assert.Contains(t, n.HTML, "1 Main St")
	assert.Contains(t, n.HTML, "2026-10-20T09:00")
}

func TestCompose_ReplyToIsUnescaped(t *testing.T) {
	req := sampleRequest()
	req.Email = "o&#39;neil@example.com"
	n, err := newTestComposer(t).Compose(req)
	require.NoError(t, err)

	assert.Equal(t, "o'neil@example.com", n.ReplyTo)
	assert.Contains(t, n.HTML, "mailto:o&#39;neil@example.com")
}
