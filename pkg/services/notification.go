package services

import (
	"fmt"
	"html"
	"strings"

	"github.com/osteele/liquid"

	"github.com/navarrastar/helpdesk-form/pkg/models"
)

// Urgency colors used in the notification email.
const (
	ColorCritical = "#dc3545"
	ColorHigh     = "#fd7e14"
	ColorMedium   = "#ffc107"
	ColorLow      = "#28a745"
)

// UrgencyColor maps an urgency level to its display color. Unknown levels
// fall back to the low-urgency color.
func UrgencyColor(urgency string) string {
	switch urgency {
	case models.UrgencyCritical:
		return ColorCritical
	case models.UrgencyHigh:
		return ColorHigh
	case models.UrgencyMedium:
		return ColorMedium
	}
	return ColorLow
}

const textTemplate = `New help request:

Name: {{ first_name }} {{ last_name }}
Company: {{ company_name }}
Email: {{ email }}
Phone: {{ phone }}
Urgency: {{ urgency }}
{% if address != "" %}Address: {{ address }}
{% endif %}{% if booking_time != "" %}Booking time: {{ booking_time }}
{% endif %}Problem: {{ problem_description }}`

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; border-radius: 5px 5px 0 0; }
        .content { background: #f9f9f9; padding: 20px; border: 1px solid #ddd; border-radius: 0 0 5px 5px; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #666; }
        .urgency-{{ urgency }} { color: {{ urgency | urgency_color }}; }
        .problem { white-space: pre-wrap; background: #fff; padding: 15px; border: 1px solid #eee; border-radius: 4px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>New Help Request</h2>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">From:</div>
                {{ first_name }} {{ last_name }}
            </div>
            <div class="field">
                <div class="label">Company:</div>
                {{ company_name }}
            </div>
            <div class="field">
                <div class="label">Contact:</div>
                Email: <a href="mailto:{{ email }}">{{ email }}</a><br>
                Phone: <a href="tel:{{ phone }}">{{ phone }}</a>
            </div>
{% if address != "" %}            <div class="field">
                <div class="label">Address:</div>
                {{ address }}
            </div>
{% endif %}{% if booking_time != "" %}            <div class="field">
                <div class="label">Booking Time:</div>
                {{ booking_time }}
            </div>
{% endif %}            <div class="field">
                <div class="label">Urgency:</div>
                <strong class="urgency-{{ urgency }}">{{ urgency | upcase }}</strong>
            </div>
            <div class="field">
                <div class="label">Problem Description:</div>
                <div class="problem">{{ problem_description }}</div>
            </div>
        </div>
    </div>
</body>
</html>
`

// Composer renders help requests into notifications. Field values are
// interpolated as given, so callers pass sanitized requests.
type Composer struct {
	fromName    string
	fromAddress string
	recipient   string
	text        *liquid.Template
	html        *liquid.Template
}

// NewComposer parses the notification templates.
func NewComposer(fromName, fromAddress, recipient string) (*Composer, error) {
	engine := liquid.NewEngine()
	engine.RegisterFilter("urgency_color", UrgencyColor)

	text, err := engine.ParseString(textTemplate)
	if err != nil {
		return nil, fmt.Errorf("error parsing text template: %w", err)
	}
	htmlBody, err := engine.ParseString(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML template: %w", err)
	}

	return &Composer{
		fromName:    fromName,
		fromAddress: fromAddress,
		recipient:   recipient,
		text:        text,
		html:        htmlBody,
	}, nil
}

// Compose builds the plain-text and HTML bodies and the envelope for req.
func (c *Composer) Compose(req *models.HelpRequest) (*models.Notification, error) {
	company := req.CompanyName
	if company == "" {
		company = "N/A"
	}
	bindings := liquid.Bindings{
		"first_name":          req.FirstName,
		"last_name":           req.LastName,
		"company_name":        company,
		"email":               req.Email,
		"phone":               req.Phone,
		"urgency":             req.Urgency,
		"problem_description": req.ProblemDescription,
		"address":             req.Address,
		"booking_time":        req.BookingTime,
	}

	text, err := c.text.RenderString(bindings)
	if err != nil {
		return nil, fmt.Errorf("error rendering text body: %w", err)
	}
	htmlBody, err := c.html.RenderString(bindings)
	if err != nil {
		return nil, fmt.Errorf("error rendering HTML body: %w", err)
	}

	return &models.Notification{
		FromName:    c.fromName,
		FromAddress: c.fromAddress,
		To:          c.recipient,
		// Envelope addresses carry the unescaped mailbox.
		ReplyTo:     html.UnescapeString(req.Email),
		Subject:     Subject(req),
		Text:        text,
		HTML:        htmlBody,
	}, nil
}

// Subject formats the notification subject line.
func Subject(req *models.HelpRequest) string {
	return fmt.Sprintf("New Help Request - %s - %s %s", strings.ToUpper(req.Urgency), req.FirstName, req.LastName)
}
