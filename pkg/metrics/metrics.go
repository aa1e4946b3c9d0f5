// Package metrics exposes Prometheus counters for the help form.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "helpform"

// Submission outcomes.
const (
	OutcomeSent            = "sent"
	OutcomeCaptchaRejected = "captcha_rejected"
	OutcomeInvalid         = "invalid"
	OutcomeFailed          = "failed"
)

// Metrics groups the service counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry      *prometheus.Registry
	submissions   *prometheus.CounterVec
	captcha       *prometheus.CounterVec
	notifications *prometheus.CounterVec
	identity      *prometheus.CounterVec
}

// New creates the counters on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Help request submissions by outcome.",
		}, []string{"outcome"}),
		captcha: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "captcha_verifications_total",
			Help:      "CAPTCHA verifications by result.",
		}, []string{"result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification dispatch attempts by result.",
		}, []string{"result"}),
		identity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identity_verifications_total",
			Help:      "Identity token verifications by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.submissions, m.captcha, m.notifications, m.identity)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Submission counts one processed submission with its outcome.
func (m *Metrics) Submission(outcome string) {
	if m != nil {
		m.submissions.WithLabelValues(outcome).Inc()
	}
}

// Captcha counts one CAPTCHA verification.
func (m *Metrics) Captcha(ok bool) {
	if m != nil {
		m.captcha.WithLabelValues(result(ok)).Inc()
	}
}

// Notification counts one attempt to reach the relay or send through it.
func (m *Metrics) Notification(ok bool) {
	if m != nil {
		m.notifications.WithLabelValues(result(ok)).Inc()
	}
}

// Identity counts one identity token verification.
func (m *Metrics) Identity(ok bool) {
	if m != nil {
		m.identity.WithLabelValues(result(ok)).Inc()
	}
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
