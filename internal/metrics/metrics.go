// Package metrics exposes onboarding counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry           *prometheus.Registry
	RoleSelections     *prometheus.CounterVec
	ProfileSubmissions *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RoleSelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tutorconnect",
			Name:      "role_selections_total",
			Help:      "Role selection attempts by role and outcome.",
		}, []string{"role", "outcome"}),
		ProfileSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tutorconnect",
			Name:      "profile_submissions_total",
			Help:      "Profile form submissions by role and outcome.",
		}, []string{"role", "outcome"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RoleSelections,
		m.ProfileSubmissions,
	)
	return m
}

// ObserveRoleSelection counts one role selection. A nil receiver is a no-op.
func (m *Metrics) ObserveRoleSelection(role, outcome string) {
	if m == nil {
		return
	}
	m.RoleSelections.WithLabelValues(role, outcome).Inc()
}

// ObserveProfileSubmission counts one profile submission. A nil receiver is a no-op.
func (m *Metrics) ObserveProfileSubmission(role, outcome string) {
	if m == nil {
		return
	}
	m.ProfileSubmissions.WithLabelValues(role, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
