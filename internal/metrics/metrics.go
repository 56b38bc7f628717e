package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lupa_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lupa_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lupa_evaluation_sessions_created_total",
			Help: "Total number of evaluation sessions started from a company link",
		},
	)

	EvaluationsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lupa_evaluations_submitted_total",
			Help: "Total number of evaluation submissions by outcome",
		},
		[]string{"result"},
	)

	WebhookRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lupa_webhook_requests_total",
			Help: "Total number of webhook calls by hook and outcome",
		},
		[]string{"hook", "result"},
	)
)

// Submission outcomes.
const (
	ResultSuccess    = "success"
	ResultValidation = "validation"
	ResultSession    = "session"
	ResultError      = "error"
)

// Webhook outcomes besides ResultSuccess.
const (
	ResultUpstream    = "upstream_error"
	ResultUnavailable = "unavailable"
)
