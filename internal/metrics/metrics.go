package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes
const (
	SubmissionSuccess  = "success"
	SubmissionError    = "error"
	SubmissionInvalid  = "invalid"
	SubmissionInFlight = "in_flight"
)

type Collector struct {
	reg *prometheus.Registry

	BackendRequests *prometheus.CounterVec   // endpoint, outcome
	BackendDuration *prometheus.HistogramVec // endpoint
	Submissions     *prometheus.CounterVec   // outcome
	StaleListings   prometheus.Counter
	ActiveWorkspace prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec // method, route, status
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		BackendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_admin_backend_requests_total",
			Help: "Calls to the scheduling backend by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		BackendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "schedule_admin_backend_request_duration_seconds",
			Help:    "Latency of calls to the scheduling backend.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		}, []string{"endpoint"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_admin_submissions_total",
			Help: "Schedule form submissions by outcome.",
		}, []string{"outcome"}),
		StaleListings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_admin_stale_listings_total",
			Help: "Listing responses discarded because a newer request was issued.",
		}),
		ActiveWorkspace: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schedule_admin_active_workspaces",
			Help: "Staff sessions holding a draft or listing workspace.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_admin_http_requests_total",
			Help: "Portal HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		c.BackendRequests, c.BackendDuration,
		c.Submissions, c.StaleListings, c.ActiveWorkspace,
		c.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// ObserveBackend records one backend call; its signature matches scheduleapi.Observer
func (c *Collector) ObserveBackend(endpoint, outcome string, elapsed time.Duration) {
	c.BackendRequests.WithLabelValues(endpoint, outcome).Inc()
	c.BackendDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveSubmission counts one submission attempt
func (c *Collector) ObserveSubmission(outcome string) {
	c.Submissions.WithLabelValues(outcome).Inc()
}

// ObserveStaleListing counts one discarded listing response
func (c *Collector) ObserveStaleListing() {
	c.StaleListings.Inc()
}

// WorkspaceOpened and WorkspaceClosed track the active-workspace gauge
func (c *Collector) WorkspaceOpened() { c.ActiveWorkspace.Inc() }

func (c *Collector) WorkspaceClosed() { c.ActiveWorkspace.Dec() }
