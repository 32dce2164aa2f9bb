// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

// Package metrics provides Prometheus metrics for observability.
// Metrics are organized by domain: HTTP requests and editorial operations
// (lifecycle transitions, reviews, council votes).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "peerline"
)

var (
	// HTTP metrics - track request volume and latency
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Lifecycle metrics - track status transitions through the editorial pipeline
	ArticleTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "articles",
			Name:      "transitions_total",
			Help:      "Total number of article status transitions by from/to status",
		},
		[]string{"from", "to"},
	)

	TransitionRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "articles",
			Name:      "transition_rejections_total",
			Help:      "Total number of rejected transition attempts by error code",
		},
		[]string{"code"},
	)

	IssueTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "issues",
			Name:      "transitions_total",
			Help:      "Total number of issue status transitions by from/to status",
		},
		[]string{"from", "to"},
	)

	// Review metrics - track the assignment protocol
	ReviewAssignmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reviews",
			Name:      "assignments_total",
			Help:      "Total number of reviewer assignments created",
		},
	)

	ReviewsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reviews",
			Name:      "submitted_total",
			Help:      "Total number of submitted reviews by decision",
		},
		[]string{"decision"},
	)

	// Council metrics - track voting and finalization
	VotesCastTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "council",
			Name:      "votes_cast_total",
			Help:      "Total number of council votes cast by value (recasts included)",
		},
		[]string{"value"},
	)

	FinalizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "council",
			Name:      "finalizations_total",
			Help:      "Total number of finalized decisions by decision value",
		},
		[]string{"decision"},
	)
)
