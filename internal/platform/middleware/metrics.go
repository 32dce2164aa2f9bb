// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/peerline/peerline/internal/platform/metrics"
)

// Metrics records Prometheus metrics for every HTTP request.
// It tracks:
//   - Total requests by method, route pattern, and status code
//   - Request duration histogram
//   - Requests currently in flight
//
// The chi route pattern ("/api/v1/articles/{id}") is used as the path label
// instead of the raw URL so that cardinality stays bounded.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			// Skip the metrics endpoint to avoid self-referential metrics
			if request.URL.Path == "/metrics" {
				next.ServeHTTP(writer, request)
				return
			}

			start := time.Now()

			// Track in-flight requests
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}
			next.ServeHTTP(wrappedWriter, request)

			// Record metrics after the request completes
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrappedWriter.status)

			path := "unmatched"
			if routeCtx := chi.RouteContext(request.Context()); routeCtx != nil {
				if pattern := routeCtx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			metrics.HTTPRequestsTotal.WithLabelValues(request.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(request.Method, path).Observe(duration)
		})
	}
}
