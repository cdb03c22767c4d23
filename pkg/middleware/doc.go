// Package middleware provides cross-cutting middleware for the rendering
// engine's event dispatch (pkg/renderer.Renderer.Use).
//
// This package includes:
//   - OpenTelemetry distributed tracing around event dispatch
//   - Prometheus metrics for event throughput, duration, and errors
//
// # OpenTelemetry Middleware
//
// OpenTelemetry wraps every delivered layout-event in a span, recording
// the event target, duration, and any resulting error.
//
//	r := renderer.New(l, 0)
//	r.Use(middleware.OpenTelemetry())
//
// Configure with options:
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithEventFilter(func(target string) bool {
//	        return target != ""
//	    }),
//	)
//
// # Prometheus Metrics
//
// Prometheus collects metrics about event dispatch:
//   - layout_events_total: Total events processed, by status
//   - layout_event_duration_seconds: Event processing duration histogram
//   - layout_event_errors_total: Total event errors, by target
//
//	r.Use(middleware.Prometheus())
//
// Then expose metrics on a separate port:
//
//	http.Handle("/metrics", promhttp.Handler())
//	go http.ListenAndServe(":9090", nil)
package middleware
