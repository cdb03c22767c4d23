package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/loomkit/loom/pkg/renderer"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// defaultTracerName is used when OTelConfig.TracerName is unset.
const defaultTracerName = "loom"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "loom").
	TracerName string

	// Filter determines which events are traced. Return true to trace the
	// event. If nil, every event is traced.
	Filter func(target string) bool

	// AttributeExtractor adds custom attributes to each event's span.
	AttributeExtractor func(target string, payload any) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) { c.TracerName = name }
}

// WithEventFilter sets a filter function for events.
func WithEventFilter(filter func(target string) bool) OTelOption {
	return func(c *OTelConfig) { c.Filter = filter }
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(target string, payload any) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) { c.AttributeExtractor = extractor }
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{TracerName: defaultTracerName}
}

// OpenTelemetry wraps every delivered layout-event in a span, recording the
// handler's target ID, duration, and any resulting error. Attach it with
// renderer.Renderer.Use.
//
//	r := renderer.New(l, 0)
//	r.Use(middleware.OpenTelemetry(middleware.WithTracerName("myapp")))
//
// The tracer uses the global OpenTelemetry tracer provider; configure it in
// main() before starting the server.
func OpenTelemetry(opts ...OTelOption) renderer.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return func(target string, payload any, next func() error) error {
		if config.Filter != nil && !config.Filter(target) {
			return next()
		}

		attrs := []attribute.KeyValue{attribute.String("loom.event_target", target)}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(target, payload)...)
		}

		_, span := config.tracer.Start(
			context.Background(),
			fmt.Sprintf("loom.deliver %s", target),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(time.Now()),
		)
		defer span.End()

		err := next()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}
