package middleware

import (
	"github.com/messenger-dev/messenger-web/pkg/router"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "messenger-web"

// OTelConfig configures the OpenTelemetry guard.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "messenger-web").
	TracerName string

	// TracerProvider supplies the tracer. Default: the global provider.
	TracerProvider trace.TracerProvider

	// Filter determines which navigations to trace.
	// If nil, all navigations are traced.
	Filter func(nav *router.Navigation) bool

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(nav *router.Navigation) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry guard.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		if name != "" {
			c.TracerName = name
		}
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithNavigationFilter sets a filter function for navigations.
func WithNavigationFilter(filter func(nav *router.Navigation) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(nav *router.Navigation) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry returns a guard that traces every navigation.
//
// The span is named "navigate <route>" and carries the path, route, view,
// navigation ID and kind. It becomes the navigation's context, so work the
// navigation starts (such as a deferred view load) is parented to it.
func OpenTelemetry(opts ...OTelOption) router.Guard {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return router.GuardFunc(func(nav *router.Navigation, next func() error) error {
		if config.Filter != nil && !config.Filter(nav) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("messenger.path", nav.Path),
			attribute.String("messenger.route", nav.To.Label()),
			attribute.String("messenger.view", nav.To.View.ID()),
			attribute.String("messenger.nav_id", nav.ID),
			attribute.String("messenger.nav_kind", nav.Kind.String()),
		}
		if nav.From != nil {
			attrs = append(attrs, attribute.String("messenger.from", nav.From.Label()))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(nav)...)
		}

		ctx, span := tracer.Start(nav.Context(), SpanName(nav),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		nav.SetContext(ctx)

		err := next()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.String("messenger.title", nav.Title))
			span.SetStatus(codes.Ok, "")
		}
		return err
	})
}

// SpanName returns the span name used for nav.
func SpanName(nav *router.Navigation) string {
	return "navigate " + nav.To.Label()
}

// SpanFromNavigation returns the span stored on nav, or a non-recording span
// when it is not traced.
func SpanFromNavigation(nav *router.Navigation) trace.Span {
	return trace.SpanFromContext(nav.Context())
}
