package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/zatekoja/screeningscheduler/backend"

// Metrics holds all application metrics
type Metrics struct {
	RequestCount           metric.Int64Counter
	RequestDuration        metric.Float64Histogram
	ExaminationsRequested  metric.Int64Counter
	ExaminationsUnassigned metric.Int64Counter
	UnknownExaminations    metric.Int64Counter
	AlternativesReturned   metric.Int64Histogram
	SlotsBooked            metric.Int64Counter
	CacheHitCount          metric.Int64Counter
	CacheMissCount         metric.Int64Counter
}

// Setup initializes OpenTelemetry tracing, metrics and runtime instrumentation
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, errors.Join(err, tracerProvider.Shutdown(ctx))
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(15*time.Second))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
		return nil, errors.Join(err, meterProvider.Shutdown(ctx), tracerProvider.Shutdown(ctx))
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(meterProvider.Shutdown(ctx), tracerProvider.Shutdown(ctx))
	}

	return shutdown, nil
}

// InitMetrics initializes application metrics on the global meter provider
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)
	m := &Metrics{}
	var err error

	if m.RequestCount, err = meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.RequestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if m.ExaminationsRequested, err = meter.Int64Counter(
		"scheduling.examinations.requested",
		metric.WithDescription("Examinations entering an assignment pass"),
	); err != nil {
		return nil, err
	}

	if m.ExaminationsUnassigned, err = meter.Int64Counter(
		"scheduling.examinations.unscheduled",
		metric.WithDescription("Examinations that received no candidate slot"),
	); err != nil {
		return nil, err
	}

	if m.UnknownExaminations, err = meter.Int64Counter(
		"scheduling.examination_types.unknown",
		metric.WithDescription("Examination keys missing from the type directory"),
	); err != nil {
		return nil, err
	}

	if m.AlternativesReturned, err = meter.Int64Histogram(
		"scheduling.alternatives.returned",
		metric.WithDescription("Alternative slots offered per rebooking request"),
	); err != nil {
		return nil, err
	}

	if m.SlotsBooked, err = meter.Int64Counter(
		"scheduling.slots.booked",
		metric.WithDescription("Slots committed to a booking"),
	); err != nil {
		return nil, err
	}

	if m.CacheHitCount, err = meter.Int64Counter(
		"cache.hit.count",
		metric.WithDescription("Number of cache hits"),
	); err != nil {
		return nil, err
	}

	if m.CacheMissCount, err = meter.Int64Counter(
		"cache.miss.count",
		metric.WithDescription("Number of cache misses"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, spanName)
}

// RecordError records an error in the span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordRequestMetric records an HTTP request
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, route string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	)

	metrics.RequestCount.Add(ctx, 1, attrs)
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordSchedule records the outcome of one assignment pass
func RecordSchedule(ctx context.Context, metrics *Metrics, requested, unscheduled, unknown int) {
	if metrics == nil {
		return
	}
	metrics.ExaminationsRequested.Add(ctx, int64(requested))
	metrics.ExaminationsUnassigned.Add(ctx, int64(unscheduled))
	metrics.UnknownExaminations.Add(ctx, int64(unknown))
}

// RecordAlternatives records the size of a rebooking candidate list
func RecordAlternatives(ctx context.Context, metrics *Metrics, examinationKey string, count int) {
	if metrics == nil {
		return
	}
	metrics.AlternativesReturned.Record(ctx, int64(count), metric.WithAttributes(
		attribute.String("examination.key", examinationKey),
	))
}

// RecordBooking records a committed slot
func RecordBooking(ctx context.Context, metrics *Metrics, examinationTypeID string) {
	if metrics == nil {
		return
	}
	metrics.SlotsBooked.Add(ctx, 1, metric.WithAttributes(
		attribute.String("examination_type.id", examinationTypeID),
	))
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(ctx context.Context, metrics *Metrics, cacheName string, hit bool) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("cache.name", cacheName))
	if hit {
		metrics.CacheHitCount.Add(ctx, 1, attrs)
		return
	}
	metrics.CacheMissCount.Add(ctx, 1, attrs)
}
