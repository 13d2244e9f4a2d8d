package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Tracer is the package-level tracer used by StartHandlerSpan. It is a
// no-op tracer until InitTracer is called.
var Tracer = otel.Tracer("abci")

// InitTracer wires an OTLP gRPC exporter into the global trace provider.
// Returns a shutdown function that must be called on server termination.
func InitTracer(serviceName, collectorEndpoint string) (func(context.Context) error, error) {
	ctx := context.Background()

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(collectorEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: build resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	Tracer = tp.Tracer("abci")

	return tp.Shutdown, nil
}

// StartHandlerSpan opens a span around one handler invocation, tagged with
// the connection id and ABCI method name so a trace backend can correlate
// every method call on a connection.
func StartHandlerSpan(ctx context.Context, connID, method string) (context.Context, oteltrace.Span) {
	return Tracer.Start(ctx, "abci.handler/"+method,
		oteltrace.WithAttributes(
			attribute.String("abci.connection_id", connID),
			attribute.String("abci.method", method),
		),
	)
}
