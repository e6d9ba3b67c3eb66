// Package telemetry traces the Bagels server with OpenTelemetry.
//
// Spans leave the process only when an OTLP endpoint is configured through
// the usual OTEL_EXPORTER_OTLP_* variables. Otherwise nothing is installed
// and the global no-op provider drops them.
package telemetry

import (
	"context"
	"net/http"
	"os"
	"runtime"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/robalobadob/bagels/internal/game"
)

const serviceName = "bagels"

// Span attribute keys for game spans.
const (
	AttrGameID  = attribute.Key("bagels.game.id")
	AttrState   = attribute.Key("bagels.game.state")
	AttrGuesses = attribute.Key("bagels.game.guesses")
	AttrExact   = attribute.Key("bagels.guess.exact")
	AttrPresent = attribute.Key("bagels.guess.present")
	AttrDaily   = attribute.Key("bagels.daily.date")
)

// Enabled reports whether an OTLP endpoint is configured.
func Enabled() bool {
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" ||
		os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") != ""
}

// Setup installs a batching OTLP/HTTP tracer provider tagged with version
// and returns its shutdown func. When Enabled is false it installs nothing
// and shutdown does nothing.
func Setup(ctx context.Context, version string) (shutdown func(context.Context) error, err error) {
	if !Enabled() {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}
	host, _ := os.Hostname()
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version),
			attribute.String("host.name", host),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

// Tracer returns the tracer for one package of the server.
func Tracer(component string) trace.Tracer {
	return otel.Tracer(serviceName + "/" + component)
}

// GuessAttributes describes one scored guess.
func GuessAttributes(gameID string, s game.Score, state string, guesses int) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrGameID.String(gameID),
		AttrExact.Int(s.Exact),
		AttrPresent.Int(s.Present),
		AttrState.String(state),
		AttrGuesses.Int(guesses),
	}
}

// Middleware starts a server span per request, continuing any trace context
// the caller sent. Once routing is done the span is renamed to the chi route
// pattern, so "/game/{id}" is one span name rather than one per game.
func Middleware(tracer trace.Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if rc := chi.RouteContext(ctx); rc != nil {
				if pattern := rc.RoutePattern(); pattern != "" {
					span.SetName(r.Method + " " + pattern)
				}
			}
			if status := ww.Status(); status != 0 {
				span.SetAttributes(attribute.Int("http.response.status_code", status))
				if status >= http.StatusInternalServerError {
					span.SetStatus(codes.Error, http.StatusText(status))
				}
			}
		})
	}
}
