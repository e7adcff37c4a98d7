// Package telemetry wires OpenTelemetry tracing and metrics for the rest of
// the module. Instruments and spans are always obtained through Meter and
// Tracer rather than the global otel providers directly, so a single Init
// call controls where everything is exported.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

var (
	mu            sync.Mutex
	tracerProv    trace.TracerProvider    = otel.GetTracerProvider()
	meterProv     metric.MeterProvider    = otel.GetMeterProvider()
	shutdownFuncs []func(context.Context) error
)

// Options controls where Init sends spans and metrics.
type Options struct {
	// Writer receives stdout-exported spans and metrics. Defaults to
	// os.Stderr so a crucible round's stdout stays reserved for the lineage
	// cards and synthesis gap report.
	Writer io.Writer
	// Disabled skips exporter setup entirely, leaving the no-op global
	// providers in place — used by tests and by `crucible` invocations that
	// pass --no-telemetry.
	Disabled bool
}

// Init installs stdout-based trace and metric exporters for the process.
// Call once at program startup; safe to call again in tests with Disabled.
func Init(opts Options) (func(context.Context) error, error) {
	mu.Lock()
	defer mu.Unlock()

	if opts.Disabled {
		tracerProv = otel.GetTracerProvider()
		meterProv = otel.GetMeterProvider()
		return func(context.Context) error { return nil }, nil
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithoutTimestamps())
	if err != nil {
		return nil, fmt.Errorf("telemetry: new trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExporter, sdktrace.WithBatchTimeout(time.Second)))

	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("telemetry: new metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(10*time.Second))))

	tracerProv = tp
	meterProv = mp
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	shutdownFuncs = []func(context.Context) error{tp.Shutdown, mp.Shutdown}
	return shutdown, nil
}

func shutdown(ctx context.Context) error {
	mu.Lock()
	fns := shutdownFuncs
	shutdownFuncs = nil
	mu.Unlock()

	var firstErr error
	for _, fn := range fns {
		if err := fn(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Tracer returns a named tracer from the currently installed provider.
func Tracer(name string) trace.Tracer {
	mu.Lock()
	defer mu.Unlock()
	return tracerProv.Tracer(name)
}

// Meter returns a named meter from the currently installed provider.
func Meter(name string) metric.Meter {
	mu.Lock()
	defer mu.Unlock()
	return meterProv.Meter(name)
}
