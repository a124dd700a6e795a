package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultExportInterval = 60 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// Config selects the signals to export. All of them share the collector
// endpoint; profiles go to Pyroscope.
type Config struct {
	ServiceName       string
	CollectorEndpoint string
	Insecure          bool

	TracesEnabled  bool
	SamplingRatio  float64
	MetricsEnabled bool
	ExportInterval time.Duration
	LogsEnabled    bool

	ProfilingEnabled   bool
	ProfilingServerURL string
}

// Telemetry owns the OpenTelemetry providers and the profiler. Disabled
// signals fall back to the global no-op implementations.
type Telemetry struct {
	traces   *sdktrace.TracerProvider
	metrics  *sdkmetric.MeterProvider
	logs     *sdklog.LoggerProvider
	profiler *pyroscope.Profiler
	logger   *zap.Logger
}

// Setup starts every enabled pipeline and installs it globally. On error the
// pipelines already started are shut down.
func Setup(ctx context.Context, cfg Config, logger *zap.Logger) (*Telemetry, error) {
	t := &Telemetry{logger: logger}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	steps := []struct {
		enabled bool
		start   func() error
	}{
		{cfg.TracesEnabled, func() error { return t.startTraces(ctx, cfg, res) }},
		{cfg.MetricsEnabled, func() error { return t.startMetrics(ctx, cfg, res) }},
		{cfg.LogsEnabled, func() error { return t.startLogs(ctx, cfg, res) }},
		{cfg.ProfilingEnabled, func() error { return t.startProfiler(cfg) }},
	}
	for _, step := range steps {
		if !step.enabled {
			continue
		}
		if err := step.start(); err != nil {
			_ = t.Shutdown(ctx)
			return nil, err
		}
	}

	// span ids on CPU samples
	if t.traces != nil && t.profiler != nil {
		otel.SetTracerProvider(otelpyroscope.NewTracerProvider(t.traces))
	}

	logger.Info("Telemetry initialized",
		zap.Bool("traces", t.traces != nil),
		zap.Bool("metrics", t.metrics != nil),
		zap.Bool("logs", t.logs != nil),
		zap.Bool("profiling", t.profiler != nil),
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
	)
	return t, nil
}

func (t *Telemetry) startTraces(ctx context.Context, cfg Config, res *resource.Resource) error {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create OTLP trace exporter: %w", err)
	}

	t.traces = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SamplingRatio)),
	)
	otel.SetTracerProvider(t.traces)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return nil
}

func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1.0:
		return sdktrace.AlwaysSample()
	case ratio <= 0.0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

func (t *Telemetry) startMetrics(ctx context.Context, cfg Config, res *resource.Resource) error {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create OTLP metric exporter: %w", err)
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = defaultExportInterval
	}
	t.metrics = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(t.metrics)
	return nil
}

func (t *Telemetry) startLogs(ctx context.Context, cfg Config, res *resource.Resource) error {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create OTLP log exporter: %w", err)
	}

	t.logs = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(t.logs)
	return nil
}

func (t *Telemetry) startProfiler(cfg Config) error {
	if cfg.ProfilingServerURL == "" {
		return errors.New("profiling server url is required when profiling is enabled")
	}

	tags := map[string]string{}
	if hostname, err := os.Hostname(); err == nil {
		tags["hostname"] = hostname
	}
	p, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ServiceName,
		ServerAddress:   cfg.ProfilingServerURL,
		Logger:          t.logger.Named("pyroscope").Sugar(),
		Tags:            tags,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return fmt.Errorf("start pyroscope profiler: %w", err)
	}
	t.profiler = p
	return nil
}

// MetricsEnabled reports whether metrics are exported
func (t *Telemetry) MetricsEnabled() bool { return t != nil && t.metrics != nil }

// ProfilingEnabled reports whether the profiler is running
func (t *Telemetry) ProfilingEnabled() bool { return t != nil && t.profiler != nil }

// Meter returns a named meter, a no-op one when metrics are disabled
func (t *Telemetry) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if !t.MetricsEnabled() {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return t.metrics.Meter(name, opts...)
}

// Logger tees base into the OTLP log pipeline. Entries below minLevel stay
// local. Without log export base is returned as is.
func (t *Telemetry) Logger(base *zap.Logger, serviceName string, minLevel zapcore.Level) *zap.Logger {
	if t == nil || t.logs == nil {
		return base
	}
	otelCore := otelzap.NewCore(serviceName, otelzap.WithLoggerProvider(t.logs))
	return zap.New(
		zapcore.NewTee(base.Core(), &levelFilterCore{Core: otelCore, minLevel: minLevel}),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// Shutdown stops the profiler and flushes every provider
func (t *Telemetry) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error
	if t.profiler != nil {
		if err := t.profiler.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop profiler: %w", err))
		}
		t.profiler = nil
	}
	if t.metrics != nil {
		if err := t.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
		}
	}
	if t.traces != nil {
		if err := t.traces.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
	}
	if t.logs != nil {
		if err := t.logs.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown logger provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

// levelFilterCore drops entries below minLevel; the otelzap core has no level
// of its own
type levelFilterCore struct {
	zapcore.Core
	minLevel zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), minLevel: c.minLevel}
}
