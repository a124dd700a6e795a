package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func TestStartSpan(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartSpan(context.Background(), "order", "submit", attribute.Int("quantity", 500))
	EndSpan(span, nil)

	_, client := StartClientSpan(context.Background(), "callmebot", "send")
	EndSpan(client, errors.New("status 500"))

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	assert.Equal(t, "order.submit", ended[0].Name())
	assert.Equal(t, trace.SpanKindInternal, ended[0].SpanKind())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)

	assert.Equal(t, "callmebot.send", ended[1].Name())
	assert.Equal(t, trace.SpanKindClient, ended[1].SpanKind())
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Len(t, ended[1].Events(), 1)
}

func TestSetup_AllDisabled(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	tel, err := Setup(ctx, Config{ServiceName: "printfoods-test"}, log)
	require.NoError(t, err)

	assert.False(t, tel.MetricsEnabled())
	assert.False(t, tel.ProfilingEnabled())
	assert.NotNil(t, tel.Meter("x"))
	assert.Same(t, log, tel.Logger(log, "svc", zapcore.InfoLevel))
	assert.NoError(t, tel.Shutdown(ctx))
}

func TestSetup_ProfilingNeedsServer(t *testing.T) {
	_, err := Setup(context.Background(), Config{ProfilingEnabled: true}, zap.NewNop())
	assert.ErrorContains(t, err, "profiling server url")
}

func TestTelemetry_NilIsDisabled(t *testing.T) {
	var tel *Telemetry
	log := zap.NewNop()

	assert.False(t, tel.MetricsEnabled())
	assert.False(t, tel.ProfilingEnabled())
	assert.Same(t, log, tel.Logger(log, "svc", zapcore.InfoLevel))
}

func TestLevelFilterCore(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	filtered := zap.New(&levelFilterCore{Core: core, minLevel: zapcore.WarnLevel})

	filtered.Info("dropped")
	filtered.With(zap.String("k", "v")).Warn("kept")

	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "kept", recorded.All()[0].Message)
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.5).Description(), "TraceIDRatioBased")
}
