package xotel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/omeyang/xotel/pkg/observability/xlog"
	"github.com/omeyang/xotel/pkg/observability/xsampling"
	"github.com/omeyang/xotel/pkg/observability/xtrace"
)

func testConfig(rate int) *Config {
	cfg := DefaultConfig()
	cfg.ServiceName = "checkout"
	cfg.Sampling = SamplingConfig{SampleRate: rate, Inner: SamplerAlwaysOn}
	return cfg
}

func testLogger(t *testing.T) (xlog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, _, err := xlog.New().SetOutput(&buf).Build()
	require.NoError(t, err)
	return logger, &buf
}

func withTenant(t *testing.T, ctx context.Context, tenant string) context.Context {
	t.Helper()
	m, err := baggage.NewMemberRaw("tenant_id", tenant)
	require.NoError(t, err)
	b, err := baggage.New(m)
	require.NoError(t, err)
	return baggage.ContextWithBaggage(ctx, b)
}

func newTestProvider(t *testing.T, cfg *Config, opts ...Option) (*Provider, *tracetest.InMemoryExporter) {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	logger, _ := testLogger(t)
	opts = append([]Option{WithSpanExporter(exp), WithLogger(logger)}, opts...)
	p, err := NewTracerProvider(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p, exp
}

func attrMap(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestNewTracerProvider_ExportsSampledSpan(t *testing.T) {
	p, exp := newTestProvider(t, testConfig(1))

	ctx := withTenant(t, context.Background(), "acme")
	_, span := p.Tracer("test").Start(ctx, "checkout")
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)

	attrs := attrMap(spans[0].Attributes)
	assert.Equal(t, int64(1), attrs[xsampling.AttrSampleRate].AsInt64())
	assert.Equal(t, "acme", attrs["tenant_id"].AsString())

	svc, ok := spans[0].Resource.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "checkout", svc.AsString())
}

func TestNewTracerProvider_BaggageDisabled(t *testing.T) {
	cfg := testConfig(1)
	cfg.Baggage.Enabled = false
	p, exp := newTestProvider(t, cfg)

	_, span := p.Tracer("test").Start(withTenant(t, context.Background(), "acme"), "op")
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	_, ok := attrMap(spans[0].Attributes)["tenant_id"]
	assert.False(t, ok)
}

func TestNewTracerProvider_RateZeroExportsNothing(t *testing.T) {
	p, exp := newTestProvider(t, testConfig(0))

	for range 10 {
		_, span := p.Tracer("test").Start(context.Background(), "op")
		assert.False(t, span.SpanContext().IsSampled())
		span.End()
	}
	assert.Empty(t, exp.GetSpans())
}

func TestNewTracerProvider_DecisionMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	p, _ := newTestProvider(t, testConfig(0), WithMeterProvider(mp))
	for range 3 {
		_, span := p.Tracer("test").Start(context.Background(), "op")
		span.End()
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	dp := sum.DataPoints[0]
	assert.Equal(t, int64(3), dp.Value)
	reason, _ := dp.Attributes.Value("reason")
	assert.Equal(t, "rate_zero", reason.AsString())
}

func TestNewTracerProvider_PropagatesAcrossProcesses(t *testing.T) {
	upstream, _ := newTestProvider(t, testConfig(1))
	downstream, exp := newTestProvider(t, testConfig(1))
	prop := NewPropagator()

	ctx := withTenant(t, context.Background(), "acme")
	ctx, parent := upstream.Tracer("up").Start(ctx, "call")
	carrier := propagation.MapCarrier{}
	prop.Inject(ctx, carrier)
	parent.End()

	assert.Contains(t, carrier, "traceparent")
	assert.Contains(t, carrier, "baggage")

	remote := prop.Extract(context.Background(), carrier)
	_, child := downstream.Tracer("down").Start(remote, "handle")
	child.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, parent.SpanContext().TraceID(), spans[0].SpanContext.TraceID())
	assert.Equal(t, "acme", attrMap(spans[0].Attributes)["tenant_id"].AsString())
}

func TestNewTracerProvider_Errors(t *testing.T) {
	_, err := NewTracerProvider(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilConfig)

	cfg := testConfig(-1)
	_, err = NewTracerProvider(context.Background(), cfg)
	assert.ErrorIs(t, err, xsampling.ErrNegativeRate)
}

func TestProvider_ShutdownIdempotent(t *testing.T) {
	p, exp := newTestProvider(t, testConfig(1))

	require.NoError(t, p.ForceFlush(context.Background()))
	require.NoError(t, p.Shutdown(context.Background()))
	require.NoError(t, p.Shutdown(context.Background()))

	_, span := p.Tracer("test").Start(context.Background(), "after")
	span.End()
	assert.Empty(t, exp.GetSpans())
}

func TestProvider_Accessors(t *testing.T) {
	p, _ := newTestProvider(t, testConfig(5))
	assert.Equal(t, 5, p.Sampler().Rate())
	assert.NotNil(t, p.TracerProvider())
}

func TestNewTracerProvider_LogsStartup(t *testing.T) {
	logger, buf := testLogger(t)
	p, err := NewTracerProvider(context.Background(), testConfig(7),
		WithSpanExporter(tracetest.NewInMemoryExporter()), WithLogger(logger), WithLogger(nil))
	require.NoError(t, err)
	require.NoError(t, p.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "tracer provider started")
	assert.Contains(t, out, "SampleRate=7")
	assert.Contains(t, out, "exporter=custom")
	assert.Contains(t, out, "tracer provider stopped")
}

func TestNewTracerProvider_OTLP(t *testing.T) {
	cfg := testConfig(1)
	cfg.Exporter = ExporterConfig{
		Type:     ExporterOTLP,
		Endpoint: "127.0.0.1:4317",
		Insecure: true,
		Timeout:  200 * time.Millisecond,
	}
	logger, buf := testLogger(t)
	p, err := NewTracerProvider(context.Background(), cfg, WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "exporter=otlp")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))
}

func TestNewTracerProvider_Global(t *testing.T) {
	t.Cleanup(func() {
		otel.SetTracerProvider(noop.NewTracerProvider())
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())
	})

	p, _ := newTestProvider(t, testConfig(1), WithGlobal(true))

	assert.Same(t, p.TracerProvider(), otel.GetTracerProvider())
	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}

func TestNewPropagator_MatchesMiddleware(t *testing.T) {
	assert.ElementsMatch(t, xtrace.DefaultPropagator().Fields(), NewPropagator().Fields())
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, NewPropagator().Fields())
}
