package xbaggage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// recordingSpan 记录 SetAttributes 调用的 span 桩
//
// 嵌入 ReadWriteSpan 接口以满足 SDK 的未导出方法，未覆盖的方法调用会 panic。
type recordingSpan struct {
	sdktrace.ReadWriteSpan

	mu    sync.Mutex
	calls [][]attribute.KeyValue
}

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, kv)
}

func (s *recordingSpan) attrs() []attribute.KeyValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []attribute.KeyValue
	for _, c := range s.calls {
		all = append(all, c...)
	}
	return all
}

func contextWithBaggage(t testing.TB, kv ...string) context.Context {
	t.Helper()
	members := make([]baggage.Member, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m, err := baggage.NewMemberRaw(kv[i], kv[i+1])
		require.NoError(t, err)
		members = append(members, m)
	}
	b, err := baggage.New(members...)
	require.NoError(t, err)
	return baggage.ContextWithBaggage(context.Background(), b)
}

func newTestTracerProvider() (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewSpanProcessor()),
		sdktrace.WithSyncer(exporter),
	)
	return tp, exporter
}

func TestOnStart_AddsBaggageAsAttribute(t *testing.T) {
	p := NewSpanProcessor()
	span := &recordingSpan{}

	p.OnStart(contextWithBaggage(t, "key", "value"), span)

	require.Len(t, span.calls, 1)
	assert.Equal(t, []attribute.KeyValue{attribute.String("key", "value")}, span.calls[0])
}

func TestOnStart_MultipleMembers(t *testing.T) {
	p := NewSpanProcessor()
	span := &recordingSpan{}

	p.OnStart(contextWithBaggage(t,
		"tenant_id", "t-42",
		"user.tier", "gold",
		"note", "a b",
	), span)

	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.String("tenant_id", "t-42"),
		attribute.String("user.tier", "gold"),
		attribute.String("note", "a b"),
	}, span.attrs())
}

func TestOnStart_NoBaggage(t *testing.T) {
	p := NewSpanProcessor()
	span := &recordingSpan{}

	p.OnStart(context.Background(), span)

	assert.Empty(t, span.calls)
}

func TestOnStart_DoesNotMutateBaggage(t *testing.T) {
	p := NewSpanProcessor()
	ctx := contextWithBaggage(t, "key", "value")
	before := baggage.FromContext(ctx).String()

	p.OnStart(ctx, &recordingSpan{})

	assert.Equal(t, before, baggage.FromContext(ctx).String())
}

func TestLifecycle_NoOps(t *testing.T) {
	p := NewSpanProcessor()
	ctx := context.Background()

	assert.NotPanics(t, func() { p.OnEnd(nil) })
	assert.NoError(t, p.ForceFlush(ctx))
	assert.NoError(t, p.Shutdown(ctx))
	// Shutdown 后仍可继续使用
	span := &recordingSpan{}
	p.OnStart(contextWithBaggage(t, "key", "value"), span)
	assert.Len(t, span.calls, 1)
}

func TestSpanProcessor_WithTracerProvider(t *testing.T) {
	tp, exporter := newTestTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx := contextWithBaggage(t, "key", "value")
	_, span := tp.Tracer("test").Start(ctx, "op")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	count := 0
	for _, kv := range spans[0].Attributes {
		if kv.Key == "key" {
			count++
			assert.Equal(t, "value", kv.Value.AsString())
		}
	}
	assert.Equal(t, 1, count)
}

func TestSpanProcessor_ChildSpanInheritsBaggage(t *testing.T) {
	tp, exporter := newTestTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := tp.Tracer("test")
	ctx, parent := tracer.Start(contextWithBaggage(t, "tenant_id", "t-1"), "parent")
	_, child := tracer.Start(ctx, "child")
	child.End()
	parent.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	for _, s := range spans {
		assert.Contains(t, s.Attributes, attribute.String("tenant_id", "t-1"), s.Name)
	}
}

func TestOnStart_Concurrent(t *testing.T) {
	p := NewSpanProcessor()
	ctx := contextWithBaggage(t, "key", "value")

	spans := make([]*recordingSpan, 32)
	var wg sync.WaitGroup
	for i := range spans {
		spans[i] = &recordingSpan{}
		wg.Add(1)
		go func(s *recordingSpan) {
			defer wg.Done()
			p.OnStart(ctx, s)
		}(spans[i])
	}
	wg.Wait()

	for _, s := range spans {
		assert.Equal(t, []attribute.KeyValue{attribute.String("key", "value")}, s.attrs())
	}
}
