package xbaggage

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanProcessor 在 span 启动时把 context 中的 baggage 写为 span 属性
type SpanProcessor struct{}

// NewSpanProcessor 创建 SpanProcessor
func NewSpanProcessor() *SpanProcessor {
	return &SpanProcessor{}
}

// OnStart 将 ctx 中全部 baggage 成员以字符串属性写入 span
//
// span 不能为 nil，违反约定属于调用方编程错误。
func (p *SpanProcessor) OnStart(ctx context.Context, span sdktrace.ReadWriteSpan) {
	members := baggage.FromContext(ctx).Members()
	if len(members) == 0 {
		return
	}
	attrs := make([]attribute.KeyValue, 0, len(members))
	for _, m := range members {
		attrs = append(attrs, attribute.String(m.Key(), m.Value()))
	}
	span.SetAttributes(attrs...)
}

// OnEnd 空操作
func (p *SpanProcessor) OnEnd(sdktrace.ReadOnlySpan) {}

// Shutdown 空操作
func (p *SpanProcessor) Shutdown(context.Context) error { return nil }

// ForceFlush 空操作
func (p *SpanProcessor) ForceFlush(context.Context) error { return nil }

// 确保实现了接口
var _ sdktrace.SpanProcessor = (*SpanProcessor)(nil)
