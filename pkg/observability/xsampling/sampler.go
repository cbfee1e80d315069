package xsampling

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// AttrSampleRate 采样器写入结果的属性 key，值为 int64 类型的采样率
//
// 这是对外稳定的约定，下游工具可依赖它还原采样前的链路数量。
const AttrSampleRate = "SampleRate"

// 决策原因，用于指标维度
const (
	reasonRateZero = "rate_zero" // rate == 0，直接丢弃
	reasonGated    = "gated"     // hash % rate != 0，被本层丢弃
	reasonInner    = "inner"     // 通过本层，由内层采样器决定
)

// DeterministicSampler 基于 trace_id 哈希的确定性采样器
//
// 对于相同的 trace_id、相同的 rate 和相同行为的内层采样器，总是产生相同的采样决策。
// 构造后所有字段只读，可并发使用。
type DeterministicSampler struct {
	inner   sdktrace.Sampler
	rate    int
	hasher  Hasher
	metrics *Metrics
	desc    string
}

// NewDeterministicSampler 创建确定性采样器
//
// inner 为被包装的内层采样器，不能为 nil（返回 ErrNilSampler）。
// rate 表示每 rate 条链路采样 1 条：
//   - rate=0: 不采样任何链路
//   - rate=1: 全部交给内层采样器决定
//   - rate<0: 返回 ErrNegativeRate，不做截断
//
// 示例：
//
//	sampler, err := xsampling.NewDeterministicSampler(sdktrace.AlwaysSample(), 10)
//	if err != nil {
//	    return err
//	}
//	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sampler))
func NewDeterministicSampler(inner sdktrace.Sampler, rate int, opts ...Option) (*DeterministicSampler, error) {
	if inner == nil {
		return nil, ErrNilSampler
	}
	if rate < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeRate, rate)
	}
	s := &DeterministicSampler{
		inner:  inner,
		rate:   rate,
		hasher: TraceIDHash,
	}
	for _, opt := range opts {
		if opt == nil {
			return nil, ErrNilOption
		}
		opt(s)
	}
	s.desc = fmt.Sprintf("DeterministicSampler{%s=%d,%s}", AttrSampleRate, rate, inner.Description())
	return s, nil
}

// MustNewDeterministicSampler 与 NewDeterministicSampler 相同，但失败时 panic
//
// 适用于程序启动时的固定配置。
func MustNewDeterministicSampler(inner sdktrace.Sampler, rate int, opts ...Option) *DeterministicSampler {
	s, err := NewDeterministicSampler(inner, rate, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// ShouldSample 实现 sdktrace.Sampler
func (s *DeterministicSampler) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	if s.rate == 0 {
		return s.drop(p, reasonRateZero)
	}
	if s.rate > 1 && s.hasher(p.TraceID)%uint64(s.rate) != 0 {
		return s.drop(p, reasonGated)
	}

	res := s.inner.ShouldSample(p)
	res.Attributes = s.mergeAttributes(res.Attributes)
	s.metrics.record(p.ParentContext, res.Decision, reasonInner)
	return res
}

// Description 实现 sdktrace.Sampler
func (s *DeterministicSampler) Description() string {
	return s.desc
}

// Rate 返回采样率
func (s *DeterministicSampler) Rate() int {
	return s.rate
}

// Inner 返回被包装的内层采样器
func (s *DeterministicSampler) Inner() sdktrace.Sampler {
	return s.inner
}

// drop 生成本层直接丢弃的结果，沿用父 span 的 tracestate
func (s *DeterministicSampler) drop(p sdktrace.SamplingParameters, reason string) sdktrace.SamplingResult {
	s.metrics.record(p.ParentContext, sdktrace.Drop, reason)
	return sdktrace.SamplingResult{
		Decision:   sdktrace.Drop,
		Attributes: []attribute.KeyValue{s.rateAttr()},
		Tracestate: parentTraceState(p.ParentContext),
	}
}

// parentTraceState 取父 span 的 tracestate，ctx 为 nil 时返回空值
func parentTraceState(ctx context.Context) trace.TraceState {
	if ctx == nil {
		return trace.TraceState{}
	}
	return trace.SpanContextFromContext(ctx).TraceState()
}

// mergeAttributes 在内层属性之后追加 SampleRate
//
// 内层已有的 SampleRate（如嵌套 DeterministicSampler）会被本层的值替换，
// 保证导出的 span 上只有一个 SampleRate。其余属性保持原样与原顺序。
// 返回新切片，不修改内层结果的底层数组。
func (s *DeterministicSampler) mergeAttributes(inner []attribute.KeyValue) []attribute.KeyValue {
	merged := make([]attribute.KeyValue, 0, len(inner)+1)
	for _, kv := range inner {
		if kv.Key == AttrSampleRate {
			continue
		}
		merged = append(merged, kv)
	}
	return append(merged, s.rateAttr())
}

func (s *DeterministicSampler) rateAttr() attribute.KeyValue {
	return attribute.Int64(AttrSampleRate, int64(s.rate))
}

// 确保实现了接口
var _ sdktrace.Sampler = (*DeterministicSampler)(nil)
