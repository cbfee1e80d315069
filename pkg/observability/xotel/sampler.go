package xotel

import (
	"fmt"
	"strings"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/omeyang/xotel/pkg/observability/xsampling"
)

// 内层采样器名称，与 OTEL_TRACES_SAMPLER 的取值一致
const (
	SamplerAlwaysOn                = "always_on"
	SamplerAlwaysOff               = "always_off"
	SamplerTraceIDRatio            = "traceidratio"
	SamplerParentBasedAlwaysOn     = "parentbased_always_on"
	SamplerParentBasedAlwaysOff    = "parentbased_always_off"
	SamplerParentBasedTraceIDRatio = "parentbased_traceidratio"
)

var innerSamplers = map[string]func(ratio float64) sdktrace.Sampler{
	SamplerAlwaysOn:     func(float64) sdktrace.Sampler { return sdktrace.AlwaysSample() },
	SamplerAlwaysOff:    func(float64) sdktrace.Sampler { return sdktrace.NeverSample() },
	SamplerTraceIDRatio: sdktrace.TraceIDRatioBased,
	SamplerParentBasedAlwaysOn: func(float64) sdktrace.Sampler {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	},
	SamplerParentBasedAlwaysOff: func(float64) sdktrace.Sampler {
		return sdktrace.ParentBased(sdktrace.NeverSample())
	},
	SamplerParentBasedTraceIDRatio: func(r float64) sdktrace.Sampler {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(r))
	},
}

// SamplerNames 返回支持的内层采样器名称
func SamplerNames() []string {
	return []string{
		SamplerAlwaysOn,
		SamplerAlwaysOff,
		SamplerTraceIDRatio,
		SamplerParentBasedAlwaysOn,
		SamplerParentBasedAlwaysOff,
		SamplerParentBasedTraceIDRatio,
	}
}

// normalizeSampler 空名称视为 parentbased_always_on
func normalizeSampler(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return SamplerParentBasedAlwaysOn
	}
	return name
}

func usesRatio(name string) bool {
	return name == SamplerTraceIDRatio || name == SamplerParentBasedTraceIDRatio
}

// NewInnerSampler 按名称创建内层采样器
func NewInnerSampler(name string, ratio float64) (sdktrace.Sampler, error) {
	name = normalizeSampler(name)
	build, ok := innerSamplers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSampler, name)
	}
	if usesRatio(name) && (ratio < 0 || ratio > 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRatio, ratio)
	}
	return build(ratio), nil
}

// NewSampler 按配置创建 DeterministicSampler
func NewSampler(cfg SamplingConfig, opts ...xsampling.Option) (*xsampling.DeterministicSampler, error) {
	inner, err := NewInnerSampler(cfg.Inner, cfg.Ratio)
	if err != nil {
		return nil, err
	}
	return xsampling.NewDeterministicSampler(inner, cfg.SampleRate, opts...)
}
