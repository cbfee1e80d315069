package xtrace

import (
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ScopeName 创建 Tracer 使用的 instrumentation scope
const ScopeName = "github.com/omeyang/xotel/pkg/observability/xtrace"

type config struct {
	tracerProvider trace.TracerProvider
	propagator     propagation.TextMapPropagator
}

// Option 中间件与拦截器选项
type Option func(*config)

// WithTracerProvider 指定创建服务端 span 的 TracerProvider
//
// 未指定时只传播 context，不创建 span。
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		if tp != nil {
			c.tracerProvider = tp
		}
	}
}

// WithPropagator 替换默认的 TraceContext + Baggage 传播器
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(c *config) {
		if p != nil {
			c.propagator = p
		}
	}
}

// DefaultPropagator W3C TraceContext + Baggage
func DefaultPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
}

func newConfig(opts []Option) *config {
	c := &config{
		tracerProvider: noop.NewTracerProvider(),
		propagator:     DefaultPropagator(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *config) tracer() trace.Tracer {
	return c.tracerProvider.Tracer(ScopeName)
}
