package xotel

import (
	"go.opentelemetry.io/otel/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/omeyang/xotel/pkg/observability/xlog"
)

type options struct {
	exporter      sdktrace.SpanExporter
	meterProvider metric.MeterProvider
	logger        xlog.Logger
	global        bool
}

// Option NewTracerProvider 的可选参数
type Option func(*options)

// WithSpanExporter 使用指定导出器替代配置中的导出器
//
// 导出器以同步方式注册（sdktrace.WithSyncer），span 结束即导出。
func WithSpanExporter(exp sdktrace.SpanExporter) Option {
	return func(o *options) { o.exporter = exp }
}

// WithMeterProvider 记录采样决策指标
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// WithLogger 设置 Provider 的日志，默认 xlog.Default()
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithGlobal 安装为全局 TracerProvider，并设置 W3C TraceContext + Baggage 传播器
func WithGlobal(global bool) Option {
	return func(o *options) { o.global = global }
}
