package xotel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/omeyang/xotel/pkg/observability/xbaggage"
	"github.com/omeyang/xotel/pkg/observability/xlog"
	"github.com/omeyang/xotel/pkg/observability/xsampling"
	"github.com/omeyang/xotel/pkg/observability/xtrace"
)

const userAgent = "xotel"

// Provider 持有按配置创建的 TracerProvider
type Provider struct {
	tp      *sdktrace.TracerProvider
	sampler *xsampling.DeterministicSampler
	logger  xlog.Logger

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewTracerProvider 按配置创建 TracerProvider
//
// 返回的 Provider 需要调用 Shutdown 释放导出器。
func NewTracerProvider(ctx context.Context, cfg *Config, opts ...Option) (*Provider, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{logger: xlog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	metrics, err := xsampling.NewMetrics(o.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("xotel: create metrics: %w", err)
	}
	sampler, err := NewSampler(cfg.Sampling, xsampling.WithMetrics(metrics))
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("xotel: create resource: %w", err)
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}
	if cfg.Baggage.Enabled {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(xbaggage.NewSpanProcessor()))
	}

	exporterType := strings.ToLower(strings.TrimSpace(cfg.Exporter.Type))
	switch {
	case o.exporter != nil:
		exporterType = "custom"
		tpOpts = append(tpOpts, sdktrace.WithSyncer(o.exporter))
	case exporterType == ExporterOTLP:
		exp, err := newOTLPExporter(ctx, cfg.Exporter)
		if err != nil {
			return nil, err
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exp))
	default:
		exporterType = ExporterNone
	}

	p := &Provider{
		tp:      sdktrace.NewTracerProvider(tpOpts...),
		sampler: sampler,
		logger:  o.logger,
	}
	if o.global {
		p.installGlobal()
	}

	p.logger.Info(ctx, "tracer provider started",
		slog.String("service", cfg.ServiceName),
		slog.String("sampler", sampler.Description()),
		slog.String("exporter", exporterType),
		slog.Bool("baggage", cfg.Baggage.Enabled),
	)
	return p, nil
}

// newOTLPExporter 创建 gRPC OTLP 导出器，连接延迟到首次导出时建立
func newOTLPExporter(ctx context.Context, cfg ExporterConfig) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithDialOption(grpc.WithUserAgent(userAgent)),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(cfg.Timeout))
	}

	exp, err := otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
	if err != nil {
		return nil, fmt.Errorf("xotel: create otlp exporter: %w", err)
	}
	return exp, nil
}

// NewPropagator 返回 W3C TraceContext + Baggage 组合传播器，与 xtrace 中间件的默认值相同
func NewPropagator() propagation.TextMapPropagator {
	return xtrace.DefaultPropagator()
}

func (p *Provider) installGlobal() {
	otel.SetTracerProvider(p.tp)
	otel.SetTextMapPropagator(NewPropagator())
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		p.logger.Warn(context.Background(), "otel internal error", xlog.Err(err))
	}))
}

// Tracer 返回指定名称的 Tracer
func (p *Provider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return p.tp.Tracer(name, opts...)
}

// TracerProvider 返回底层 TracerProvider
func (p *Provider) TracerProvider() *sdktrace.TracerProvider {
	return p.tp
}

// Sampler 返回 Provider 使用的采样器
func (p *Provider) Sampler() *xsampling.DeterministicSampler {
	return p.sampler
}

// ForceFlush 导出所有已结束但尚未导出的 span
func (p *Provider) ForceFlush(ctx context.Context) error {
	return p.tp.ForceFlush(ctx)
}

// Shutdown 刷新并关闭导出器，多次调用返回首次的结果
func (p *Provider) Shutdown(ctx context.Context) error {
	p.shutdownOnce.Do(func() {
		p.shutdownErr = p.tp.Shutdown(ctx)
		if p.shutdownErr != nil {
			p.logger.Error(ctx, "tracer provider shutdown failed", xlog.Err(p.shutdownErr))
			return
		}
		p.logger.Info(ctx, "tracer provider stopped")
	})
	return p.shutdownErr
}
