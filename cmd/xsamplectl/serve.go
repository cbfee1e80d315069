package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v3"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xotel/pkg/config/xconf"
	"github.com/omeyang/xotel/pkg/lifecycle/xrun"
	"github.com/omeyang/xotel/pkg/observability/xlog"
	"github.com/omeyang/xotel/pkg/observability/xotel"
	"github.com/omeyang/xotel/pkg/observability/xsampling"
	"github.com/omeyang/xotel/pkg/observability/xtrace"
)

const (
	defaultServeAddr       = ":8080"
	defaultShutdownTimeout = 5 * time.Second
	readHeaderTimeout      = 5 * time.Second
)

type serveOptions struct {
	configPath      string
	addr            string
	shutdownTimeout time.Duration
	reportInterval  time.Duration
}

func (a *app) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "启动 HTTP 采样决策服务",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "xotel 配置文件路径，缺省使用默认配置"},
			&cli.StringFlag{Name: "addr", Usage: "监听地址", Value: defaultServeAddr},
			&cli.DurationFlag{Name: "shutdown-timeout", Usage: "优雅关闭等待时间", Value: defaultShutdownTimeout},
			&cli.DurationFlag{Name: "report-interval", Usage: "决策统计日志间隔，0 表示关闭"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			o := serveOptions{
				configPath:      cmd.String("config"),
				addr:            cmd.String("addr"),
				shutdownTimeout: cmd.Duration("shutdown-timeout"),
				reportInterval:  cmd.Duration("report-interval"),
			}
			if o.reportInterval < 0 {
				return usageErrorf("report-interval must not be negative, got %s", o.reportInterval)
			}
			return a.serve(ctx, o)
		},
	}
}

// serve 运行到 ctx 取消或收到终止信号，信号退出视为成功
func (a *app) serve(ctx context.Context, o serveOptions) error {
	cfg, err := loadServeConfig(o.configPath)
	if err != nil {
		return err
	}

	provider, err := xotel.NewTracerProvider(ctx, cfg, xotel.WithLogger(a.log()))
	if err != nil {
		return fmt.Errorf("start tracer provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), o.shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			a.log().Warn(shutdownCtx, "tracer provider shutdown failed", xlog.Err(err))
		}
	}()

	h := newDecisionHandler(provider.Sampler())
	server := &http.Server{
		Addr:              o.addr,
		Handler:           h.routes(xtrace.WithTracerProvider(provider.TracerProvider())),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	services := []func(context.Context) error{xrun.HTTPServer(server, o.shutdownTimeout)}
	if o.reportInterval > 0 {
		services = append(services, xrun.Ticker(o.reportInterval, false, h.reporter(a.log())))
	}

	a.log().Info(ctx, "decision service listening",
		slog.String("addr", o.addr),
		slog.String("sampler", provider.Sampler().Description()),
	)
	err = xrun.RunWithOptions(ctx, []xrun.Option{
		xrun.WithLogger(a.log()),
		xrun.WithName("xsamplectl"),
	}, services...)
	switch {
	case err == nil, errors.Is(err, xrun.ErrSignal):
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		// 调用方取消或超时
	default:
		return err
	}
	a.log().Info(context.Background(), "decision service stopped",
		slog.Uint64("total", h.total.Load()),
		slog.Uint64("sampled", h.sampled.Load()),
	)
	return nil
}

// loadServeConfig 未指定文件时使用默认值叠加 XOTEL_ 环境变量
func loadServeConfig(path string) (*xotel.Config, error) {
	if path == "" {
		cfg, err := xotel.ParseConfig(nil, xconf.FormatYAML)
		if err != nil {
			return nil, fmt.Errorf("config from environment: %w", err)
		}
		return cfg, nil
	}
	cfg, err := xotel.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// decisionResponse GET /v1/decide/{traceID} 的响应体
type decisionResponse struct {
	TraceID    string `json:"trace_id"`
	Decision   string `json:"decision"`
	SampleRate int64  `json:"sample_rate"`
	Sampler    string `json:"sampler"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// decisionHandler 对外暴露采样决策，并统计请求数
type decisionHandler struct {
	sampler *xsampling.DeterministicSampler
	total   atomic.Uint64
	sampled atomic.Uint64
}

func newDecisionHandler(sampler *xsampling.DeterministicSampler) *decisionHandler {
	return &decisionHandler{sampler: sampler}
}

// routes 返回挂载了链路中间件的路由
func (h *decisionHandler) routes(opts ...xtrace.Option) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/decide/{traceID}", h.decide)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return xtrace.HTTPMiddleware(opts...)(mux)
}

func (h *decisionHandler) decide(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("traceID")
	tid, err := trace.TraceIDFromHex(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid trace id %q", raw)})
		return
	}

	// 按根 span 决策，不受本请求自身 span 的影响
	parent := trace.ContextWithSpanContext(r.Context(), trace.SpanContext{})
	res := h.sampler.ShouldSample(sdktrace.SamplingParameters{
		ParentContext: parent,
		TraceID:       tid,
		Name:          "decide",
		Kind:          trace.SpanKindServer,
	})
	h.total.Add(1)
	if res.Decision == sdktrace.RecordAndSample {
		h.sampled.Add(1)
	}

	writeJSON(w, http.StatusOK, decisionResponse{
		TraceID:    tid.String(),
		Decision:   decisionString(res.Decision),
		SampleRate: sampleRateOf(res),
		Sampler:    h.sampler.Description(),
	})
}

// reporter 周期输出累计决策数
func (h *decisionHandler) reporter(logger xlog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		logger.Info(ctx, "decision stats",
			slog.Uint64("total", h.total.Load()),
			slog.Uint64("sampled", h.sampled.Load()),
		)
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
