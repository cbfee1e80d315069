package xlog

import (
	"context"
	"log/slog"
)

// Logger 以 context 为第一个参数的结构化日志
//
// ctx 中的 span 由 EnrichHandler 写为 trace_id/span_id；ctx 为 nil 时按 Background 处理。
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// With 派生带固定属性的 Logger，与父级共享级别
	With(attrs ...slog.Attr) Logger

	// WithGroup 派生分组 Logger，name 为空时返回自身
	WithGroup(name string) Logger
}

// LoggerWithLevel 是 Build 的返回值，额外支持运行时调整级别
type LoggerWithLevel interface {
	Logger
	SetLevel(level Level)
	Level() Level
}
