package xlog

import "log/slog"

// 常用属性 Key
const (
	// KeyError 错误字段
	KeyError = "error"

	// KeyComponent 组件名称字段
	KeyComponent = "component"

	// KeyTraceID / KeySpanID / KeyTraceFlags 由 EnrichHandler 注入
	KeyTraceID    = "trace_id"
	KeySpanID     = "span_id"
	KeyTraceFlags = "trace_flags"
)

// Err 创建错误属性
//
// err 为 nil 时返回空属性（会被 slog 忽略）。
//
//	if err != nil {
//	    logger.Error(ctx, "export failed", xlog.Err(err))
//	}
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Component 创建组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}
