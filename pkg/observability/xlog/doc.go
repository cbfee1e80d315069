// Package xlog 基于 log/slog 的结构化日志库。
//
// Builder 配置输出、级别、格式与文件轮转，遇到的第一个配置错误由 Build 返回：
//
//	logger, cleanup, err := xlog.New().
//	    SetLevelString("debug").
//	    SetFormat("json").
//	    SetRotation("/var/log/xsamplectl.log").
//	    Build()
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
//
// 默认启用 EnrichHandler：ctx 中有合法 span 时写入 trace_id、span_id、trace_flags。
// 对这样的 logger 调用 WithGroup 时，注入字段会被归入 group 下。
//
// 未注入 Logger 的组件使用 [Default]（stderr、Info、text）。
package xlog
