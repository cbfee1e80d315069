// Package xbaggage 提供将 W3C Baggage 复制为 span 属性的 SpanProcessor。
//
// Baggage 是随链路在服务间传播的业务键值对（如 tenant_id、user_tier），
// 默认不会出现在 span 上。SpanProcessor 在 span 启动时读取 context 中的
// 全部 baggage 成员，逐个以字符串属性写入 span，使其随 span 一起导出。
//
// # 行为约定
//
//   - 原样复制：不过滤、不改名、不截断
//   - 只写 span，不修改 baggage 与 context
//   - OnEnd / Shutdown / ForceFlush 均为空操作，不持有任何缓冲状态
//
// # 使用方式
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithSpanProcessor(xbaggage.NewSpanProcessor()),
//	)
//
// 注意：SDK 仅对被采样（或被记录）的 span 调用 OnStart，
// 被采样器丢弃的 span 不会写入 baggage 属性。
//
// # 并发安全
//
// SpanProcessor 无状态，可被任意多个 goroutine 同时使用。
package xbaggage
