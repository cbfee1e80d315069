// Package observability 提供链路采样与传播相关的子包。
//
// 子包列表：
//   - xsampling: 基于 trace_id 哈希的确定性采样器
//   - xbaggage: 将 baggage 写入 span 属性的 SpanProcessor
//   - xotel: 按配置组装 TracerProvider
//   - xtrace: HTTP/gRPC 链路传播中间件
//   - xlog: 结构化日志，基于 log/slog 扩展
//   - xrotate: 日志文件轮转
package observability
