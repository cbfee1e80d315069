// Package xtrace 在 HTTP/gRPC 入口提取 W3C Trace Context 与 Baggage，并创建服务端 span。
//
// 传播使用 OpenTelemetry 的 TextMapPropagator，默认组合：
//
//   - traceparent / tracestate（W3C Trace Context）
//   - baggage（W3C Baggage）
//
// 提取出的 baggage 留在请求 context 中，配合 xbaggage.SpanProcessor，
// 服务端 span 及其子 span 都会带上 baggage 属性；上游的采样标志经由父 span
// 传给采样器（如 ParentBased）。
//
// # 使用方式
//
// HTTP：服务端 [HTTPMiddleware]，客户端 [InjectHTTP]。
//
// gRPC：服务端 [UnaryServerInterceptor]，客户端 [UnaryClientInterceptor]。
package xtrace
