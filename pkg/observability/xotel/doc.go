// Package xotel 按配置组装 OpenTelemetry TracerProvider。
//
// 一份 [Config] 描述完整的链路管道：
//
//	service_name: checkout
//	sampling:
//	  sample_rate: 10
//	  inner: parentbased_always_on
//	baggage:
//	  enabled: true
//	exporter:
//	  type: otlp
//	  endpoint: localhost:4317
//	  insecure: true
//
// [NewTracerProvider] 据此创建：
//
//   - 以 xsampling.DeterministicSampler 包装内层采样器
//   - 启用时注册 xbaggage.SpanProcessor，把 baggage 写入 span 属性
//   - otlp 导出器（gRPC，批量发送），或不导出
//
// 配置可通过 XOTEL_ 前缀的环境变量覆盖，例如
// XOTEL_SAMPLING__SAMPLE_RATE=100。
package xotel
