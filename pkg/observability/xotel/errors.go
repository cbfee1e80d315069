package xotel

import "errors"

var (
	// ErrNilConfig 配置为 nil
	ErrNilConfig = errors.New("xotel: config is nil")

	// ErrEmptyServiceName service_name 为空
	ErrEmptyServiceName = errors.New("xotel: service_name is required")

	// ErrUnknownSampler 未知的内层采样器名称
	ErrUnknownSampler = errors.New("xotel: unknown sampler")

	// ErrInvalidRatio ratio 不在 [0, 1] 范围内
	ErrInvalidRatio = errors.New("xotel: ratio must be within [0, 1]")

	// ErrUnknownExporter 未知的导出器类型
	ErrUnknownExporter = errors.New("xotel: unknown exporter type")

	// ErrMissingEndpoint otlp 导出器缺少 endpoint
	ErrMissingEndpoint = errors.New("xotel: exporter endpoint is required")
)
