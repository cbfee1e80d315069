package xsampling

import "errors"

// 采样器创建相关的错误
var (
	// ErrNegativeRate 表示采样率为负数
	ErrNegativeRate = errors.New("xsampling: sample rate must be >= 0")

	// ErrNilSampler 表示被包装的内层采样器为 nil
	ErrNilSampler = errors.New("xsampling: inner sampler must not be nil")

	// ErrNilOption 表示传入了 nil Option
	ErrNilOption = errors.New("xsampling: option must not be nil")
)
