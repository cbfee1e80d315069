package xsampling

// Option 配置 DeterministicSampler 的可选参数
type Option func(*DeterministicSampler)

// WithHasher 替换 trace_id 哈希函数
//
// 默认使用 TraceIDHash。nil 会被忽略。
// 同一部署内的所有服务必须使用相同的哈希函数，否则跨服务采样决策不一致。
func WithHasher(h Hasher) Option {
	return func(s *DeterministicSampler) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithMetrics 挂载决策指标
//
// m 为 nil 时不记录指标。
func WithMetrics(m *Metrics) Option {
	return func(s *DeterministicSampler) {
		s.metrics = m
	}
}
