package xlog

// ErrorCount 返回写入失败计数
func ErrorCount(l Logger) uint64 {
	if xl, ok := l.(*xlogger); ok {
		return xl.sink.errors.Load()
	}
	return 0
}
