package xlog

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// defaultLogger 首次使用时创建：stderr、Info、text
var defaultLogger = sync.OnceValue(func() LoggerWithLevel {
	logger, _, err := New().Build()
	if err == nil {
		return logger
	}
	fmt.Fprintf(os.Stderr, "xlog: default logger: %v\n", err)
	return newLogger(slog.NewTextHandler(os.Stderr, nil), new(slog.LevelVar), nil, false)
})

// Default 返回进程级默认 Logger，供未注入 Logger 的组件使用
func Default() LoggerWithLevel {
	return defaultLogger()
}
