package xlog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level 即 slog.Level，可直接用于 slog.HandlerOptions
type Level = slog.Level

// 日志级别
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// ParseLevel 解析 debug/info/warn/warning/error，大小写不敏感
//
// 不接受 slog 的偏移写法（如 "info+2"），命令行与配置只暴露四个级别。
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("xlog: unknown level %q", s)
}
