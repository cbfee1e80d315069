package xlog

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"
)

var _ LoggerWithLevel = (*xlogger)(nil)

// sinkState 写入失败的统计与回调，派生 Logger 共享同一份
type sinkState struct {
	onError func(error)
	errors  atomic.Uint64
	busy    atomic.Bool
}

type xlogger struct {
	handler   slog.Handler
	level     *slog.LevelVar
	addSource bool
	sink      *sinkState
}

func newLogger(h slog.Handler, level *slog.LevelVar, onError func(error), addSource bool) *xlogger {
	return &xlogger{
		handler:   h,
		level:     level,
		addSource: addSource,
		sink:      &sinkState{onError: onError},
	}
}

func (l *xlogger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, slog.LevelDebug, msg, attrs)
}

func (l *xlogger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, slog.LevelInfo, msg, attrs)
}

func (l *xlogger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, slog.LevelWarn, msg, attrs)
}

func (l *xlogger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, slog.LevelError, msg, attrs)
}

// emit 只能由上面四个方法直接调用，源码位置按固定栈深计算
//
//go:noinline
func (l *xlogger) emit(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.handler.Enabled(ctx, level) {
		return
	}

	var pc uintptr
	if l.addSource {
		var pcs [1]uintptr
		// runtime.Callers, emit, Info 等
		runtime.Callers(3, pcs[:])
		pc = pcs[0]
	}
	r := slog.NewRecord(time.Now(), level, msg, pc)
	r.AddAttrs(attrs...)
	if err := l.handler.Handle(ctx, r); err != nil {
		l.sink.report(err)
	}
}

// report 计数并调用 onError；回调中再次失败不会重入，回调 panic 记为一次错误
func (s *sinkState) report(err error) {
	s.errors.Add(1)
	if s.onError == nil || !s.busy.CompareAndSwap(false, true) {
		return
	}
	defer s.busy.Store(false)
	defer func() {
		if recover() != nil {
			s.errors.Add(1)
		}
	}()
	s.onError(err)
}

func (l *xlogger) With(attrs ...slog.Attr) Logger {
	if len(attrs) == 0 {
		return l
	}
	return &xlogger{handler: l.handler.WithAttrs(attrs), level: l.level, addSource: l.addSource, sink: l.sink}
}

func (l *xlogger) WithGroup(name string) Logger {
	if name == "" {
		return l
	}
	return &xlogger{handler: l.handler.WithGroup(name), level: l.level, addSource: l.addSource, sink: l.sink}
}

// SetLevel 运行时调整级别，派生 Logger 同步生效
func (l *xlogger) SetLevel(level Level) {
	l.level.Set(level)
}

func (l *xlogger) Level() Level {
	return l.level.Level()
}
