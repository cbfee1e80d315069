package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 表示因收到系统信号而终止，配合 errors.Is 使用
	ErrSignal = errors.New("received signal")

	// ErrNilFunc 服务函数为 nil
	ErrNilFunc = errors.New("xrun: nil service func")

	// ErrNilServer HTTPServer 传入了 nil
	ErrNilServer = errors.New("xrun: nil server")

	// ErrInvalidInterval Ticker 间隔必须为正数
	ErrInvalidInterval = errors.New("xrun: interval must be positive")
)

// SignalError 记录触发退出的信号
//
//	var sigErr *xrun.SignalError
//	if errors.As(err, &sigErr) {
//	    fmt.Println(sigErr.Signal)
//	}
type SignalError struct {
	Signal os.Signal
}

// Error 实现 error 接口
func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "received signal <nil>"
	}
	return fmt.Sprintf("received signal %s", e.Signal)
}

// Unwrap 使 errors.Is(err, ErrSignal) 成立
func (e *SignalError) Unwrap() error {
	return ErrSignal
}
