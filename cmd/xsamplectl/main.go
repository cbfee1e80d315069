// xsamplectl 用于检查确定性采样的决策，也可作为决策服务运行。
//
// 用法:
//
//	xsamplectl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	--log-level   日志级别 debug/info/warn/error (默认: warn)
//	--log-format  日志格式 text/json (默认: text)
//	--log-file    日志写入文件并按大小轮转（默认输出到 stderr）
//
// 命令:
//
//	decide <trace-id>...   输出每个 trace_id 的采样决策
//	simulate               随机生成 trace_id，统计实际采样比例
//	check --config FILE    加载并校验 xotel 配置文件
//	serve                  启动 HTTP 采样决策服务（GET /v1/decide/{trace-id}）
//
// 退出码:
//
//	0: 成功
//	1: 执行失败（配置校验失败、被中断等）
//	2: 参数错误（非法 trace_id、负数采样率、缺少必需参数、未知命令等）
//
// 示例:
//
//	xsamplectl decide --rate 10 4bf92f3577b34da6a3ce929d0e0e4736
//	xsamplectl simulate --rate 100 --count 100000 --seed 42
//	xsamplectl check --config /etc/xotel.yaml
//	xsamplectl --log-level info serve --addr :8080 --config /etc/xotel.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xotel/pkg/observability/xlog"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	setupSignalHandler(cancel)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// usageError 参数错误，对应退出码 2
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// app 命令共享的输出与日志
type app struct {
	stdout  io.Writer
	stderr  io.Writer
	logger  xlog.LoggerWithLevel
	cleanup func() error
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:      "xsamplectl",
		Usage:     "确定性采样决策检查工具",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Usage: "日志级别", Value: "warn"},
			&cli.StringFlag{Name: "log-format", Usage: "日志格式 text/json", Value: "text"},
			&cli.StringFlag{Name: "log-file", Usage: "日志文件路径（按大小轮转）"},
		},
		Before:         a.before,
		After:          a.after,
		Commands:       a.commands(),
		DefaultCommand: "help",
		// 禁止 urfave/cli 直接 os.Exit，由 run 统一映射退出码
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(a.stderr, err)
			}
		},
	}
}

// before 按全局选项创建日志
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	b := xlog.New().
		SetOutput(a.stderr).
		SetLevelString(cmd.String("log-level")).
		SetFormat(cmd.String("log-format"))
	if file := cmd.String("log-file"); file != "" {
		b.SetRotation(file)
	}
	logger, cleanup, err := b.Build()
	if err != nil {
		return ctx, &usageError{msg: err.Error()}
	}
	a.logger = logger
	a.cleanup = cleanup
	return ctx, nil
}

func (a *app) after(context.Context, *cli.Command) error {
	if a.cleanup == nil {
		return nil
	}
	return a.cleanup()
}

// log 返回当前日志，Before 未执行时使用全局日志
func (a *app) log() xlog.Logger {
	if a.logger == nil {
		return xlog.Default()
	}
	return a.logger
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	err := a.command().Run(ctx, args)
	if err == nil {
		return 0
	}

	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return 2
	}
	if isCLIUsageError(err) {
		// 详情已由 cli 或 ExitErrHandler 输出
		return 2
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return 1
}

// isCLIUsageError 识别 cli 框架产生的参数错误
func isCLIUsageError(err error) bool {
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		return true
	}
	msg := err.Error()
	for _, s := range []string{
		"flag provided but not defined",
		"Required flag",
		"invalid value",
		"No help topic",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// setupSignalHandler 第一次信号取消 ctx，第二次强制退出（130 = 128 + SIGINT）
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()

		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130)
	}()
}
