// Package xrun 管理进程内多个长期服务的并发运行与协调关闭。
//
// 基于 [errgroup] 构建：任一服务返回错误或收到终止信号时，共享的 context
// 被取消，其余服务据此优雅退出。
//
// 典型用法：采样决策服务与 TracerProvider 的生命周期绑定。
//
//	err := xrun.RunWithOptions(ctx, []xrun.Option{xrun.WithLogger(logger)},
//	    xrun.HTTPServer(server, 5*time.Second),
//	)
//	if errors.Is(err, xrun.ErrSignal) {
//	    // 正常退出
//	}
//
// [errgroup]: https://pkg.go.dev/golang.org/x/sync/errgroup
package xrun
