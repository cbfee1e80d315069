// Package xrotate 为 xlog 提供按大小轮转的日志文件输出。
//
// [NewLumberjack] 基于 lumberjack v2 实现 [Rotator]，返回值可直接作为
// io.Writer 交给 xlog.Builder.SetRotation 或命令行的 --log-file。
//
// 默认单文件 100MB，保留 5 个备份、14 天，备份 gzip 压缩。
package xrotate
