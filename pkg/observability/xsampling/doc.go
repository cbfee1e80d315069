// Package xsampling 提供基于 trace_id 的确定性采样器。
//
// DeterministicSampler 实现 OpenTelemetry SDK 的 sdktrace.Sampler 接口，
// 以装饰器方式包装任意内层采样器（包括另一个 DeterministicSampler）。
//
// # 采样规则
//
// 对于采样率 rate（每 rate 条链路保留 1 条）：
//
//   - rate == 0: 直接返回 Drop，不调用内层采样器
//   - rate == 1: 不做哈希判断，直接交给内层采样器
//   - rate > 1:  计算 hash(trace_id) % rate，结果为 0 时交给内层采样器，
//     否则直接返回 Drop，不调用内层采样器
//
// 内层采样器的决策原样返回：外层通过并不意味着强制采样，
// 内层返回 Drop 时最终结果仍为 Drop。
//
// 无论走哪条分支，结果都会附带 SampleRate 属性（int64，值为 rate），
// 与内层采样器返回的属性合并。
//
// # 跨进程一致性
//
// 默认哈希函数 TraceIDHash 对 trace_id 的 32 位小写十六进制形式计算 xxhash64
// （github.com/cespare/xxhash/v2）。xxhash 是确定性哈希：
//   - 同一 trace_id 在所有服务中得到相同的采样决策
//   - 服务重启后采样行为不变
//   - 热路径零内存分配
//
// 可通过 WithHasher 替换哈希函数，但同一部署内所有服务必须使用同一个。
//
// # 并发安全
//
// DeterministicSampler 构造后只读，ShouldSample 可在多个 goroutine 中并发调用。
//
// # 指标
//
// WithMetrics 可挂载决策计数器（xsampling.decisions.total），
// 按 decision 与 reason 两个维度统计。未配置时不产生任何指标开销。
package xsampling
