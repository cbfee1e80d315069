package xsampling

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/trace"
)

// Hasher 将 trace_id 映射为无符号整数
//
// 实现必须是确定性的（同一输入永远得到同一输出），且在 trace_id 空间上近似均匀分布。
type Hasher func(id trace.TraceID) uint64

// traceIDHexLen trace_id 十六进制形式的长度
const traceIDHexLen = 32

// TraceIDHash 默认哈希函数
//
// 对 trace_id 的 32 位小写十六进制形式计算 xxhash64。
// 十六进制形式与 TraceID.String() 及 W3C traceparent 中的写法一致，
// 其他语言的实现只要对同一字符串做 xxhash64 即可得到相同结果。
//
// 使用栈上缓冲区编码，零内存分配。
func TraceIDHash(id trace.TraceID) uint64 {
	var buf [traceIDHexLen]byte
	hex.Encode(buf[:], id[:])
	return xxhash.Sum64(buf[:])
}

// TraceIDHashString 对十六进制 trace_id 字符串计算哈希
//
// 输入必须是小写十六进制；大写输入会得到不同的哈希值。
// 供无法拿到 trace.TraceID 的场景（日志回放、离线分析）使用。
func TraceIDHashString(hexID string) uint64 {
	return xxhash.Sum64String(hexID)
}
