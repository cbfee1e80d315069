// Package xconf 基于 koanf 的分层配置加载器。
//
// 加载顺序（后者覆盖前者）：
//
//  1. [WithDefaults] 提供的默认值
//  2. 配置文件或字节数据（YAML/JSON）
//  3. [WithEnvPrefix] 指定前缀的环境变量
//
// 环境变量名去掉前缀、转小写后，双下划线 "__" 映射为层级分隔符。
// 例如前缀 XOTEL_ 时，XOTEL_SAMPLING__SAMPLE_RATE=10 覆盖 sampling.sample_rate。
//
// # 格式
//
//   - YAML：.yaml, .yml
//   - JSON：.json
//
// # Unmarshal
//
// 默认允许弱类型转换（字符串 "10" 可转为 int），支持 time.Duration 字符串。
// [WithStrict] 开启后，配置中出现目标结构体没有的字段会返回错误。
//
// 加载完成后 Loader 只读，可并发使用。
package xconf
