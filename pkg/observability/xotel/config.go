package xotel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/omeyang/xotel/pkg/config/xconf"
	"github.com/omeyang/xotel/pkg/observability/xsampling"
)

// EnvPrefix 覆盖配置的环境变量前缀，如 XOTEL_SAMPLING__SAMPLE_RATE
//
// 只有已知的配置项会被覆盖，其余同前缀变量被忽略。
const EnvPrefix = "XOTEL_"

// 导出器类型
const (
	ExporterOTLP = "otlp"
	ExporterNone = "none"
)

// Config 链路管道配置
type Config struct {
	ServiceName string         `koanf:"service_name"`
	Sampling    SamplingConfig `koanf:"sampling"`
	Baggage     BaggageConfig  `koanf:"baggage"`
	Exporter    ExporterConfig `koanf:"exporter"`
}

// SamplingConfig 采样配置
type SamplingConfig struct {
	// SampleRate DeterministicSampler 的采样率，每 SampleRate 条链路保留 1 条
	SampleRate int `koanf:"sample_rate"`

	// Inner 内层采样器名称，见 SamplerAlwaysOn 等常量
	Inner string `koanf:"inner"`

	// Ratio 仅用于 traceidratio 与 parentbased_traceidratio
	Ratio float64 `koanf:"ratio"`
}

// BaggageConfig baggage 处理配置
type BaggageConfig struct {
	Enabled bool `koanf:"enabled"`
}

// ExporterConfig 导出器配置
type ExporterConfig struct {
	Type     string        `koanf:"type"`
	Endpoint string        `koanf:"endpoint"`
	Insecure bool          `koanf:"insecure"`
	Timeout  time.Duration `koanf:"timeout"`
}

// defaults 配置默认值
func defaults() map[string]any {
	return map[string]any{
		"service_name":         "unknown_service",
		"sampling.sample_rate": 1,
		"sampling.inner":       SamplerParentBasedAlwaysOn,
		"sampling.ratio":       1.0,
		"baggage.enabled":      true,
		"exporter.type":        ExporterNone,
		"exporter.endpoint":    "",
		"exporter.insecure":    false,
		"exporter.timeout":     "10s",
	}
}

func loaderOptions() []xconf.Option {
	return []xconf.Option{
		xconf.WithDefaults(defaults()),
		xconf.WithEnvPrefix(EnvPrefix),
		xconf.WithStrict(),
	}
}

// DefaultConfig 返回内置默认值，不读取环境变量
//
// 需要环境变量覆盖时使用 ParseConfig(nil, xconf.FormatYAML)。
func DefaultConfig() *Config {
	return &Config{
		ServiceName: "unknown_service",
		Sampling:    SamplingConfig{SampleRate: 1, Inner: SamplerParentBasedAlwaysOn, Ratio: 1},
		Baggage:     BaggageConfig{Enabled: true},
		Exporter:    ExporterConfig{Type: ExporterNone, Timeout: 10 * time.Second},
	}
}

// LoadConfig 从 YAML/JSON 文件加载配置并校验
func LoadConfig(path string) (*Config, error) {
	l, err := xconf.Load(path, loaderOptions()...)
	if err != nil {
		return nil, err
	}
	return decode(l)
}

// ParseConfig 从字节数据加载配置并校验
func ParseConfig(data []byte, format xconf.Format) (*Config, error) {
	l, err := xconf.Parse(data, format, loaderOptions()...)
	if err != nil {
		return nil, err
	}
	return decode(l)
}

func decode(l *xconf.Loader) (*Config, error) {
	var cfg Config
	if err := l.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置，返回所有问题的合并错误
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	var errs []error
	if strings.TrimSpace(c.ServiceName) == "" {
		errs = append(errs, ErrEmptyServiceName)
	}
	if err := c.Sampling.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Exporter.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate 校验采样配置
func (s SamplingConfig) Validate() error {
	var errs []error
	if s.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", xsampling.ErrNegativeRate, s.SampleRate))
	}
	name := normalizeSampler(s.Inner)
	if _, ok := innerSamplers[name]; !ok {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownSampler, s.Inner))
	}
	if usesRatio(name) && (s.Ratio < 0 || s.Ratio > 1) {
		errs = append(errs, fmt.Errorf("%w: got %v", ErrInvalidRatio, s.Ratio))
	}
	return errors.Join(errs...)
}

// Validate 校验导出器配置
func (e ExporterConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(e.Type)) {
	case ExporterNone, "":
		return nil
	case ExporterOTLP:
		if strings.TrimSpace(e.Endpoint) == "" {
			return ErrMissingEndpoint
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownExporter, e.Type)
	}
}
