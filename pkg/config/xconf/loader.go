package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 配置文件格式
type Format string

// 支持的配置格式
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Loader 已加载的配置快照
type Loader struct {
	k      *koanf.Koanf
	path   string
	format Format
	opts   *Options
}

// Load 从文件加载配置，格式由扩展名决定
func Load(path string, opts ...Option) (*Loader, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	l, err := load(data, format, applyOptions(opts))
	if err != nil {
		return nil, err
	}
	l.path = path
	return l, nil
}

// Parse 从字节数据加载配置，空数据得到只含默认值与环境变量的配置
func Parse(data []byte, format Format, opts ...Option) (*Loader, error) {
	if !format.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return load(data, format, applyOptions(opts))
}

// FormatFromPath 根据扩展名判断格式
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

func (f Format) valid() bool {
	return f == FormatYAML || f == FormatJSON
}

func (f Format) parser() koanf.Parser {
	if f == FormatJSON {
		return json.Parser()
	}
	return yaml.Parser()
}

func load(data []byte, format Format, o *Options) (*Loader, error) {
	k := koanf.New(o.Delim)

	if len(o.Defaults) > 0 {
		if err := k.Load(confmap.Provider(o.Defaults, o.Delim), nil); err != nil {
			return nil, fmt.Errorf("%w: defaults: %w", ErrLoadFailed, err)
		}
	}
	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), format.parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
		}
	}
	if o.EnvPrefix != "" {
		prefix := o.EnvPrefix
		delim := o.Delim
		// 严格模式下只接受默认值或文件中已有的 key，其余同前缀变量被忽略
		var known map[string]struct{}
		if o.Strict {
			known = make(map[string]struct{}, len(k.Keys()))
			for _, key := range k.Keys() {
				known[key] = struct{}{}
			}
		}
		cb := func(s string) string {
			key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, prefix)), "__", delim)
			if known != nil {
				if _, ok := known[key]; !ok {
					return ""
				}
			}
			return key
		}
		if err := k.Load(env.Provider(prefix, delim, cb), nil); err != nil {
			return nil, fmt.Errorf("%w: env: %w", ErrLoadFailed, err)
		}
	}

	return &Loader{k: k, format: format, opts: o}, nil
}

// Unmarshal 将 path 下的配置反序列化到 target，path 为空时反序列化全部
func (l *Loader) Unmarshal(path string, target any) error {
	dc := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      l.opts.Strict,
	}
	if err := l.k.UnmarshalWithConf(path, target, koanf.UnmarshalConf{
		Tag:           l.opts.Tag,
		DecoderConfig: dc,
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return nil
}

// MustUnmarshal 与 Unmarshal 相同，失败时 panic
func MustUnmarshal(l *Loader, path string, target any) {
	if err := l.Unmarshal(path, target); err != nil {
		panic(err)
	}
}

// Exists 判断 key 是否存在
func (l *Loader) Exists(key string) bool {
	return l.k.Exists(key)
}

// Keys 返回所有扁平化 key（已排序）
func (l *Loader) Keys() []string {
	return l.k.Keys()
}

// Koanf 返回底层 koanf 实例，调用方不应修改它
func (l *Loader) Koanf() *koanf.Koanf {
	return l.k
}

// Path 返回配置文件路径，Parse 创建的返回空字符串
func (l *Loader) Path() string {
	return l.path
}

// Format 返回配置格式
func (l *Loader) Format() Format {
	return l.format
}
