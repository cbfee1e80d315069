package xconf

// Options 配置加载选项
type Options struct {
	// Delim 层级分隔符，默认 "."
	Delim string

	// Tag 结构体标签名，默认 "koanf"
	Tag string

	// Defaults 默认值，key 使用 Delim 分隔的扁平路径或嵌套 map
	Defaults map[string]any

	// EnvPrefix 环境变量前缀，为空时不读取环境变量
	EnvPrefix string

	// Strict 为 true 时 Unmarshal 拒绝未知字段
	Strict bool
}

// Option 配置选项函数
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Delim: ".",
		Tag:   "koanf",
	}
}

func applyOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.Delim == "" {
		o.Delim = "."
	}
	if o.Tag == "" {
		o.Tag = "koanf"
	}
	return o
}

// WithDelim 设置层级分隔符
func WithDelim(delim string) Option {
	return func(o *Options) { o.Delim = delim }
}

// WithTag 设置 Unmarshal 使用的结构体标签
func WithTag(tag string) Option {
	return func(o *Options) { o.Tag = tag }
}

// WithDefaults 设置默认值，优先级最低
func WithDefaults(defaults map[string]any) Option {
	return func(o *Options) { o.Defaults = defaults }
}

// WithEnvPrefix 从带前缀的环境变量读取覆盖值，优先级最高
func WithEnvPrefix(prefix string) Option {
	return func(o *Options) { o.EnvPrefix = prefix }
}

// WithStrict 拒绝目标结构体中不存在的字段
func WithStrict() Option {
	return func(o *Options) { o.Strict = true }
}
