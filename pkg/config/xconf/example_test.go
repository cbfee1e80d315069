package xconf_test

import (
	"fmt"

	"github.com/omeyang/xotel/pkg/config/xconf"
)

func ExampleParse() {
	data := []byte(`
sampling:
  sample_rate: 10
`)
	l, err := xconf.Parse(data, xconf.FormatYAML,
		xconf.WithDefaults(map[string]any{"sampling.inner": "parentbased_always_on"}))
	if err != nil {
		panic(err)
	}

	var s struct {
		SampleRate int    `koanf:"sample_rate"`
		Inner      string `koanf:"inner"`
	}
	if err := l.Unmarshal("sampling", &s); err != nil {
		panic(err)
	}
	fmt.Println(s.SampleRate, s.Inner)
	// Output: 10 parentbased_always_on
}
