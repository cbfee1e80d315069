package xotel_test

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/omeyang/xotel/pkg/config/xconf"
	"github.com/omeyang/xotel/pkg/observability/xlog"
	"github.com/omeyang/xotel/pkg/observability/xotel"
)

func ExampleNewTracerProvider() {
	cfg, err := xotel.ParseConfig([]byte(`
service_name: checkout
sampling:
  sample_rate: 1
  inner: always_on
`), xconf.FormatYAML)
	if err != nil {
		panic(err)
	}

	logger, _, _ := xlog.New().SetLevel(xlog.LevelError).Build()
	exp := tracetest.NewInMemoryExporter()
	p, err := xotel.NewTracerProvider(context.Background(), cfg,
		xotel.WithSpanExporter(exp), xotel.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	defer func() { _ = p.Shutdown(context.Background()) }()

	_, span := p.Tracer("example").Start(context.Background(), "work")
	span.End()

	fmt.Println(p.Sampler().Description())
	fmt.Println(len(exp.GetSpans()))
	// Output:
	// DeterministicSampler{SampleRate=1,AlwaysOnSampler}
	// 1
}
