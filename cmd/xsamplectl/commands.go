package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/urfave/cli/v3"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xotel/pkg/observability/xlog"
	"github.com/omeyang/xotel/pkg/observability/xotel"
	"github.com/omeyang/xotel/pkg/observability/xsampling"
)

const (
	defaultSimulateCount = 10000
	// cancelCheckInterval simulate 每生成多少个 id 检查一次 ctx
	cancelCheckInterval = 4096
)

func (a *app) commands() []*cli.Command {
	return []*cli.Command{
		a.decideCommand(),
		a.simulateCommand(),
		a.checkCommand(),
		a.serveCommand(),
	}
}

// samplingFlags decide 与 simulate 共用的采样参数
func samplingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "rate", Aliases: []string{"r"}, Usage: "采样率，每 N 条链路保留 1 条", Value: 1},
		&cli.StringFlag{Name: "inner", Usage: "内层采样器", Value: xotel.SamplerAlwaysOn},
		&cli.FloatFlag{Name: "ratio", Usage: "traceidratio 类内层采样器的比例", Value: 1},
	}
}

// samplerFromFlags 参数非法时返回 usageError
func samplerFromFlags(cmd *cli.Command) (*xsampling.DeterministicSampler, error) {
	s, err := xotel.NewSampler(xotel.SamplingConfig{
		SampleRate: cmd.Int("rate"),
		Inner:      cmd.String("inner"),
		Ratio:      cmd.Float("ratio"),
	})
	if err != nil {
		return nil, &usageError{msg: err.Error()}
	}
	return s, nil
}

func (a *app) decideCommand() *cli.Command {
	return &cli.Command{
		Name:      "decide",
		Usage:     "输出每个 trace_id 的采样决策",
		ArgsUsage: "<trace-id>...",
		Flags:     samplingFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sampler, err := samplerFromFlags(cmd)
			if err != nil {
				return err
			}
			return a.decide(ctx, sampler, cmd.Args().Slice())
		},
	}
}

// decide 每行输出 "<trace_id> <decision> SampleRate=<n>"
func (a *app) decide(ctx context.Context, sampler *xsampling.DeterministicSampler, ids []string) error {
	if len(ids) == 0 {
		return usageErrorf("at least one trace id is required")
	}

	// 先校验全部参数，避免部分输出后才报错
	parsed := make([]trace.TraceID, 0, len(ids))
	for _, raw := range ids {
		tid, err := trace.TraceIDFromHex(raw)
		if err != nil {
			return usageErrorf("invalid trace id %q: %v", raw, err)
		}
		parsed = append(parsed, tid)
	}

	for _, tid := range parsed {
		res := sampler.ShouldSample(sdktrace.SamplingParameters{
			ParentContext: ctx,
			TraceID:       tid,
			Name:          "xsamplectl",
			Kind:          trace.SpanKindInternal,
		})
		fmt.Fprintf(a.stdout, "%s %s %s=%d\n", tid, decisionString(res.Decision), xsampling.AttrSampleRate, sampleRateOf(res))
		a.log().Debug(ctx, "decided",
			slog.String(xlog.KeyTraceID, tid.String()),
			slog.String("decision", decisionString(res.Decision)),
		)
	}
	return nil
}

func (a *app) simulateCommand() *cli.Command {
	flags := append(samplingFlags(),
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "生成的 trace_id 数量", Value: defaultSimulateCount},
		&cli.Uint64Flag{Name: "seed", Usage: "随机种子，0 表示随机"},
	)
	return &cli.Command{
		Name:  "simulate",
		Usage: "随机生成 trace_id，统计实际采样比例",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sampler, err := samplerFromFlags(cmd)
			if err != nil {
				return err
			}
			count := cmd.Int("count")
			if count <= 0 {
				return usageErrorf("count must be positive, got %d", count)
			}
			seed := cmd.Uint64("seed")
			if seed == 0 {
				seed = rand.Uint64()
			}
			return a.simulate(ctx, sampler, count, seed)
		},
	}
}

// simulationResult 一次模拟的统计
type simulationResult struct {
	Count    int
	Sampled  int
	Observed float64
	Expected float64
}

func (a *app) simulate(ctx context.Context, sampler *xsampling.DeterministicSampler, count int, seed uint64) error {
	res, err := runSimulation(ctx, sampler, count, seed)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "sampler=%s\n", sampler.Description())
	fmt.Fprintf(a.stdout, "seed=%d count=%d sampled=%d observed=%.4f expected=%.4f\n",
		seed, res.Count, res.Sampled, res.Observed, res.Expected)
	a.log().Info(ctx, "simulation finished",
		slog.Uint64("seed", seed),
		slog.Int("sampled", res.Sampled),
		slog.Int("count", res.Count),
	)
	return nil
}

// runSimulation 用 PCG 生成 count 个非零 trace_id 并统计 RecordAndSample 的数量
//
// expected 只计算本层的 1/rate，不包含内层采样器的比例。
func runSimulation(ctx context.Context, sampler *xsampling.DeterministicSampler, count int, seed uint64) (simulationResult, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	params := sdktrace.SamplingParameters{ParentContext: ctx, Name: "simulate"}

	sampled := 0
	for i := range count {
		if i%cancelCheckInterval == 0 && ctx.Err() != nil {
			return simulationResult{}, fmt.Errorf("simulation interrupted after %d ids: %w", i, ctx.Err())
		}
		params.TraceID = randomTraceID(rng)
		if sampler.ShouldSample(params).Decision == sdktrace.RecordAndSample {
			sampled++
		}
	}

	res := simulationResult{
		Count:    count,
		Sampled:  sampled,
		Observed: float64(sampled) / float64(count),
	}
	if r := sampler.Rate(); r > 0 {
		res.Expected = 1 / float64(r)
	}
	return res, nil
}

func randomTraceID(rng *rand.Rand) trace.TraceID {
	var tid trace.TraceID
	for !tid.IsValid() {
		binary.BigEndian.PutUint64(tid[:8], rng.Uint64())
		binary.BigEndian.PutUint64(tid[8:], rng.Uint64())
	}
	return tid
}

func (a *app) checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "加载并校验 xotel 配置文件",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "配置文件路径（.yaml/.yml/.json）", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.check(ctx, cmd.String("config"))
		},
	}
}

func (a *app) check(ctx context.Context, path string) error {
	cfg, err := xotel.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	sampler, err := xotel.NewSampler(cfg.Sampling)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	fmt.Fprintf(a.stdout, "ok service=%s exporter=%s baggage=%t\n",
		cfg.ServiceName, cfg.Exporter.Type, cfg.Baggage.Enabled)
	fmt.Fprintf(a.stdout, "sampler=%s\n", sampler.Description())
	a.log().Debug(ctx, "config checked", slog.String("path", path))
	return nil
}

func decisionString(d sdktrace.SamplingDecision) string {
	switch d {
	case sdktrace.RecordAndSample:
		return "record_and_sample"
	case sdktrace.RecordOnly:
		return "record_only"
	default:
		return "drop"
	}
}

// sampleRateOf 取结果中的 SampleRate，DeterministicSampler 的结果总带有该属性
func sampleRateOf(res sdktrace.SamplingResult) int64 {
	for _, kv := range res.Attributes {
		if kv.Key == xsampling.AttrSampleRate {
			return kv.Value.AsInt64()
		}
	}
	return 0
}
