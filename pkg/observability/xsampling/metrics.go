package xsampling

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// 指标名称常量
const (
	// metricNameDecisionsTotal 采样决策计数器
	metricNameDecisionsTotal = "xsampling.decisions.total"
)

// 指标维度取值
const (
	decisionDrop            = "drop"
	decisionRecordOnly      = "record_only"
	decisionRecordAndSample = "record_and_sample"
)

// Metrics 采样决策指标收集器
//
// nil *Metrics 可安全调用，不记录任何指标。
type Metrics struct {
	decisionsTotal metric.Int64Counter
}

// NewMetrics 创建指标收集器
// 如果 meterProvider 为 nil，返回 nil（不收集指标）
func NewMetrics(meterProvider metric.MeterProvider) (*Metrics, error) {
	if meterProvider == nil {
		return nil, nil
	}

	meter := meterProvider.Meter("xsampling",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	decisionsTotal, err := meter.Int64Counter(
		metricNameDecisionsTotal,
		metric.WithDescription("采样决策总数"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{decisionsTotal: decisionsTotal}, nil
}

// record 记录一次采样决策
func (m *Metrics) record(ctx context.Context, decision sdktrace.SamplingDecision, reason string) {
	if m == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	m.decisionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("decision", decisionName(decision)),
		attribute.String("reason", reason),
	))
}

func decisionName(d sdktrace.SamplingDecision) string {
	switch d {
	case sdktrace.RecordAndSample:
		return decisionRecordAndSample
	case sdktrace.RecordOnly:
		return decisionRecordOnly
	default:
		return decisionDrop
	}
}
