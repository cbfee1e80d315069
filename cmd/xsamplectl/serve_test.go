package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/omeyang/xotel/pkg/observability/xlog"
	"github.com/omeyang/xotel/pkg/observability/xsampling"
	"github.com/omeyang/xotel/pkg/observability/xtrace"
)

func newTestHandler(t *testing.T, rate int) *decisionHandler {
	t.Helper()
	s, err := xsampling.NewDeterministicSampler(sdktrace.AlwaysSample(), rate)
	require.NoError(t, err)
	return newDecisionHandler(s)
}

func getDecision(t *testing.T, h http.Handler, id string) (int, decisionResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/decide/"+id, nil))
	var body decisionResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestDecisionHandler_Golden(t *testing.T) {
	h := newTestHandler(t, 10)
	routes := h.routes()

	code, body := getDecision(t, routes, "0af7651916cd43dd8448eb211c80319c")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "drop", body.Decision)
	assert.Equal(t, int64(10), body.SampleRate)

	code, body = getDecision(t, routes, "00000000000000000000000000000001")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "record_and_sample", body.Decision)
	assert.Equal(t, "00000000000000000000000000000001", body.TraceID)
	assert.Equal(t, "DeterministicSampler{SampleRate=10,AlwaysOnSampler}", body.Sampler)

	assert.Equal(t, uint64(2), h.total.Load())
	assert.Equal(t, uint64(1), h.sampled.Load())
}

func TestDecisionHandler_InvalidTraceID(t *testing.T) {
	h := newTestHandler(t, 1)
	rec := httptest.NewRecorder()
	h.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/decide/xyz", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `invalid trace id \"xyz\"`)
	assert.Zero(t, h.total.Load())
}

func TestDecisionHandler_Healthz(t *testing.T) {
	h := newTestHandler(t, 1)
	rec := httptest.NewRecorder()
	h.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestDecisionHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, 1)
	rec := httptest.NewRecorder()
	h.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/decide/00000000000000000000000000000001", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDecisionHandler_TracesRequests(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	s, err := xsampling.NewDeterministicSampler(sdktrace.AlwaysSample(), 1)
	require.NoError(t, err)
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(s), sdktrace.WithSyncer(exp))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	h := newDecisionHandler(s)
	code, _ := getDecision(t, h.routes(xtrace.WithTracerProvider(tp)), "4bf92f3577b34da6a3ce929d0e0e4736")
	require.Equal(t, http.StatusOK, code)

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /v1/decide/4bf92f3577b34da6a3ce929d0e0e4736", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.Int64(xsampling.AttrSampleRate, 1))
}

func TestDecisionHandler_Reporter(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetOutput(&buf).Build()
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	h := newTestHandler(t, 1)
	_, _ = getDecision(t, h.routes(), "4bf92f3577b34da6a3ce929d0e0e4736")

	require.NoError(t, h.reporter(logger)(context.Background()))
	assert.Contains(t, buf.String(), "decision stats")
	assert.Contains(t, buf.String(), "total=1 sampled=1")
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var out, errOut bytes.Buffer
	code := run(ctx, []string{"xsamplectl", "--log-level", "info",
		"serve", "--addr", "127.0.0.1:0", "--report-interval", "20ms"}, &out, &errOut)

	require.Equal(t, 0, code, errOut.String())
	logs := errOut.String()
	assert.Contains(t, logs, "decision service listening")
	assert.Contains(t, logs, "decision stats")
	assert.Contains(t, logs, "decision service stopped")
	assert.Contains(t, logs, "tracer provider stopped")
}

func TestServe_WithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xotel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service_name: decider\nsampling:\n  sample_rate: 4\n"), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var out, errOut bytes.Buffer
	code := run(ctx, []string{"xsamplectl", "--log-level", "info",
		"serve", "--addr", "127.0.0.1:0", "--config", path}, &out, &errOut)

	require.Equal(t, 0, code, errOut.String())
	assert.Contains(t, errOut.String(), "SampleRate=4")
}

func TestServe_NegativeRateFromEnv(t *testing.T) {
	t.Setenv("XOTEL_SAMPLING__SAMPLE_RATE", "-5")

	code, _, errOut := runCLI(t, "serve", "--addr", "127.0.0.1:0")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "sample rate must be >= 0: got -5")
}

func TestLoadServeConfig_Env(t *testing.T) {
	t.Setenv("XOTEL_VERSION", "1.2")
	t.Setenv("XOTEL_SAMPLING__SAMPLE_RATE", "10")

	cfg, err := loadServeConfig("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Sampling.SampleRate)
}

func TestServe_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sampling:\n  sample_rate: -1\n"), 0o600))

	code, _, errOut := runCLI(t, "serve", "--config", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "sample rate must be >= 0")

	code, _, errOut = runCLI(t, "serve", "--report-interval=-1s")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "report-interval must not be negative")
}
