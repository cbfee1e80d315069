package xsampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceIDHash_Golden(t *testing.T) {
	// 固定取值：修改哈希实现会改变线上所有服务的采样决策
	tests := []struct {
		traceID string
		want    uint64
	}{
		{traceIDEven, 0x82d8c03acc9eb486},
		{traceIDOdd, 0x2ab28d25664b8cfd},
		{"00000000000000000000000000000001", 0xc5e41a21d0dbb7e2},
	}

	for _, tt := range tests {
		t.Run(tt.traceID, func(t *testing.T) {
			id := mustTraceID(t, tt.traceID)
			assert.Equal(t, tt.want, TraceIDHash(id))
			assert.Equal(t, tt.want, TraceIDHashString(tt.traceID))
		})
	}
}

func TestTraceIDHash_MatchesStringForm(t *testing.T) {
	for _, id := range randomTraceIDs(100) {
		assert.Equal(t, TraceIDHashString(id.String()), TraceIDHash(id))
	}
}

func TestTraceIDHash_ZeroAlloc(t *testing.T) {
	id := mustTraceID(t, traceIDEven)
	allocs := testing.AllocsPerRun(100, func() {
		_ = TraceIDHash(id)
	})
	assert.Zero(t, allocs)
}

func TestTraceIDHashString_CaseSensitive(t *testing.T) {
	assert.NotEqual(t,
		TraceIDHashString("0af7651916cd43dd8448eb211c80319c"),
		TraceIDHashString("0AF7651916CD43DD8448EB211C80319C"))
}
