package net

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputravu/aurum/internal/gateway"
)

func TestSubmitRequestRoundtrip(t *testing.T) {
	expire := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	req := gateway.SubmitRequest{
		Symbol:     "AAPL",
		Side:       "BUY",
		Type:       "LIMIT",
		Price:      "150.50",
		Quantity:   "100",
		UserID:     "alice",
		TIF:        "GTD",
		STP:        "CANCEL_RESTING",
		PostOnly:   true,
		ExpireTime: &expire,
		FeeTier:    "vip",
	}

	frame := EncodeSubmit(req)
	typ, body, err := readFrame(sliceReader(frame))
	require.NoError(t, err)
	assert.Equal(t, uint16(SubmitOrder), typ)

	decoded, err := decodeSubmit(body)
	require.NoError(t, err)
	assert.Equal(t, req.Symbol, decoded.Symbol)
	assert.Equal(t, req.Side, decoded.Side)
	assert.Equal(t, req.Price, decoded.Price)
	assert.Equal(t, req.TIF, decoded.TIF)
	assert.Equal(t, req.STP, decoded.STP)
	assert.True(t, decoded.PostOnly)
	require.NotNil(t, decoded.ExpireTime)
	assert.True(t, expire.Equal(*decoded.ExpireTime))
	assert.Equal(t, req.FeeTier, decoded.FeeTier)
}

func TestExecutionReportRoundtrip(t *testing.T) {
	resp := gateway.CommandResponse{
		Order: gateway.OrderView{
			OrderID: "o1", Symbol: "AAPL", Side: "BUY", Type: "LIMIT",
			HasPrice: true, Price: "150.50", Quantity: "100", Filled: "60", Status: "PARTIALLY_FILLED",
			UserID: "alice", TIF: "GTC", STP: "NONE",
		},
		Trades: []gateway.TradeView{
			{ID: "t1", Symbol: "AAPL", Price: "150.50", Quantity: "60", MakerOrderID: "o2", TakerOrderID: "o1",
				MakerUser: "bob", TakerUser: "alice", MakerFee: "-0.01", TakerFee: "0.05", Timestamp: time.Unix(0, 123456789), MakerSide: "SELL"},
		},
		CancelledOrders: []string{"o3"},
	}

	frame := EncodeExecutionReport(resp)
	typ, body, err := readFrame(sliceReader(frame))
	require.NoError(t, err)
	assert.Equal(t, uint16(ExecutionReport), typ)

	decoded, err := DecodeExecutionReport(body)
	require.NoError(t, err)
	assert.Equal(t, resp.Order.OrderID, decoded.Order.OrderID)
	assert.Equal(t, resp.Order.Status, decoded.Order.Status)
	require.Len(t, decoded.Trades, 1)
	assert.Equal(t, resp.Trades[0].Price, decoded.Trades[0].Price)
	assert.Equal(t, resp.CancelledOrders, decoded.CancelledOrders)
	assert.Nil(t, decoded.Error)
}

func TestExecutionReportRoundtripWithError(t *testing.T) {
	resp := gateway.CommandResponse{
		Error: &gateway.ErrorView{Code: "POST_ONLY_WOULD_MATCH", Op: "Submit", Reason: "would cross"},
	}

	frame := EncodeExecutionReport(resp)
	_, body, err := readFrame(sliceReader(frame))
	require.NoError(t, err)

	decoded, err := DecodeExecutionReport(body)
	require.NoError(t, err)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, "POST_ONLY_WOULD_MATCH", decoded.Error.Code)
}

func TestSnapshotReportRoundtrip(t *testing.T) {
	view := gateway.SnapshotView{
		Symbol:   "AAPL",
		Sequence: 42,
		Bids:     []gateway.LevelView{{Price: "100", Qty: "10", Count: 2}},
		Asks:     []gateway.LevelView{{Price: "101", Qty: "5", Count: 1}},
	}

	frame := EncodeSnapshotReport(view, true)
	_, body, err := readFrame(sliceReader(frame))
	require.NoError(t, err)

	decoded, ok, err := DecodeSnapshotReport(body)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, view.Sequence, decoded.Sequence)
	require.Len(t, decoded.Bids, 1)
	assert.Equal(t, "100", decoded.Bids[0].Price)

	missingFrame := EncodeSnapshotReport(gateway.SnapshotView{}, false)
	_, missingBody, err := readFrame(sliceReader(missingFrame))
	require.NoError(t, err)
	_, ok, err = DecodeSnapshotReport(missingBody)
	require.NoError(t, err)
	assert.False(t, ok)
}

// sliceReader adapts a []byte to io.Reader for readFrame in these tests.
func sliceReader(b []byte) *byteReader { return &byteReader{b: b} }

type byteReader struct {
	b   []byte
	pos int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}
