// Package net adapts the gateway's Go-level command/query shapes onto one
// concrete transport: a length-prefixed binary protocol over TCP, in the
// teacher's style (github.com/rs/zerolog for logging, a worker pool over a
// tomb.Tomb for connection lifecycle). Unlike the teacher's original
// messages.go — which packed prices as fixed-width float64 and truncated
// UUIDs into 16 raw bytes, silently corrupting them — every variable field
// here is length-prefixed, and decimals travel as their exact string form,
// per §3's decimal-arithmetic mandate and §6's "numeric fields are exact
// decimals encoded as strings" wire rule.
package net

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/saiputravu/aurum/internal/gateway"
)

// MessageType identifies the kind of request frame sent by a client.
type MessageType uint16

const (
	Heartbeat MessageType = iota
	SubmitOrder
	CancelOrder
	ModifyOrder
	SnapshotRequest
	GetOrderRequest
)

// ReportType identifies the kind of response frame sent by the server.
type ReportType uint16

const (
	ExecutionReport ReportType = iota
	OrderReport
	SnapshotReportType
	ErrorReport
	HeartbeatReport
)

var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrMessageTruncated   = errors.New("message truncated")
)

// --- wire primitives ---------------------------------------------------

// writer accumulates a frame body; the caller prefixes it with a 4-byte
// length and 2-byte type before writing it to the connection.
type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *writer) bool(v bool)  { if v { w.u8(1) } else { w.u8(0) } }
func (w *writer) u16(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }
func (w *writer) u64(v uint64) { w.buf = binary.BigEndian.AppendUint64(w.buf, v) }
func (w *writer) i64(v int64)  { w.u64(uint64(v)) }

func (w *writer) str(s string) {
	w.u16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) time(t time.Time) {
	if t.IsZero() {
		w.bool(false)
		return
	}
	w.bool(true)
	w.i64(t.UnixNano())
}

// reader consumes a frame body sequentially; any short read returns
// ErrMessageTruncated rather than panicking on an out-of-range slice.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) u8() (uint8, error) {
	if r.remaining() < 1 {
		return 0, ErrMessageTruncated
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) boolean() (bool, error) {
	v, err := r.u8()
	return v != 0, err
}

func (r *reader) u16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, ErrMessageTruncated
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos : r.pos+2])
	r.pos += 2
	return v, nil
}

func (r *reader) u64() (uint64, error) {
	if r.remaining() < 8 {
		return 0, ErrMessageTruncated
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *reader) i64() (int64, error) {
	v, err := r.u64()
	return int64(v), err
}

func (r *reader) str() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	if r.remaining() < int(n) {
		return "", ErrMessageTruncated
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *reader) readTime() (time.Time, error) {
	has, err := r.boolean()
	if err != nil || !has {
		return time.Time{}, err
	}
	nanos, err := r.i64()
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, nanos).UTC(), nil
}

// frameHeaderLen is the 4-byte length prefix + 2-byte type tag every frame
// (request or report) carries ahead of its body.
const frameHeaderLen = 4 + 2

// writeFrame prefixes body with its total length and typ, ready for a single
// conn.Write.
func writeFrame(typ uint16, body []byte) []byte {
	frame := make([]byte, frameHeaderLen+len(body))
	binary.BigEndian.PutUint32(frame[0:4], uint32(len(body)+2))
	binary.BigEndian.PutUint16(frame[4:6], typ)
	copy(frame[6:], body)
	return frame
}

// ReadFrame reads one complete length-prefixed frame from r, returning its
// type tag and body. Exported for callers on the other side of the wire
// (cmd/client) that only need to read report frames, not dispatch requests.
func ReadFrame(r io.Reader) (uint16, []byte, error) {
	return readFrame(r)
}

// readFrame reads one complete length-prefixed frame from r, returning its
// type tag and body.
func readFrame(r io.Reader) (uint16, []byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return 0, nil, err
	}
	total := binary.BigEndian.Uint32(lenBuf[:])
	if total < 2 {
		return 0, nil, ErrMessageTruncated
	}
	body := make([]byte, total)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}
	typ := binary.BigEndian.Uint16(body[0:2])
	return typ, body[2:], nil
}

// --- request encode/decode ----------------------------------------------

func EncodeSubmit(req gateway.SubmitRequest) []byte {
	w := &writer{}
	w.str(req.Symbol)
	w.str(req.Side)
	w.str(req.Type)
	w.str(req.Price)
	w.str(req.Quantity)
	w.str(req.UserID)
	w.str(req.TIF)
	w.str(req.STP)
	w.bool(req.PostOnly)
	if req.ExpireTime != nil {
		w.time(*req.ExpireTime)
	} else {
		w.time(time.Time{})
	}
	w.str(req.FeeTier)
	w.str(req.ClientOrderID)
	return writeFrame(uint16(SubmitOrder), w.buf)
}

func decodeSubmit(body []byte) (gateway.SubmitRequest, error) {
	r := &reader{buf: body}
	var req gateway.SubmitRequest
	var err error
	if req.Symbol, err = r.str(); err != nil {
		return req, err
	}
	if req.Side, err = r.str(); err != nil {
		return req, err
	}
	if req.Type, err = r.str(); err != nil {
		return req, err
	}
	if req.Price, err = r.str(); err != nil {
		return req, err
	}
	if req.Quantity, err = r.str(); err != nil {
		return req, err
	}
	if req.UserID, err = r.str(); err != nil {
		return req, err
	}
	if req.TIF, err = r.str(); err != nil {
		return req, err
	}
	if req.STP, err = r.str(); err != nil {
		return req, err
	}
	if req.PostOnly, err = r.boolean(); err != nil {
		return req, err
	}
	expiry, err := r.readTime()
	if err != nil {
		return req, err
	}
	if !expiry.IsZero() {
		req.ExpireTime = &expiry
	}
	if req.FeeTier, err = r.str(); err != nil {
		return req, err
	}
	if req.ClientOrderID, err = r.str(); err != nil {
		return req, err
	}
	return req, nil
}

func EncodeCancel(req gateway.CancelRequest) []byte {
	w := &writer{}
	w.str(req.Symbol)
	w.str(req.OrderID)
	w.str(req.UserID)
	return writeFrame(uint16(CancelOrder), w.buf)
}

func decodeCancel(body []byte) (gateway.CancelRequest, error) {
	r := &reader{buf: body}
	var req gateway.CancelRequest
	var err error
	if req.Symbol, err = r.str(); err != nil {
		return req, err
	}
	if req.OrderID, err = r.str(); err != nil {
		return req, err
	}
	req.UserID, err = r.str()
	return req, err
}

func EncodeModify(req gateway.ModifyRequest) []byte {
	w := &writer{}
	w.str(req.Symbol)
	w.str(req.OrderID)
	w.str(req.UserID)
	w.str(req.NewPrice)
	w.str(req.NewQuantity)
	return writeFrame(uint16(ModifyOrder), w.buf)
}

func decodeModify(body []byte) (gateway.ModifyRequest, error) {
	r := &reader{buf: body}
	var req gateway.ModifyRequest
	var err error
	if req.Symbol, err = r.str(); err != nil {
		return req, err
	}
	if req.OrderID, err = r.str(); err != nil {
		return req, err
	}
	if req.UserID, err = r.str(); err != nil {
		return req, err
	}
	if req.NewPrice, err = r.str(); err != nil {
		return req, err
	}
	req.NewQuantity, err = r.str()
	return req, err
}

type snapshotRequest struct {
	Symbol string
	Depth  uint16
}

func EncodeSnapshotRequest(symbol string, depth int) []byte {
	w := &writer{}
	w.str(symbol)
	w.u16(uint16(depth))
	return writeFrame(uint16(SnapshotRequest), w.buf)
}

func decodeSnapshotRequest(body []byte) (snapshotRequest, error) {
	r := &reader{buf: body}
	var req snapshotRequest
	var err error
	if req.Symbol, err = r.str(); err != nil {
		return req, err
	}
	depth, err := r.u16()
	req.Depth = depth
	return req, err
}

type getOrderRequest struct {
	Symbol  string
	OrderID string
}

func EncodeGetOrderRequest(symbol, orderID string) []byte {
	w := &writer{}
	w.str(symbol)
	w.str(orderID)
	return writeFrame(uint16(GetOrderRequest), w.buf)
}

func decodeGetOrderRequest(body []byte) (getOrderRequest, error) {
	r := &reader{buf: body}
	var req getOrderRequest
	var err error
	if req.Symbol, err = r.str(); err != nil {
		return req, err
	}
	req.OrderID, err = r.str()
	return req, err
}

// --- response encode/decode ----------------------------------------------

func encodeOrderView(w *writer, o gateway.OrderView) {
	w.str(o.OrderID)
	w.str(o.Symbol)
	w.str(o.Side)
	w.str(o.Type)
	w.bool(o.HasPrice)
	w.str(o.Price)
	w.str(o.Quantity)
	w.str(o.Filled)
	w.str(o.Status)
	w.str(o.UserID)
	w.str(o.TIF)
	w.str(o.STP)
	w.bool(o.PostOnly)
	if o.HasExpiry {
		w.time(o.ExpireTime)
	} else {
		w.time(time.Time{})
	}
	w.str(o.FeeTier)
	w.str(o.CancelReason)
}

func decodeOrderView(r *reader) (gateway.OrderView, error) {
	var o gateway.OrderView
	var err error
	if o.OrderID, err = r.str(); err != nil {
		return o, err
	}
	if o.Symbol, err = r.str(); err != nil {
		return o, err
	}
	if o.Side, err = r.str(); err != nil {
		return o, err
	}
	if o.Type, err = r.str(); err != nil {
		return o, err
	}
	if o.HasPrice, err = r.boolean(); err != nil {
		return o, err
	}
	if o.Price, err = r.str(); err != nil {
		return o, err
	}
	if o.Quantity, err = r.str(); err != nil {
		return o, err
	}
	if o.Filled, err = r.str(); err != nil {
		return o, err
	}
	if o.Status, err = r.str(); err != nil {
		return o, err
	}
	if o.UserID, err = r.str(); err != nil {
		return o, err
	}
	if o.TIF, err = r.str(); err != nil {
		return o, err
	}
	if o.STP, err = r.str(); err != nil {
		return o, err
	}
	if o.PostOnly, err = r.boolean(); err != nil {
		return o, err
	}
	expiry, err := r.readTime()
	if err != nil {
		return o, err
	}
	if !expiry.IsZero() {
		o.HasExpiry = true
		o.ExpireTime = expiry
	}
	if o.FeeTier, err = r.str(); err != nil {
		return o, err
	}
	o.CancelReason, err = r.str()
	return o, err
}

func encodeTradeView(w *writer, t gateway.TradeView) {
	w.str(t.ID)
	w.str(t.Symbol)
	w.str(t.Price)
	w.str(t.Quantity)
	w.str(t.MakerOrderID)
	w.str(t.TakerOrderID)
	w.str(t.MakerUser)
	w.str(t.TakerUser)
	w.str(t.MakerFee)
	w.str(t.TakerFee)
	w.i64(t.Timestamp.UnixNano())
	w.str(t.MakerSide)
}

func decodeTradeView(r *reader) (gateway.TradeView, error) {
	var t gateway.TradeView
	var err error
	if t.ID, err = r.str(); err != nil {
		return t, err
	}
	if t.Symbol, err = r.str(); err != nil {
		return t, err
	}
	if t.Price, err = r.str(); err != nil {
		return t, err
	}
	if t.Quantity, err = r.str(); err != nil {
		return t, err
	}
	if t.MakerOrderID, err = r.str(); err != nil {
		return t, err
	}
	if t.TakerOrderID, err = r.str(); err != nil {
		return t, err
	}
	if t.MakerUser, err = r.str(); err != nil {
		return t, err
	}
	if t.TakerUser, err = r.str(); err != nil {
		return t, err
	}
	if t.MakerFee, err = r.str(); err != nil {
		return t, err
	}
	if t.TakerFee, err = r.str(); err != nil {
		return t, err
	}
	nanos, err := r.i64()
	if err != nil {
		return t, err
	}
	t.Timestamp = time.Unix(0, nanos).UTC()
	t.MakerSide, err = r.str()
	return t, err
}

func encodeErrorView(w *writer, e *gateway.ErrorView) {
	if e == nil {
		w.bool(false)
		return
	}
	w.bool(true)
	w.str(e.Code)
	w.str(e.Op)
	w.str(e.Reason)
	w.str(e.Field)
	w.str(e.OrderID)
}

func decodeErrorView(r *reader) (*gateway.ErrorView, error) {
	has, err := r.boolean()
	if err != nil || !has {
		return nil, err
	}
	var e gateway.ErrorView
	if e.Code, err = r.str(); err != nil {
		return nil, err
	}
	if e.Op, err = r.str(); err != nil {
		return nil, err
	}
	if e.Reason, err = r.str(); err != nil {
		return nil, err
	}
	if e.Field, err = r.str(); err != nil {
		return nil, err
	}
	e.OrderID, err = r.str()
	return &e, err
}

// EncodeExecutionReport serializes a CommandResponse (the reply to
// Submit/Cancel/Modify) as an ExecutionReport frame.
func EncodeExecutionReport(resp gateway.CommandResponse) []byte {
	w := &writer{}
	encodeOrderView(w, resp.Order)
	w.u16(uint16(len(resp.Trades)))
	for _, t := range resp.Trades {
		encodeTradeView(w, t)
	}
	w.u16(uint16(len(resp.CancelledOrders)))
	for _, id := range resp.CancelledOrders {
		w.str(id)
	}
	encodeErrorView(w, resp.Error)
	return writeFrame(uint16(ExecutionReport), w.buf)
}

// DecodeExecutionReport parses an ExecutionReport frame body back into a
// CommandResponse, used by clients of this transport.
func DecodeExecutionReport(body []byte) (gateway.CommandResponse, error) {
	r := &reader{buf: body}
	var resp gateway.CommandResponse
	order, err := decodeOrderView(r)
	if err != nil {
		return resp, err
	}
	resp.Order = order

	tradeCount, err := r.u16()
	if err != nil {
		return resp, err
	}
	for i := uint16(0); i < tradeCount; i++ {
		trade, err := decodeTradeView(r)
		if err != nil {
			return resp, err
		}
		resp.Trades = append(resp.Trades, trade)
	}

	cancelCount, err := r.u16()
	if err != nil {
		return resp, err
	}
	for i := uint16(0); i < cancelCount; i++ {
		id, err := r.str()
		if err != nil {
			return resp, err
		}
		resp.CancelledOrders = append(resp.CancelledOrders, id)
	}

	resp.Error, err = decodeErrorView(r)
	return resp, err
}

// EncodeOrderReport serializes a GetOrder reply.
func EncodeOrderReport(view gateway.OrderView, found bool) []byte {
	w := &writer{}
	w.bool(found)
	if found {
		encodeOrderView(w, view)
	}
	return writeFrame(uint16(OrderReport), w.buf)
}

// DecodeOrderReport parses an OrderReport frame.
func DecodeOrderReport(body []byte) (gateway.OrderView, bool, error) {
	r := &reader{buf: body}
	found, err := r.boolean()
	if err != nil || !found {
		return gateway.OrderView{}, false, err
	}
	view, err := decodeOrderView(r)
	return view, true, err
}

func encodeLevels(w *writer, levels []gateway.LevelView) {
	w.u16(uint16(len(levels)))
	for _, l := range levels {
		w.str(l.Price)
		w.str(l.Qty)
		w.u16(uint16(l.Count))
	}
}

func decodeLevels(r *reader) ([]gateway.LevelView, error) {
	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	levels := make([]gateway.LevelView, 0, n)
	for i := uint16(0); i < n; i++ {
		var l gateway.LevelView
		if l.Price, err = r.str(); err != nil {
			return nil, err
		}
		if l.Qty, err = r.str(); err != nil {
			return nil, err
		}
		count, err := r.u16()
		if err != nil {
			return nil, err
		}
		l.Count = int(count)
		levels = append(levels, l)
	}
	return levels, nil
}

// EncodeSnapshotReport serializes a Snapshot reply.
func EncodeSnapshotReport(view gateway.SnapshotView, found bool) []byte {
	w := &writer{}
	w.bool(found)
	if found {
		w.str(view.Symbol)
		w.u64(view.Sequence)
		encodeLevels(w, view.Bids)
		encodeLevels(w, view.Asks)
	}
	return writeFrame(uint16(SnapshotReportType), w.buf)
}

// DecodeSnapshotReport parses a SnapshotReport frame.
func DecodeSnapshotReport(body []byte) (gateway.SnapshotView, bool, error) {
	r := &reader{buf: body}
	found, err := r.boolean()
	if err != nil || !found {
		return gateway.SnapshotView{}, false, err
	}
	var view gateway.SnapshotView
	if view.Symbol, err = r.str(); err != nil {
		return view, false, err
	}
	if view.Sequence, err = r.u64(); err != nil {
		return view, false, err
	}
	if view.Bids, err = decodeLevels(r); err != nil {
		return view, false, err
	}
	view.Asks, err = decodeLevels(r)
	return view, true, err
}

// EncodeErrorReport serializes a transport-level error (malformed frame,
// unknown message type) that never made it to the gateway.
func EncodeErrorReport(code, reason string) []byte {
	w := &writer{}
	w.str(code)
	w.str(reason)
	return writeFrame(uint16(ErrorReport), w.buf)
}

// DecodeErrorReport parses a transport-level ErrorReport frame.
func DecodeErrorReport(body []byte) (code, reason string, err error) {
	r := &reader{buf: body}
	if code, err = r.str(); err != nil {
		return "", "", err
	}
	reason, err = r.str()
	return code, reason, err
}

func fmtUnknownType(typ uint16) error {
	return fmt.Errorf("%w: %d", ErrInvalidMessageType, typ)
}
