// Package gateway implements the thin command/query adapter of §4.5: it
// decodes external, string-encoded requests into core commands, dispatches
// them to an *engine.Engine, and re-encodes the outcome as the external
// response shapes of §6. It holds no matching logic and no book state of its
// own — every field here either passes straight through to the engine or
// formats one of its replies.
package gateway

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/saiputravu/aurum/internal/common"
	"github.com/saiputravu/aurum/internal/engine"
)

// Gateway adapts the external command protocol onto one venue's Engine.
type Gateway struct {
	Engine *engine.Engine
	Depth  int // default snapshot depth for Snapshot requests that omit one
}

// New constructs a Gateway over eng, using depth as the default snapshot
// size when a caller's request does not specify one.
func New(eng *engine.Engine, depth int) *Gateway {
	return &Gateway{Engine: eng, Depth: depth}
}

// SubmitRequest is the wire-agnostic shape of a Submit command (§6): every
// numeric field is a decimal string, and side/type/tif/stp are strings from
// the closed enumerations of §3.
type SubmitRequest struct {
	Symbol        string
	Side          string
	Type          string
	Price         string // required for Limit, must be empty for Market
	Quantity      string
	UserID        string
	TIF           string // empty defaults to GTC
	STP           string // empty defaults to NONE
	PostOnly      bool
	ExpireTime    *time.Time
	FeeTier       string
	ClientOrderID string // optional caller-supplied id, passed through as the OrderID
}

// CancelRequest is the wire-agnostic shape of a Cancel command.
type CancelRequest struct {
	Symbol  string
	OrderID string
	UserID  string
}

// ModifyRequest is the wire-agnostic shape of a Modify command. NewPrice and
// NewQuantity are optional; an empty string leaves that field unchanged is
// NOT supported by the core (Modify always replaces both), so the gateway
// fills any omitted field from the order's current value before dispatch.
type ModifyRequest struct {
	Symbol      string
	OrderID     string
	UserID      string
	NewPrice    string
	NewQuantity string
}

// CommandResponse is the unified external shape returned by Submit, Cancel,
// and Modify: an order snapshot, any trades produced, any ids cancelled as a
// side effect (e.g. STP), and a rejection reason if the command failed.
type CommandResponse struct {
	Order           OrderView
	Trades          []TradeView
	CancelledOrders []string
	Error           *ErrorView
}

// OrderView is the external representation of common.Order: decimals as
// strings, enums as their wire strings (§3, §6).
type OrderView struct {
	OrderID      string
	Symbol       string
	Side         string
	Type         string
	HasPrice     bool
	Price        string
	Quantity     string
	Filled       string
	Status       string
	UserID       string
	TIF          string
	STP          string
	PostOnly     bool
	HasExpiry    bool
	ExpireTime   time.Time
	FeeTier      string
	CancelReason string
}

// TradeView is the external representation of common.Trade.
type TradeView struct {
	ID           string
	Symbol       string
	Price        string
	Quantity     string
	MakerOrderID string
	TakerOrderID string
	MakerUser    string
	TakerUser    string
	MakerFee     string
	TakerFee     string
	Timestamp    time.Time
	MakerSide    string
}

// ErrorView is the wire form of §7's error classes: a stable Code string
// (§6) plus the descriptive context a caller can use to explain the
// rejection, never used to drive further branching beyond Code.
type ErrorView struct {
	Code    string
	Op      string
	Reason  string
	Field   string
	OrderID string
}

// SnapshotView is the external shape of a Snapshot query (§6).
type SnapshotView struct {
	Symbol   string
	Bids     []LevelView
	Asks     []LevelView
	Sequence uint64
}

// LevelView is one (price, aggregate quantity, order count) depth entry.
type LevelView struct {
	Price string
	Qty   string
	Count int
}

// Submit decodes req, dispatches it to the engine, and returns the external
// response shape. A decode failure (bad enum string, unparsable decimal) is
// reported as an INVALID_ARGUMENT CommandResponse, never as a Go error — the
// gateway never hands the caller anything but the §6 response/error shapes.
func (g *Gateway) Submit(req SubmitRequest) CommandResponse {
	order, verr := decodeSubmit(req)
	if verr != nil {
		return CommandResponse{Error: toErrorView(verr)}
	}

	outcome := g.Engine.Submit(order)
	return toCommandResponse(outcome)
}

// Cancel dispatches a Cancel command.
func (g *Gateway) Cancel(req CancelRequest) CommandResponse {
	outcome := g.Engine.Cancel(req.Symbol, common.OrderID(req.OrderID), common.UserID(req.UserID))
	return toCommandResponse(outcome)
}

// Modify dispatches a Modify command. Either NewPrice or NewQuantity may be
// left blank, in which case the gateway fills it from the order's current
// resting value before calling the engine, since the core's Modify always
// replaces both fields atomically.
func (g *Gateway) Modify(req ModifyRequest) CommandResponse {
	current, ok := g.Engine.GetOrder(req.Symbol, common.OrderID(req.OrderID))
	if !ok {
		return CommandResponse{Error: &ErrorView{Code: common.KindNotFound.Code(), Op: "Modify", Reason: "order not found", OrderID: req.OrderID}}
	}

	newPrice := current.Price
	if req.NewPrice != "" {
		p, err := decimal.NewFromString(req.NewPrice)
		if err != nil {
			return CommandResponse{Error: &ErrorView{Code: common.KindInvalidArgument.Code(), Op: "Modify", Field: "new_price", Reason: err.Error()}}
		}
		newPrice = p
	}

	newQty := current.Remaining()
	if req.NewQuantity != "" {
		q, err := decimal.NewFromString(req.NewQuantity)
		if err != nil {
			return CommandResponse{Error: &ErrorView{Code: common.KindInvalidArgument.Code(), Op: "Modify", Field: "new_quantity", Reason: err.Error()}}
		}
		newQty = q
	}

	outcome := g.Engine.Modify(req.Symbol, common.OrderID(req.OrderID), common.UserID(req.UserID), newPrice, newQty)
	return toCommandResponse(outcome)
}

// Snapshot serves a depth query directly from the book (§4.2 Snapshot).
func (g *Gateway) Snapshot(symbol string, depth int) (SnapshotView, bool) {
	if depth <= 0 {
		depth = g.Depth
	}
	bids, asks, seq, ok := g.Engine.BookSnapshot(symbol, depth)
	if !ok {
		return SnapshotView{}, false
	}
	view := SnapshotView{Symbol: symbol, Sequence: seq}
	for _, l := range bids {
		view.Bids = append(view.Bids, LevelView{Price: l.Price.String(), Qty: l.Qty.String(), Count: l.Count})
	}
	for _, l := range asks {
		view.Asks = append(view.Asks, LevelView{Price: l.Price.String(), Qty: l.Qty.String(), Count: l.Count})
	}
	return view, true
}

// GetOrder returns a point-in-time view of a resident order.
func (g *Gateway) GetOrder(symbol, orderID string) (OrderView, bool) {
	order, ok := g.Engine.GetOrder(symbol, common.OrderID(orderID))
	if !ok {
		return OrderView{}, false
	}
	return toOrderView(order), true
}
