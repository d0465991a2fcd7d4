package gateway

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/saiputravu/aurum/internal/common"
	"github.com/saiputravu/aurum/internal/engine"
)

func decodeSide(s string) (common.Side, bool) {
	switch strings.ToUpper(s) {
	case "BUY":
		return common.Buy, true
	case "SELL":
		return common.Sell, true
	default:
		return 0, false
	}
}

func decodeType(s string) (common.OrderType, bool) {
	switch strings.ToUpper(s) {
	case "LIMIT", "":
		return common.Limit, true
	case "MARKET":
		return common.Market, true
	default:
		return 0, false
	}
}

func decodeTIF(s string) (common.TIF, bool) {
	switch strings.ToUpper(s) {
	case "", "GTC":
		return common.GTC, true
	case "IOC":
		return common.IOC, true
	case "FOK":
		return common.FOK, true
	case "GTD":
		return common.GTD, true
	case "DAY":
		return common.DAY, true
	default:
		return 0, false
	}
}

func decodeSTP(s string) (common.STPMode, bool) {
	switch strings.ToUpper(s) {
	case "", "NONE":
		return common.STPNone, true
	case "CANCEL_RESTING":
		return common.STPCancelResting, true
	case "CANCEL_INCOMING":
		return common.STPCancelIncoming, true
	case "CANCEL_BOTH":
		return common.STPCancelBoth, true
	case "CANCEL_SMALLEST":
		return common.STPCancelSmallest, true
	case "DECREMENT_BOTH":
		return common.STPDecrementBoth, true
	default:
		return 0, false
	}
}

// decodeSubmit turns a wire-agnostic SubmitRequest into a common.Order ready
// for Engine.Submit, performing only the syntactic decode (string -> typed
// enum / decimal); the engine still runs the full temporal/semantic
// validation of §4.3.1 step 1 on the result.
func decodeSubmit(req SubmitRequest) (common.Order, *common.Error) {
	side, ok := decodeSide(req.Side)
	if !ok {
		return common.Order{}, common.NewValidationError("Submit", "side", "side must be BUY or SELL")
	}
	orderType, ok := decodeType(req.Type)
	if !ok {
		return common.Order{}, common.NewValidationError("Submit", "type", "type must be LIMIT or MARKET")
	}
	tif, ok := decodeTIF(req.TIF)
	if !ok {
		return common.Order{}, common.NewValidationError("Submit", "tif", "unrecognized time-in-force")
	}
	stp, ok := decodeSTP(req.STP)
	if !ok {
		return common.Order{}, common.NewValidationError("Submit", "stp", "unrecognized self-trade prevention mode")
	}
	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return common.Order{}, common.NewValidationError("Submit", "quantity", "quantity is not a valid decimal: "+err.Error())
	}

	order := common.Order{
		ID:       common.OrderID(req.ClientOrderID),
		Symbol:   req.Symbol,
		Side:     side,
		Type:     orderType,
		Quantity: qty,
		Filled:   common.ZeroQty,
		Status:   common.New,
		UserID:   common.UserID(req.UserID),
		TIF:      tif,
		STPMode:  stp,
		PostOnly: req.PostOnly,
		FeeTier:  req.FeeTier,
	}
	if req.ExpireTime != nil {
		order.ExpireTime = *req.ExpireTime
	}

	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			return common.Order{}, common.NewValidationError("Submit", "price", "price is not a valid decimal: "+err.Error())
		}
		order.Price = price
		order.HasPrice = true
	}

	return order, nil
}

func toErrorView(err *common.Error) *ErrorView {
	if err == nil {
		return nil
	}
	return &ErrorView{
		Code:    err.Code(),
		Op:      err.Op,
		Reason:  err.Reason,
		Field:   err.Field,
		OrderID: string(err.OrderID),
	}
}

func toOrderView(order common.Order) OrderView {
	view := OrderView{
		OrderID:      string(order.ID),
		Symbol:       order.Symbol,
		Side:         order.Side.String(),
		Type:         order.Type.String(),
		HasPrice:     order.HasPrice,
		Quantity:     order.Quantity.String(),
		Filled:       order.Filled.String(),
		Status:       order.Status.String(),
		UserID:       string(order.UserID),
		TIF:          order.TIF.String(),
		STP:          order.STPMode.String(),
		PostOnly:     order.PostOnly,
		FeeTier:      order.FeeTier,
		CancelReason: order.CancelReason.String(),
	}
	if order.HasPrice {
		view.Price = order.Price.String()
	}
	if !order.ExpireTime.IsZero() {
		view.HasExpiry = true
		view.ExpireTime = order.ExpireTime
	}
	return view
}

func toTradeView(trade common.Trade) TradeView {
	return TradeView{
		ID:           string(trade.ID),
		Symbol:       trade.Symbol,
		Price:        trade.Price.String(),
		Quantity:     trade.Quantity.String(),
		MakerOrderID: string(trade.MakerOrder),
		TakerOrderID: string(trade.TakerOrder),
		MakerUser:    string(trade.MakerUser),
		TakerUser:    string(trade.TakerUser),
		MakerFee:     trade.MakerFee.String(),
		TakerFee:     trade.TakerFee.String(),
		Timestamp:    trade.Timestamp,
		MakerSide:    trade.MakerSide.String(),
	}
}

func toCommandResponse(outcome engine.Outcome) CommandResponse {
	resp := CommandResponse{Order: toOrderView(outcome.Order)}
	for _, t := range outcome.Trades {
		resp.Trades = append(resp.Trades, toTradeView(t))
	}
	for _, id := range outcome.CancelledOrders {
		resp.CancelledOrders = append(resp.CancelledOrders, string(id))
	}
	resp.Error = toErrorView(outcome.Err)
	return resp
}
