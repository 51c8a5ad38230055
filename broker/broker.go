package broker

import (
	"context"
	"time"
)

// TradeGateway is the trading surface strategies talk to. The backtest
// ledger and the live terminal both implement it; callers pick one at
// construction time.
type TradeGateway interface {
	Account(ctx context.Context) (*Account, error)
	OpenPosition(ctx context.Context, req MarketOrderRequest) (bool, error)
	OpenPendingOrder(ctx context.Context, req PendingOrderRequest) (bool, error)
	ModifyPosition(ctx context.Context, req ModifyPositionRequest) (bool, error)
	ModifyPendingOrder(ctx context.Context, req ModifyOrderRequest) (bool, error)
	ClosePosition(ctx context.Context, ticket int64, comment string) (bool, error)
	CloseAllPositions(ctx context.Context, comment string) (bool, error)
	CancelPendingOrder(ctx context.Context, ticket int64) (bool, error)
}

type MarketOrderRequest struct {
	Symbol     string
	Type       OrderType
	Volume     float64
	StopLoss   float64
	TakeProfit float64
	Comment    string
}

type PendingOrderRequest struct {
	Symbol     string
	Type       OrderType
	Volume     float64
	Price      float64
	StopLimit  float64
	StopLoss   float64
	TakeProfit float64
	Expiration time.Time
	Comment    string
}

type ModifyPositionRequest struct {
	Ticket     int64
	StopLoss   float64
	TakeProfit float64
	Comment    string
}

type ModifyOrderRequest struct {
	Ticket     int64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	Expiration time.Time
	Comment    string
}

func Buy(symbol string, volume, sl, tp float64, comment string) MarketOrderRequest {
	return MarketOrderRequest{Symbol: symbol, Type: OrderTypeBuy, Volume: volume, StopLoss: sl, TakeProfit: tp, Comment: comment}
}

func Sell(symbol string, volume, sl, tp float64, comment string) MarketOrderRequest {
	return MarketOrderRequest{Symbol: symbol, Type: OrderTypeSell, Volume: volume, StopLoss: sl, TakeProfit: tp, Comment: comment}
}

func pending(typ OrderType, symbol string, volume, price, stopLimit, sl, tp float64, exp time.Time, comment string) PendingOrderRequest {
	return PendingOrderRequest{
		Symbol:     symbol,
		Type:       typ,
		Volume:     volume,
		Price:      price,
		StopLimit:  stopLimit,
		StopLoss:   sl,
		TakeProfit: tp,
		Expiration: exp,
		Comment:    comment,
	}
}

func BuyLimit(symbol string, volume, price, sl, tp float64, exp time.Time, comment string) PendingOrderRequest {
	return pending(OrderTypeBuyLimit, symbol, volume, price, 0, sl, tp, exp, comment)
}

func SellLimit(symbol string, volume, price, sl, tp float64, exp time.Time, comment string) PendingOrderRequest {
	return pending(OrderTypeSellLimit, symbol, volume, price, 0, sl, tp, exp, comment)
}

func BuyStop(symbol string, volume, price, sl, tp float64, exp time.Time, comment string) PendingOrderRequest {
	return pending(OrderTypeBuyStop, symbol, volume, price, 0, sl, tp, exp, comment)
}

func SellStop(symbol string, volume, price, sl, tp float64, exp time.Time, comment string) PendingOrderRequest {
	return pending(OrderTypeSellStop, symbol, volume, price, 0, sl, tp, exp, comment)
}

func BuyStopLimit(symbol string, volume, price, stopLimit, sl, tp float64, exp time.Time, comment string) PendingOrderRequest {
	return pending(OrderTypeBuyStopLimit, symbol, volume, price, stopLimit, sl, tp, exp, comment)
}

func SellStopLimit(symbol string, volume, price, stopLimit, sl, tp float64, exp time.Time, comment string) PendingOrderRequest {
	return pending(OrderTypeSellStopLimit, symbol, volume, price, stopLimit, sl, tp, exp, comment)
}
