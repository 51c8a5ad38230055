package broker

import (
	"fmt"
	"time"
)

// ValidateOrderType checks that typ is allowed for action.
func ValidateOrderType(action TradeAction, typ OrderType) error {
	ok := true
	switch action {
	case TradeActionDeal:
		ok = typ.IsMarket()
	case TradeActionPending:
		ok = typ.IsPending()
	case TradeActionCloseBy:
		ok = typ == OrderTypeCloseBy
	}
	if !ok {
		return fmt.Errorf("%w: %s not allowed for this action", ErrInvalidOrderType, typ)
	}
	return nil
}

// ValidatePrices checks stop-limit, stop-loss and take-profit levels
// against the order price and direction. Zero levels are unset.
func ValidatePrices(price float64, typ OrderType, sl, tp, stopLimit float64) error {
	buy := typ == OrderTypeBuy || typ == OrderTypeBuyLimit || typ == OrderTypeBuyStop
	sell := typ == OrderTypeSell || typ == OrderTypeSellLimit || typ == OrderTypeSellStop

	if stopLimit != 0 &&
		((typ == OrderTypeBuyStopLimit && stopLimit >= price) ||
			(typ == OrderTypeSellStopLimit && stopLimit <= price)) {
		return fmt.Errorf("%w: %v against price %v", ErrInvalidStopLimit, stopLimit, price)
	}

	if sl != 0 &&
		(sl < 0 ||
			(buy && sl >= price) ||
			(sell && sl <= price) ||
			(typ == OrderTypeBuyStopLimit && sl >= stopLimit) ||
			(typ == OrderTypeSellStopLimit && sl <= stopLimit)) {
		return fmt.Errorf("%w: %v for %s at %v", ErrInvalidStopLoss, sl, typ, price)
	}

	if tp != 0 &&
		(tp < 0 ||
			(buy && tp <= price) ||
			(sell && tp >= price) ||
			(typ == OrderTypeBuyStopLimit && tp <= stopLimit) ||
			(typ == OrderTypeSellStopLimit && tp >= stopLimit)) {
		return fmt.Errorf("%w: %v for %s at %v", ErrInvalidTakeProfit, tp, typ, price)
	}
	return nil
}

// ValidateExpiration rejects an expiration that is not after now.
// A zero expiration means good-till-cancel.
func ValidateExpiration(expiration, now time.Time) error {
	if expiration.IsZero() {
		return nil
	}
	if !expiration.After(now) {
		return fmt.Errorf("%w: %s is not after %s", ErrInvalidExpiration, expiration, now)
	}
	return nil
}

// TimeTypeFor returns the expiry policy implied by expiration.
func TimeTypeFor(expiration time.Time) TimeType {
	if expiration.IsZero() {
		return TimeGTC
	}
	return TimeSpecified
}
