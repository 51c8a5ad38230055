package broker

import "errors"

var (
	ErrCouldNotSelectPosition = errors.New("could not select position")
	ErrOrderNotFound          = errors.New("order not found")

	ErrInvalidStopLoss   = errors.New("invalid stop loss")
	ErrInvalidTakeProfit = errors.New("invalid take profit")
	ErrInvalidStopLimit  = errors.New("invalid stop limit")
	ErrInvalidOrderType  = errors.New("invalid order type")
	ErrInvalidVolume     = errors.New("invalid volume")
	ErrInvalidExpiration = errors.New("invalid expiration")
)
