package broker

// OrderType is the direction and execution style of an order.
type OrderType int

const (
	OrderTypeBuy OrderType = iota
	OrderTypeSell
	OrderTypeBuyLimit
	OrderTypeSellLimit
	OrderTypeBuyStop
	OrderTypeSellStop
	OrderTypeBuyStopLimit
	OrderTypeSellStopLimit
	OrderTypeCloseBy
)

var orderTypeNames = map[OrderType]string{
	OrderTypeBuy:           "buy",
	OrderTypeSell:          "sell",
	OrderTypeBuyLimit:      "buy_limit",
	OrderTypeSellLimit:     "sell_limit",
	OrderTypeBuyStop:       "buy_stop",
	OrderTypeSellStop:      "sell_stop",
	OrderTypeBuyStopLimit:  "buy_stop_limit",
	OrderTypeSellStopLimit: "sell_stop_limit",
	OrderTypeCloseBy:       "close_by",
}

func (t OrderType) String() string {
	if s, ok := orderTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// IsBuy reports whether the order adds long exposure once filled.
func (t OrderType) IsBuy() bool {
	switch t {
	case OrderTypeBuy, OrderTypeBuyLimit, OrderTypeBuyStop, OrderTypeBuyStopLimit:
		return true
	}
	return false
}

// IsSell reports whether the order adds short exposure once filled.
func (t OrderType) IsSell() bool {
	switch t {
	case OrderTypeSell, OrderTypeSellLimit, OrderTypeSellStop, OrderTypeSellStopLimit:
		return true
	}
	return false
}

func (t OrderType) IsMarket() bool {
	return t == OrderTypeBuy || t == OrderTypeSell
}

func (t OrderType) IsPending() bool {
	return t >= OrderTypeBuyLimit && t <= OrderTypeSellStopLimit
}

// PositionType is the direction of an open position.
type PositionType int

const (
	PositionTypeBuy PositionType = iota
	PositionTypeSell
)

func (t PositionType) String() string {
	if t == PositionTypeSell {
		return "sell"
	}
	return "buy"
}

// Opposite returns the market order type that reduces this position.
func (t PositionType) Opposite() OrderType {
	if t == PositionTypeBuy {
		return OrderTypeSell
	}
	return OrderTypeBuy
}

// DealType is the direction of an executed deal.
type DealType int

const (
	DealTypeBuy DealType = iota
	DealTypeSell
	DealTypeBalance
)

func (t DealType) String() string {
	switch t {
	case DealTypeBuy:
		return "buy"
	case DealTypeSell:
		return "sell"
	case DealTypeBalance:
		return "balance"
	}
	return "unknown"
}

// DealEntry classifies how a deal changed exposure.
type DealEntry int

const (
	DealEntryIn DealEntry = iota
	DealEntryOut
	DealEntryInOut
	DealEntryOutBy
)

func (e DealEntry) String() string {
	switch e {
	case DealEntryIn:
		return "in"
	case DealEntryOut:
		return "out"
	case DealEntryInOut:
		return "inout"
	case DealEntryOutBy:
		return "out_by"
	}
	return "unknown"
}

type OrderState int

const (
	OrderStatePlaced OrderState = iota
	OrderStateFilled
	OrderStateCanceled
	OrderStateExpired
)

func (s OrderState) String() string {
	switch s {
	case OrderStatePlaced:
		return "placed"
	case OrderStateFilled:
		return "filled"
	case OrderStateCanceled:
		return "canceled"
	case OrderStateExpired:
		return "expired"
	}
	return "unknown"
}

// TimeType is the expiry policy of a pending order.
type TimeType int

const (
	TimeGTC TimeType = iota
	TimeSpecified
)

func (t TimeType) String() string {
	if t == TimeSpecified {
		return "specified"
	}
	return "gtc"
}

// MarginMode selects netting or hedging position accounting.
type MarginMode int

const (
	MarginModeNetting MarginMode = iota
	MarginModeHedging
)

func (m MarginMode) String() string {
	if m == MarginModeHedging {
		return "hedging"
	}
	return "netting"
}

// ParseMarginMode accepts "netting" or "hedging".
func ParseMarginMode(s string) (MarginMode, bool) {
	switch s {
	case "netting", "":
		return MarginModeNetting, true
	case "hedging":
		return MarginModeHedging, true
	}
	return MarginModeNetting, false
}

// TradeAction is the kind of trade request being made.
type TradeAction int

const (
	TradeActionDeal TradeAction = iota
	TradeActionPending
	TradeActionSLTP
	TradeActionModify
	TradeActionRemove
	TradeActionCloseBy
)

func (a TradeAction) String() string {
	switch a {
	case TradeActionDeal:
		return "deal"
	case TradeActionPending:
		return "pending"
	case TradeActionSLTP:
		return "sltp"
	case TradeActionModify:
		return "modify"
	case TradeActionRemove:
		return "remove"
	case TradeActionCloseBy:
		return "close_by"
	}
	return "unknown"
}
