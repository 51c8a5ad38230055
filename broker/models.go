// broker/models.go
package broker

import "time"

// Position is an open exposure on one symbol.
type Position struct {
	Ticket       int64
	Identifier   int64
	Symbol       string
	Type         PositionType
	Volume       float64
	PriceOpen    float64
	PriceCurrent float64
	StopLoss     float64
	TakeProfit   float64
	Profit       float64
	Swap         float64
	Time         time.Time
	TimeUpdate   time.Time
	Magic        int64
	Comment      string
}

// Order is a pending order waiting to be triggered.
type Order struct {
	Ticket         int64
	Symbol         string
	Type           OrderType
	VolumeInitial  float64
	VolumeCurrent  float64
	PriceOpen      float64
	PriceStopLimit float64
	PriceCurrent   float64
	StopLoss       float64
	TakeProfit     float64
	TypeTime       TimeType
	Expiration     time.Time
	State          OrderState
	TimeSetup      time.Time
	Magic          int64
	Comment        string
}

// DealReason records what initiated a deal.
type DealReason int

const (
	DealReasonExpert DealReason = iota
	DealReasonSL
	DealReasonTP
	DealReasonStopOut
)

func (r DealReason) String() string {
	switch r {
	case DealReasonSL:
		return "sl"
	case DealReasonTP:
		return "tp"
	case DealReasonStopOut:
		return "so"
	}
	return "expert"
}

// Deal is one executed trade. Deals are never modified after creation.
type Deal struct {
	Ticket     int64
	Order      int64
	PositionID int64
	Symbol     string
	Type       DealType
	Entry      DealEntry
	Volume     float64
	Price      float64
	Commission float64
	Swap       float64
	Fee        float64
	Profit     float64
	Time       time.Time
	Magic      int64
	Reason     DealReason
	Comment    string
}
