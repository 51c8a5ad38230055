// market/instruments.go
package market

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrUnknownSymbol = errors.New("unknown symbol")

// SymbolContract holds the per-symbol trading constants.
type SymbolContract struct {
	Name           string
	Digits         int
	TickSize       float64
	ContractSize   float64
	BaseCurrency   string
	ProfitCurrency string
	VolumeMin      float64
	VolumeMax      float64
	VolumeStep     float64
}

// ValidateVolume reports whether v is tradable for this symbol.
// Zero limits are not enforced.
func (c SymbolContract) ValidateVolume(v float64) error {
	if v <= 0 {
		return fmt.Errorf("volume %v must be positive", v)
	}
	if c.VolumeMin > 0 && v < c.VolumeMin {
		return fmt.Errorf("volume %v below minimum %v for %s", v, c.VolumeMin, c.Name)
	}
	if c.VolumeMax > 0 && v > c.VolumeMax {
		return fmt.Errorf("volume %v above maximum %v for %s", v, c.VolumeMax, c.Name)
	}
	if c.VolumeStep > 0 {
		rem := decimal.NewFromFloat(v).Mod(decimal.NewFromFloat(c.VolumeStep))
		if !rem.IsZero() {
			return fmt.Errorf("volume %v is not a multiple of step %v for %s", v, c.VolumeStep, c.Name)
		}
	}
	return nil
}

func fx(name string, digits int) SymbolContract {
	return SymbolContract{
		Name:           name,
		Digits:         digits,
		TickSize:       pow10(-digits),
		ContractSize:   100_000,
		BaseCurrency:   name[:3],
		ProfitCurrency: name[3:],
		VolumeMin:      0.01,
		VolumeMax:      500,
		VolumeStep:     0.01,
	}
}

func pow10(n int) float64 {
	v, _ := decimal.New(1, int32(n)).Float64()
	return v
}

// DefaultContracts are the FX majors most backtests need, including the
// USD legs used for currency conversion.
var DefaultContracts = map[string]SymbolContract{
	"EURUSD": fx("EURUSD", 5),
	"GBPUSD": fx("GBPUSD", 5),
	"USDJPY": fx("USDJPY", 3),
	"USDCHF": fx("USDCHF", 5),
	"EURGBP": fx("EURGBP", 5),
	"AUDUSD": fx("AUDUSD", 5),
}
