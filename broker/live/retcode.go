package live

import "fmt"

// Trade server return codes.
const (
	RetcodeRequote           uint32 = 10004
	RetcodeReject            uint32 = 10006
	RetcodeCancel            uint32 = 10007
	RetcodePlaced            uint32 = 10008
	RetcodeDone              uint32 = 10009
	RetcodeDonePartial       uint32 = 10010
	RetcodeError             uint32 = 10011
	RetcodeTimeout           uint32 = 10012
	RetcodeInvalid           uint32 = 10013
	RetcodeInvalidVolume     uint32 = 10014
	RetcodeInvalidPrice      uint32 = 10015
	RetcodeInvalidStops      uint32 = 10016
	RetcodeTradeDisabled     uint32 = 10017
	RetcodeMarketClosed      uint32 = 10018
	RetcodeNoMoney           uint32 = 10019
	RetcodePriceChanged      uint32 = 10020
	RetcodePriceOff          uint32 = 10021
	RetcodeInvalidExpiration uint32 = 10022
	RetcodeTooManyRequests   uint32 = 10024
	RetcodeNoChanges         uint32 = 10025
	RetcodeConnection        uint32 = 10031
)

// Outcome is how the gateway treats a return code.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeRetry
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRetry:
		return "retry"
	}
	return "error"
}

// Classify maps a return code to an outcome. Price moves, connectivity
// and generic server refusals are retried. A request that changed
// nothing counts as done. Everything else is an error.
func Classify(retcode uint32) Outcome {
	switch retcode {
	case RetcodeDone, RetcodePlaced, RetcodeDonePartial, RetcodeNoChanges:
		return OutcomeOK
	case RetcodeRequote, RetcodeConnection, RetcodePriceChanged,
		RetcodeTimeout, RetcodePriceOff, RetcodeReject, RetcodeError:
		return OutcomeRetry
	}
	return OutcomeError
}

// TradeError is a request the server refused.
type TradeError struct {
	Retcode uint32
	Comment string
}

func (e *TradeError) Error() string {
	if e.Comment == "" {
		return fmt.Sprintf("trade rejected: retcode %d", e.Retcode)
	}
	return fmt.Sprintf("trade rejected: retcode %d: %s", e.Retcode, e.Comment)
}
