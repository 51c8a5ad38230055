// Package live implements broker.TradeGateway against a trading terminal
// reached through an OrderSender.
package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rustyeddy/dealbook/broker"
)

var ErrRetriesExhausted = errors.New("retries exhausted")

// TradeRequest is the terminal's order request.
type TradeRequest struct {
	Action     broker.TradeAction
	Symbol     string
	Type       broker.OrderType
	Volume     float64
	Price      float64
	StopLimit  float64
	StopLoss   float64
	TakeProfit float64
	Position   int64
	Order      int64
	TypeTime   broker.TimeType
	Expiration time.Time
	Deviation  int
	Magic      int64
	Comment    string
}

// TradeResult is the terminal's answer to a TradeRequest.
type TradeResult struct {
	Retcode uint32
	Deal    int64
	Order   int64
	Volume  float64
	Price   float64
	Comment string
}

// OrderSender is the channel to the terminal.
type OrderSender interface {
	Send(ctx context.Context, req TradeRequest) (TradeResult, error)
	Account(ctx context.Context) (*broker.Account, error)
}

type Options struct {
	MaxRetries int
	RetryDelay time.Duration
	Magic      int64
	Deviation  int

	// Login and Server tag the gateway's log lines.
	Login  string
	Server string
}

func DefaultOptions() Options {
	return Options{MaxRetries: 5, RetryDelay: 500 * time.Millisecond, Deviation: 10}
}

// Gateway forwards intents to the terminal, retrying transient failures.
type Gateway struct {
	sender OrderSender
	opts   Options
	log    *slog.Logger

	mu   sync.Mutex
	acct *broker.Account
}

var _ broker.TradeGateway = (*Gateway)(nil)

func NewGateway(sender OrderSender, opts Options, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Login != "" || opts.Server != "" {
		log = log.With("login", opts.Login, "server", opts.Server)
	}
	return &Gateway{sender: sender, opts: opts, log: log}
}

// Account refreshes and returns the terminal's account snapshot.
func (g *Gateway) Account(ctx context.Context) (*broker.Account, error) {
	acct, err := g.sender.Account(ctx)
	if err != nil {
		return nil, fmt.Errorf("live account: %w", err)
	}
	g.mu.Lock()
	g.acct = acct
	g.mu.Unlock()
	return acct, nil
}

// Snapshot returns the account as of the last call, without a round trip.
func (g *Gateway) Snapshot() *broker.Account {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.acct
}

func (g *Gateway) OpenPosition(ctx context.Context, req broker.MarketOrderRequest) (bool, error) {
	if err := broker.ValidateOrderType(broker.TradeActionDeal, req.Type); err != nil {
		return false, err
	}
	return g.send(ctx, TradeRequest{
		Action:     broker.TradeActionDeal,
		Symbol:     req.Symbol,
		Type:       req.Type,
		Volume:     req.Volume,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Comment:    req.Comment,
	})
}

func (g *Gateway) OpenPendingOrder(ctx context.Context, req broker.PendingOrderRequest) (bool, error) {
	if err := broker.ValidateOrderType(broker.TradeActionPending, req.Type); err != nil {
		return false, err
	}
	if err := broker.ValidatePrices(req.Price, req.Type, req.StopLoss, req.TakeProfit, req.StopLimit); err != nil {
		return false, err
	}
	return g.send(ctx, TradeRequest{
		Action:     broker.TradeActionPending,
		Symbol:     req.Symbol,
		Type:       req.Type,
		Volume:     req.Volume,
		Price:      req.Price,
		StopLimit:  req.StopLimit,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		TypeTime:   broker.TimeTypeFor(req.Expiration),
		Expiration: req.Expiration,
		Comment:    req.Comment,
	})
}

func (g *Gateway) ModifyPosition(ctx context.Context, req broker.ModifyPositionRequest) (bool, error) {
	return g.send(ctx, TradeRequest{
		Action:     broker.TradeActionSLTP,
		Position:   req.Ticket,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		Comment:    req.Comment,
	})
}

func (g *Gateway) ModifyPendingOrder(ctx context.Context, req broker.ModifyOrderRequest) (bool, error) {
	return g.send(ctx, TradeRequest{
		Action:     broker.TradeActionModify,
		Order:      req.Ticket,
		Price:      req.Price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		TypeTime:   broker.TimeTypeFor(req.Expiration),
		Expiration: req.Expiration,
		Comment:    req.Comment,
	})
}

// ClosePosition sends an opposite deal for the whole position.
func (g *Gateway) ClosePosition(ctx context.Context, ticket int64, comment string) (bool, error) {
	acct, err := g.Account(ctx)
	if err != nil {
		return false, err
	}
	pos, err := acct.SelectPosition(ticket)
	if err != nil {
		return false, fmt.Errorf("close position: %w", err)
	}
	return g.closePosition(ctx, pos, comment)
}

// CloseAllPositions closes every open position and reports true only if
// all of them closed.
func (g *Gateway) CloseAllPositions(ctx context.Context, comment string) (bool, error) {
	acct, err := g.Account(ctx)
	if err != nil {
		return false, err
	}
	open := make([]*broker.Position, len(acct.Positions))
	copy(open, acct.Positions)

	var errs []error
	for _, pos := range open {
		if _, err := g.closePosition(ctx, pos, comment); err != nil {
			errs = append(errs, fmt.Errorf("position %d: %w", pos.Ticket, err))
		}
	}
	if len(errs) > 0 {
		return false, errors.Join(errs...)
	}
	return true, nil
}

func (g *Gateway) closePosition(ctx context.Context, pos *broker.Position, comment string) (bool, error) {
	return g.send(ctx, TradeRequest{
		Action:   broker.TradeActionDeal,
		Symbol:   pos.Symbol,
		Type:     pos.Type.Opposite(),
		Volume:   pos.Volume,
		Position: pos.Ticket,
		Comment:  comment,
	})
}

func (g *Gateway) CancelPendingOrder(ctx context.Context, ticket int64) (bool, error) {
	return g.send(ctx, TradeRequest{Action: broker.TradeActionRemove, Order: ticket})
}

// send delivers req, retrying transient failures up to MaxRetries times
// RetryDelay apart, then refreshes the account snapshot.
func (g *Gateway) send(ctx context.Context, req TradeRequest) (bool, error) {
	req.Magic = g.opts.Magic
	req.Deviation = g.opts.Deviation

	var last error
	for attempt := 0; attempt <= g.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(g.opts.RetryDelay):
			}
		}

		res, err := g.sender.Send(ctx, req)
		if err != nil {
			last = err
		} else {
			switch Classify(res.Retcode) {
			case OutcomeOK:
				g.log.Debug("trade done", "action", req.Action.String(), "symbol", req.Symbol, "deal", res.Deal, "order", res.Order)
				if _, err := g.Account(ctx); err != nil {
					return true, err
				}
				return true, nil
			case OutcomeError:
				return false, &TradeError{Retcode: res.Retcode, Comment: res.Comment}
			}
			last = &TradeError{Retcode: res.Retcode, Comment: res.Comment}
		}

		g.log.Warn("trade retry",
			"action", req.Action.String(),
			"symbol", req.Symbol,
			"attempt", attempt+1,
			"max", g.opts.MaxRetries+1,
			"err", last,
		)
	}
	return false, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, g.opts.MaxRetries+1, last)
}
