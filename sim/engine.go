package sim

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/rustyeddy/dealbook/broker"
	"github.com/rustyeddy/dealbook/journal"
	"github.com/rustyeddy/dealbook/market"
)

// LedgerContext is everything the engine needs from its caller.
type LedgerContext struct {
	Account *broker.Account
	Magic   int64
	Cursor  *market.Cursor
}

// Engine books order intents against an account the way a trade server
// would, in netting or hedging mode. It is synchronous and deterministic:
// tickets and times come from the price series only.
type Engine struct {
	mu       sync.Mutex
	acct     *broker.Account
	magic    int64
	cursor   *market.Cursor
	provider market.Provider
	seq      *Sequence
	deals    *DealFactory
	journal  journal.Journal
	log      *slog.Logger
	runID    string
}

type Option func(*Engine)

func WithJournal(j journal.Journal) Option {
	return func(e *Engine) { e.journal = j }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithRunID stamps every journal row with id.
func WithRunID(id string) Option {
	return func(e *Engine) { e.runID = id }
}

// WithConverter overrides the tick based currency converter.
func WithConverter(c market.CurrencyConverter) Option {
	return func(e *Engine) { e.deals.Converter = c }
}

func NewEngine(lc LedgerContext, p market.Provider, opts ...Option) (*Engine, error) {
	if lc.Account == nil {
		return nil, fmt.Errorf("new engine: account is required")
	}
	if lc.Cursor == nil || len(lc.Cursor.Candles) == 0 {
		return nil, fmt.Errorf("new engine: cursor with candles is required")
	}
	if p == nil {
		return nil, fmt.Errorf("new engine: market data provider is required")
	}

	seq := &Sequence{}
	for _, d := range lc.Account.Deals {
		seq.Observe(d.Ticket)
	}
	for _, pos := range lc.Account.Positions {
		seq.Observe(pos.Ticket)
	}
	for _, o := range lc.Account.Orders {
		seq.Observe(o.Ticket)
	}

	e := &Engine{
		acct:     lc.Account,
		magic:    lc.Magic,
		cursor:   lc.Cursor,
		provider: p,
		seq:      seq,
		journal:  journal.Nop{},
		log:      slog.New(slog.DiscardHandler),
	}
	e.deals = &DealFactory{
		Seq:             seq,
		Converter:       market.Converter{Provider: p},
		Contracts:       p.SymbolContract,
		AccountCurrency: lc.Account.Currency,
		Magic:           lc.Magic,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Account returns the ledger the engine mutates.
func (e *Engine) Account() *broker.Account { return e.acct }

func (e *Engine) Cursor() *market.Cursor { return e.cursor }

func (e *Engine) RunID() string { return e.runID }

func (e *Engine) lastTick(symbol string) (market.Tick, error) {
	return market.LastTick(e.provider, symbol, e.cursor.Time(), e.cursor.Step())
}

func (e *Engine) contractSize(symbol string) float64 {
	c, err := e.provider.SymbolContract(symbol)
	if err != nil {
		return 0
	}
	return c.ContractSize
}

// bookLocked appends a deal to the account and journals it.
func (e *Engine) bookLocked(d broker.Deal) error {
	e.acct.AppendDeal(d)
	e.log.Debug("deal",
		"ticket", d.Ticket,
		"symbol", d.Symbol,
		"type", d.Type.String(),
		"entry", d.Entry.String(),
		"volume", d.Volume,
		"price", d.Price,
		"profit", d.Profit,
	)
	if err := e.journal.RecordDeal(journal.NewDealRecord(e.runID, d)); err != nil {
		return fmt.Errorf("journal deal %d: %w", d.Ticket, err)
	}
	return nil
}

// summarizeLocked refreshes equity and margin from stored position
// profits without repricing.
func (e *Engine) summarizeLocked() {
	e.acct.Summarize(e.contractSize)
}

func positionTypeOf(t broker.OrderType) broker.PositionType {
	if t.IsSell() {
		return broker.PositionTypeSell
	}
	return broker.PositionTypeBuy
}
