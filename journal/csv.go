package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	deals  *csv.Writer
	equity *csv.Writer
	df, ef *os.File
}

var _ Journal = (*CSVJournal)(nil)

var (
	dealHeader   = []string{"run_id", "ticket", "order", "position_id", "symbol", "type", "entry", "volume", "price", "commission", "swap", "fee", "profit", "time", "magic", "reason", "comment"}
	equityHeader = []string{"run_id", "time", "balance", "equity", "margin", "margin_free", "margin_level"}
)

func NewCSV(dealsPath, equityPath string) (*CSVJournal, error) {
	df, err := os.Create(dealsPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		_ = df.Close()
		return nil, err
	}

	dw := csv.NewWriter(df)
	ew := csv.NewWriter(ef)

	if err := dw.Write(dealHeader); err != nil {
		return nil, err
	}
	if err := ew.Write(equityHeader); err != nil {
		return nil, err
	}

	dw.Flush()
	if err := dw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{dw, ew, df, ef}, nil
}

func (j *CSVJournal) RecordDeal(d DealRecord) error {
	err := j.deals.Write([]string{
		d.RunID,
		i(d.Ticket),
		i(d.Order),
		i(d.PositionID),
		d.Symbol,
		d.Type,
		d.Entry,
		f(d.Volume),
		f(d.Price),
		f(d.Commission),
		f(d.Swap),
		f(d.Fee),
		f(d.Profit),
		d.Time.Format(time.RFC3339Nano),
		i(d.Magic),
		d.Reason,
		d.Comment,
	})
	if err != nil {
		return err
	}
	j.deals.Flush()
	return j.deals.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	err := j.equity.Write([]string{
		e.RunID,
		e.Time.Format(time.RFC3339Nano),
		f(e.Balance),
		f(e.Equity),
		f(e.Margin),
		f(e.MarginFree),
		f(e.MarginLevel),
	})
	if err != nil {
		return err
	}

	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.deals.Flush()
	if err := j.deals.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.df.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func i(x int64) string {
	return strconv.FormatInt(x, 10)
}
