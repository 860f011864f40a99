package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxEventKind distinguishes realized sale events from the synthetic portfolio event
type TaxEventKind string

const (
	TaxEventRealized TaxEventKind = "realized"
	TaxEventOwed     TaxEventKind = "owed"
)

// TaxEvent records the tax effect of one sale, or the hypothetical liquidation of a portfolio
type TaxEvent struct {
	Kind          TaxEventKind    `json:"type"`
	TransactionID string          `json:"transactionId,omitempty"` // empty for owed events
	Gain          decimal.Decimal `json:"gain"`
	Tax           decimal.Decimal `json:"tax"` // incremental tax for realized events, can be negative
	NetGains      decimal.Decimal `json:"netGains"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Lot is an open purchase consumed oldest-first on sale
type Lot struct {
	Quantity  decimal.Decimal `json:"quantity"`
	CostBasis decimal.Decimal `json:"costBasis"` // per unit
}

// TransactionTaxResult is the output of the transaction-based tax model
type TransactionTaxResult struct {
	TotalTax  decimal.Decimal   `json:"totalTax"` // netGains * rate, negative means a write-off
	TaxEvents []TaxEvent        `json:"taxEvents"`
	Holdings  map[AssetID][]Lot `json:"holdings"` // open lots after every trade
	NetGains  decimal.Decimal   `json:"netGains"`
}

// EventFor returns the tax event recorded for a trade id
func (r *TransactionTaxResult) EventFor(tradeID string) (TaxEvent, bool) {
	for _, e := range r.TaxEvents {
		if e.TransactionID == tradeID {
			return e, true
		}
	}
	return TaxEvent{}, false
}

// PortfolioTaxResult is the output of the portfolio-level tax model
type PortfolioTaxResult struct {
	TotalTax              decimal.Decimal `json:"totalTax"` // (value - initial) * rate, negative means a write-off
	TaxEvents             []TaxEvent      `json:"taxEvents"`
	CurrentPortfolioValue decimal.Decimal `json:"currentPortfolioValue"`
	InitialValue          decimal.Decimal `json:"initialValue"`
	CostBasis             decimal.Decimal `json:"costBasis"` // informational, not used by the tax formula
}
