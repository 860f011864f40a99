package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Holdings is a flat snapshot of cash and per-asset quantities
type Holdings struct {
	Cash       decimal.Decimal
	Quantities [NumAssets]decimal.Decimal
}

// NewHoldings returns holdings with the given cash and no positions
func NewHoldings(cash decimal.Decimal) Holdings {
	h := Holdings{Cash: cash}
	for i := range h.Quantities {
		h.Quantities[i] = decimal.Zero
	}
	return h
}

// Value returns cash plus the liquidation value of every position at the given day
func (h Holdings) Value(history PriceHistory, day int) decimal.Decimal {
	total := h.Cash
	for _, id := range AllAssets {
		total = total.Add(h.Quantities[id].Mul(history.PriceAt(id, day)))
	}
	return total
}

// MarshalJSON renders holdings as {"USD": ..., "BTC": ..., ...}
func (h Holdings) MarshalJSON() ([]byte, error) {
	out := make(map[string]decimal.Decimal, NumAssets+1)
	out["USD"] = h.Cash
	for _, id := range AllAssets {
		out[id.String()] = h.Quantities[id]
	}
	return json.Marshal(out)
}

// TimelinePoint is the portfolio value on a sampled day
type TimelinePoint struct {
	Date     time.Time       `json:"date"`
	Value    decimal.Decimal `json:"value"`
	Holdings Holdings        `json:"holdings"`
	TaxPaid  decimal.Decimal `json:"taxPaid"` // cash deducted for tax, zero for the portfolio variant
}

// TaxPoint is a tax figure on a sampled day
type TaxPoint struct {
	Date time.Time       `json:"date"`
	Tax  decimal.Decimal `json:"tax"`
}

// BreakdownRow is one trade with the running figures shown next to it
type BreakdownRow struct {
	Trade                 Trade           `json:"transaction"`
	RunningPortfolioValue decimal.Decimal `json:"runningPortfolioValue"`
	TaxForThisTx          decimal.Decimal `json:"taxForThisTx"`
	RunningTax            decimal.Decimal `json:"runningTax"`
	PortfolioTaxOwed      decimal.Decimal `json:"portfolioTaxOwed"`
	Holdings              Holdings        `json:"holdings"`
}
