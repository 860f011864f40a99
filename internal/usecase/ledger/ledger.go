package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/taxsim-backend/internal/domain"
)

// LotMatch is the part of one lot consumed by a sale
type LotMatch struct {
	Quantity  decimal.Decimal
	CostBasis decimal.Decimal // per unit
}

// Consumption describes what a Consume call removed from the queue
type Consumption struct {
	Quantity  decimal.Decimal // realized quantity
	Cost      decimal.Decimal // sum of quantity * cost basis over the matches
	Matches   []LotMatch      // in insertion order
	Unmatched decimal.Decimal // requested quantity with no lot behind it
}

// CostBasis returns the weighted per-unit cost of the consumed quantity, zero if nothing was consumed
func (c Consumption) CostBasis() decimal.Decimal {
	if c.Quantity.IsZero() {
		return decimal.Zero
	}
	return c.Cost.Div(c.Quantity)
}

// Gain returns the realized gain of selling the consumed quantity at price
// Equals the sum of (price - lotCost) * qty over every match.
func (c Consumption) Gain(price decimal.Decimal) decimal.Decimal {
	gain := decimal.Zero
	for _, m := range c.Matches {
		gain = gain.Add(price.Sub(m.CostBasis).Mul(m.Quantity))
	}
	return gain
}

// Ledger keeps one FIFO queue of open lots per asset
// A Ledger is owned by the model that created it and never shared.
type Ledger struct {
	lots [domain.NumAssets][]domain.Lot
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{}
}

// Open appends a new lot to the asset's queue
func (l *Ledger) Open(asset domain.AssetID, quantity, costBasis decimal.Decimal) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return
	}
	l.lots[asset] = append(l.lots[asset], domain.Lot{Quantity: quantity, CostBasis: costBasis})
}

// Consume removes quantity from the front of the asset's queue, oldest lot first
// The head lot is split when it only partially covers the request. Selling more than
// is open consumes what exists and reports the rest as Unmatched; an empty queue is a no-op.
func (l *Ledger) Consume(asset domain.AssetID, quantity decimal.Decimal) Consumption {
	result := Consumption{
		Quantity:  decimal.Zero,
		Cost:      decimal.Zero,
		Unmatched: decimal.Zero,
	}
	remaining := quantity
	queue := l.lots[asset]

	for remaining.GreaterThan(decimal.Zero) && len(queue) > 0 {
		head := &queue[0]
		take := decimal.Min(remaining, head.Quantity)

		result.Matches = append(result.Matches, LotMatch{Quantity: take, CostBasis: head.CostBasis})
		result.Quantity = result.Quantity.Add(take)
		result.Cost = result.Cost.Add(take.Mul(head.CostBasis))

		remaining = remaining.Sub(take)
		head.Quantity = head.Quantity.Sub(take)
		if head.Quantity.LessThanOrEqual(decimal.Zero) {
			queue = queue[1:]
		}
	}

	l.lots[asset] = queue
	if remaining.GreaterThan(decimal.Zero) {
		result.Unmatched = remaining
	}
	return result
}

// HasOpenLots reports whether the asset has at least one open lot
func (l *Ledger) HasOpenLots(asset domain.AssetID) bool {
	return len(l.lots[asset]) > 0
}

// OpenQuantity returns the total open quantity of an asset
func (l *Ledger) OpenQuantity(asset domain.AssetID) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.lots[asset] {
		total = total.Add(lot.Quantity)
	}
	return total
}

// OpenLots returns a copy of the asset's open lots, oldest first
func (l *Ledger) OpenLots(asset domain.AssetID) []domain.Lot {
	out := make([]domain.Lot, len(l.lots[asset]))
	copy(out, l.lots[asset])
	return out
}

// CostBasis returns the total cost of the asset's open lots
func (l *Ledger) CostBasis(asset domain.AssetID) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.lots[asset] {
		total = total.Add(lot.Quantity.Mul(lot.CostBasis))
	}
	return total
}

// Snapshot returns the open lots of every asset keyed by asset
func (l *Ledger) Snapshot() map[domain.AssetID][]domain.Lot {
	out := make(map[domain.AssetID][]domain.Lot, domain.NumAssets)
	for _, id := range domain.AllAssets {
		out[id] = l.OpenLots(id)
	}
	return out
}
