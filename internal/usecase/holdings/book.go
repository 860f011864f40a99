package holdings

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/taxsim-backend/internal/domain"
	"github.com/simaogato/taxsim-backend/internal/usecase/ledger"
)

// Book replays trades into cash, flat per-asset quantities and a FIFO ledger
// Every caller builds its own Book; nothing here is shared between models.
type Book struct {
	flat   domain.Holdings
	ledger *ledger.Ledger
}

// NewBook creates a book holding only cash
func NewBook(initialCash decimal.Decimal) *Book {
	return &Book{
		flat:   domain.NewHoldings(initialCash),
		ledger: ledger.New(),
	}
}

// Apply books one trade
// Buys debit cash and open a lot. Sells credit the full proceeds and consume lots
// oldest first; the flat quantity is reduced by the traded quantity even when no
// lot backs it, matching the permissive replay of the holdings timeline.
func (b *Book) Apply(trade domain.Trade) ledger.Consumption {
	switch trade.Type {
	case domain.TradeTypeBuy:
		b.flat.Cash = b.flat.Cash.Sub(trade.Notional())
		b.flat.Quantities[trade.AssetID] = b.flat.Quantities[trade.AssetID].Add(trade.Quantity)
		b.ledger.Open(trade.AssetID, trade.Quantity, trade.Price)
		return ledger.Consumption{Quantity: decimal.Zero, Cost: decimal.Zero, Unmatched: decimal.Zero}
	case domain.TradeTypeSell:
		b.flat.Cash = b.flat.Cash.Add(trade.Notional())
		b.flat.Quantities[trade.AssetID] = b.flat.Quantities[trade.AssetID].Sub(trade.Quantity)
		return b.ledger.Consume(trade.AssetID, trade.Quantity)
	default:
		return ledger.Consumption{Quantity: decimal.Zero, Cost: decimal.Zero, Unmatched: decimal.Zero}
	}
}

// Cash returns the current cash balance
func (b *Book) Cash() decimal.Decimal {
	return b.flat.Cash
}

// Holdings returns the flat snapshot (running buy/sell totals, independent of lots)
func (b *Book) Holdings() domain.Holdings {
	return b.flat
}

// Ledger exposes the FIFO lots booked so far
func (b *Book) Ledger() *ledger.Ledger {
	return b.ledger
}

// LiquidationValue returns cash plus open lot quantities valued at the given day
func (b *Book) LiquidationValue(history domain.PriceHistory, day int) decimal.Decimal {
	total := b.flat.Cash
	for _, id := range domain.AllAssets {
		total = total.Add(b.ledger.OpenQuantity(id).Mul(history.PriceAt(id, day)))
	}
	return total
}

// CostBasis returns cash plus the cost of every open lot
func (b *Book) CostBasis() decimal.Decimal {
	total := b.flat.Cash
	for _, id := range domain.AllAssets {
		total = total.Add(b.ledger.CostBasis(id))
	}
	return total
}

// Reconstruct replays every trade executed on or before cutoffDay into a fresh book
// Trades after the cutoff are skipped, so the input need not be truncated.
func Reconstruct(trades []domain.Trade, initialCash decimal.Decimal, cutoffDay int) *Book {
	book := NewBook(initialCash)
	for _, trade := range trades {
		if trade.Day() > cutoffDay {
			continue
		}
		book.Apply(trade)
	}
	return book
}
