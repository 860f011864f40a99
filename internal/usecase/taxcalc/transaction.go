package taxcalc

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/taxsim-backend/internal/domain"
	"github.com/simaogato/taxsim-backend/internal/usecase/holdings"
)

const reportPlaces = 2

// CalculateTransactionTax applies the transaction-based regime: every sale realizes a gain
// or loss against its FIFO lots and the running net gain is taxed.
// Logic:
//   - buy: open a lot at the trade price
//   - sell: consume lots oldest first, gain = sum((sellPrice - lotCost) * qty)
//   - netGains += gain, the event's tax is netGains*rate - previousNetGains*rate
//   - sells on an asset without open lots are skipped and produce no event
//
// TotalTax = netGains * rate and is negative when losses exceed gains (write-off).
func CalculateTransactionTax(trades []domain.Trade, taxRate decimal.Decimal) domain.TransactionTaxResult {
	book := holdings.NewBook(decimal.Zero)
	netGains := decimal.Zero
	events := make([]domain.TaxEvent, 0)

	for _, trade := range trades {
		if trade.Type == domain.TradeTypeSell && !book.Ledger().HasOpenLots(trade.AssetID) {
			continue
		}

		consumption := book.Apply(trade)
		if trade.Type != domain.TradeTypeSell {
			continue
		}

		gain := consumption.Gain(trade.Price)
		previousNetGains := netGains
		netGains = netGains.Add(gain)
		taxDelta := netGains.Mul(taxRate).Sub(previousNetGains.Mul(taxRate))

		events = append(events, domain.TaxEvent{
			Kind:          domain.TaxEventRealized,
			TransactionID: trade.ID,
			Gain:          gain.Round(reportPlaces),
			Tax:           taxDelta.Round(reportPlaces),
			NetGains:      netGains.Round(reportPlaces),
			Timestamp:     trade.Timestamp,
		})
	}

	return domain.TransactionTaxResult{
		TotalTax:  netGains.Mul(taxRate).Round(reportPlaces),
		TaxEvents: events,
		Holdings:  book.Ledger().Snapshot(),
		NetGains:  netGains.Round(reportPlaces),
	}
}
