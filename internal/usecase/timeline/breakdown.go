package timeline

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/taxsim-backend/internal/domain"
	"github.com/simaogato/taxsim-backend/internal/usecase/holdings"
)

// BuildBreakdown lists every trade with the running figures after it executed
//   - running portfolio value: cash + positions valued at the trade's day
//   - tax for this trade: the realized event of a sell, zero otherwise
//   - running tax: sum of realized tax so far, credits included
//   - portfolio tax owed: (running value - initial value) * rate, as the portfolio model computes it
func BuildBreakdown(in Input) []domain.BreakdownRow {
	events := make(map[string]domain.TaxEvent, len(in.TaxEvents))
	for _, e := range in.TaxEvents {
		if e.Kind == domain.TaxEventRealized {
			events[e.TransactionID] = e
		}
	}

	book := holdings.NewBook(in.InitialValue)
	runningTax := decimal.Zero
	rows := make([]domain.BreakdownRow, 0, len(in.Trades))

	for _, trade := range in.Trades {
		book.Apply(trade)
		snapshot := book.Holdings()
		value := snapshot.Value(in.History, trade.Day())

		taxForTrade := decimal.Zero
		if e, ok := events[trade.ID]; ok && trade.Type == domain.TradeTypeSell {
			taxForTrade = e.Tax
			runningTax = runningTax.Add(taxForTrade)
		}

		rows = append(rows, domain.BreakdownRow{
			Trade:                 trade,
			RunningPortfolioValue: value.Round(reportPlaces),
			TaxForThisTx:          taxForTrade.Round(reportPlaces),
			RunningTax:            runningTax.Round(reportPlaces),
			PortfolioTaxOwed:      value.Sub(in.InitialValue).Mul(in.TaxRate).Round(reportPlaces),
			Holdings:              snapshot,
		})
	}

	return rows
}
