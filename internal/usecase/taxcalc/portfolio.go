package taxcalc

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/simaogato/taxsim-backend/internal/domain"
	"github.com/simaogato/taxsim-backend/internal/usecase/holdings"
)

// PortfolioInput bundles what the portfolio-level regime needs
type PortfolioInput struct {
	Trades       []domain.Trade
	InitialValue decimal.Decimal
	History      domain.PriceHistory
	TaxRate      decimal.Decimal
}

// CalculatePortfolioTax applies the portfolio-level regime "now": every trade is replayed
// and positions are valued at the last day of the price series.
func CalculatePortfolioTax(in PortfolioInput) domain.PortfolioTaxResult {
	return portfolioTax(in, math.MaxInt, in.History.LastDay())
}

// PortfolioTaxAt values the portfolio as if fully liquidated on cutoffDay
// Logic:
//   - replay every trade on or before cutoffDay into a fresh book
//   - currentValue = cash + sum(open quantity * price at cutoffDay)
//   - owedTax = (currentValue - initialValue) * rate, negative when below initial capital
//
// CostBasis (cash + cost of open lots) is reported but does not enter the tax formula.
func PortfolioTaxAt(in PortfolioInput, cutoffDay int) domain.PortfolioTaxResult {
	return portfolioTax(in, cutoffDay, cutoffDay)
}

func portfolioTax(in PortfolioInput, replayUntil, priceDay int) domain.PortfolioTaxResult {
	book := holdings.Reconstruct(in.Trades, in.InitialValue, replayUntil)

	currentValue := book.LiquidationValue(in.History, priceDay)
	profit := currentValue.Sub(in.InitialValue)
	owedTax := profit.Mul(in.TaxRate)

	timestamp := domain.Epoch
	if priceDay > 0 {
		timestamp = domain.DayDate(priceDay)
	}

	return domain.PortfolioTaxResult{
		TotalTax: owedTax.Round(reportPlaces),
		TaxEvents: []domain.TaxEvent{
			{
				Kind:      domain.TaxEventOwed,
				Gain:      profit.Round(reportPlaces),
				Tax:       owedTax.Round(reportPlaces),
				NetGains:  profit.Round(reportPlaces),
				Timestamp: timestamp,
			},
		},
		CurrentPortfolioValue: currentValue.Round(reportPlaces),
		InitialValue:          in.InitialValue.Round(reportPlaces),
		CostBasis:             book.CostBasis().Round(reportPlaces),
	}
}
