package domain

import "github.com/shopspring/decimal"

// TaxRegime names one of the two compared tax models
type TaxRegime string

const (
	RegimeTransaction TaxRegime = "transaction"
	RegimePortfolio   TaxRegime = "portfolio"
)

// Comparison summarises how the two regimes differ for one scenario
type Comparison struct {
	TransactionValue    decimal.Decimal `json:"transactionValue"` // final value, tax deducted
	PortfolioValue      decimal.Decimal `json:"portfolioValue"`   // final value, no tax deducted
	TransactionTax      decimal.Decimal `json:"transactionTax"`
	PortfolioTax        decimal.Decimal `json:"portfolioTax"`
	TaxDifference       decimal.Decimal `json:"taxDifference"` // absolute
	HigherValueStrategy TaxRegime       `json:"higherValueStrategy,omitempty"`
	HigherTaxStrategy   TaxRegime       `json:"higherTaxStrategy,omitempty"`
}

// HigherValueStrategy returns the regime with the higher portfolio value, or "" when equal
func HigherValueStrategy(transactionValue, portfolioValue decimal.Decimal) TaxRegime {
	return higher(transactionValue, portfolioValue)
}

// HigherTaxStrategy returns the regime with the higher tax, or "" when equal
func HigherTaxStrategy(transactionTax, portfolioTax decimal.Decimal) TaxRegime {
	return higher(transactionTax, portfolioTax)
}

func higher(transaction, portfolio decimal.Decimal) TaxRegime {
	switch transaction.Cmp(portfolio) {
	case 1:
		return RegimeTransaction
	case -1:
		return RegimePortfolio
	default:
		return ""
	}
}

// NewComparison builds the comparison from the final figures of both regimes
func NewComparison(transactionValue, portfolioValue, transactionTax, portfolioTax decimal.Decimal) Comparison {
	return Comparison{
		TransactionValue:    transactionValue,
		PortfolioValue:      portfolioValue,
		TransactionTax:      transactionTax,
		PortfolioTax:        portfolioTax,
		TaxDifference:       transactionTax.Sub(portfolioTax).Abs(),
		HigherValueStrategy: HigherValueStrategy(transactionValue, portfolioValue),
		HigherTaxStrategy:   HigherTaxStrategy(transactionTax, portfolioTax),
	}
}
