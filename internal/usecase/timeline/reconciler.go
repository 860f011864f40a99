package timeline

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/simaogato/taxsim-backend/internal/domain"
	"github.com/simaogato/taxsim-backend/internal/usecase/holdings"
)

// checkpointInterval adds a sample every N days even without trades
const checkpointInterval = 30

const reportPlaces = 2

// Variant selects whether realized tax is deducted from the timeline's cash
type Variant string

const (
	// VariantTransaction deducts tax paid on realized sales
	VariantTransaction Variant = "transaction"
	// VariantPortfolio never deducts tax
	VariantPortfolio Variant = "portfolio"
)

// Input bundles one scenario's trades and the figures the reconciler samples against
type Input struct {
	Trades       []domain.Trade
	TaxEvents    []domain.TaxEvent // realized events from the transaction model
	InitialValue decimal.Decimal
	History      domain.PriceHistory
	Days         int
	TaxRate      decimal.Decimal
}

// Result holds the four time series of a scenario, all sampled on the same days
type Result struct {
	Transaction   []domain.TimelinePoint
	Portfolio     []domain.TimelinePoint
	CumulativeTax []domain.TaxPoint
	PortfolioTax  []domain.TaxPoint
}

// SampleDays returns the sorted, deduplicated union of day 0, every trade day,
// every 30th day and the final day. Empty when days <= 0.
func SampleDays(trades []domain.Trade, days int) []int {
	if days <= 0 {
		return []int{}
	}

	set := map[int]struct{}{0: {}}
	for _, trade := range trades {
		set[trade.Day()] = struct{}{}
	}
	for day := 0; day < days; day += checkpointInterval {
		set[day] = struct{}{}
	}
	set[days-1] = struct{}{}

	out := make([]int, 0, len(set))
	for day := range set {
		out = append(out, day)
	}
	sort.Ints(out)
	return out
}

// Build samples both timelines and derives the two tax series
func Build(in Input) Result {
	sampleDays := SampleDays(in.Trades, in.Days)

	result := Result{
		Transaction:   make([]domain.TimelinePoint, 0, len(sampleDays)),
		Portfolio:     make([]domain.TimelinePoint, 0, len(sampleDays)),
		CumulativeTax: make([]domain.TaxPoint, 0, len(sampleDays)),
		PortfolioTax:  make([]domain.TaxPoint, 0, len(sampleDays)),
	}

	for _, day := range sampleDays {
		snapshot := holdings.Reconstruct(in.Trades, in.InitialValue, day).Holdings()
		portfolioPoint := valueSnapshot(in, snapshot, day, VariantPortfolio)

		result.Transaction = append(result.Transaction, valueSnapshot(in, snapshot, day, VariantTransaction))
		result.Portfolio = append(result.Portfolio, portfolioPoint)
		result.CumulativeTax = append(result.CumulativeTax, domain.TaxPoint{
			Date: portfolioPoint.Date,
			Tax:  RealizedTaxThrough(in.TaxEvents, day).Round(reportPlaces),
		})
		result.PortfolioTax = append(result.PortfolioTax, domain.TaxPoint{
			Date: portfolioPoint.Date,
			Tax:  portfolioPoint.Value.Sub(in.InitialValue).Mul(in.TaxRate).Round(reportPlaces),
		})
	}

	return result
}

// SampleAt rebuilds holdings from scratch for one day and values them at that day's prices
// Every call replays the full trade list, so a sample never depends on earlier samples.
func SampleAt(in Input, day int, variant Variant) domain.TimelinePoint {
	snapshot := holdings.Reconstruct(in.Trades, in.InitialValue, day).Holdings()
	return valueSnapshot(in, snapshot, day, variant)
}

// valueSnapshot turns the holdings reconstructed for day into a timeline point.
// snapshot is passed by value, so deducting tax for one variant leaves the caller's copy intact.
func valueSnapshot(in Input, snapshot domain.Holdings, day int, variant Variant) domain.TimelinePoint {
	taxPaid := decimal.Zero
	if variant == VariantTransaction {
		taxPaid = TaxPaidThrough(in.TaxEvents, day)
		snapshot.Cash = snapshot.Cash.Sub(taxPaid)
	}

	return domain.TimelinePoint{
		Date:     domain.DayDate(day),
		Value:    snapshot.Value(in.History, day).Round(reportPlaces),
		Holdings: snapshot,
		TaxPaid:  taxPaid.Round(reportPlaces),
	}
}

// TaxPaidThrough sums the positive tax of realized events up to and including day
// Credits from losses never add cash back.
func TaxPaidThrough(events []domain.TaxEvent, day int) decimal.Decimal {
	total := decimal.Zero
	for _, e := range events {
		if e.Kind != domain.TaxEventRealized || domain.DayIndex(e.Timestamp) > day {
			continue
		}
		if e.Tax.IsPositive() {
			total = total.Add(e.Tax)
		}
	}
	return total
}

// RealizedTaxThrough sums the tax of realized events up to and including day, credits included
func RealizedTaxThrough(events []domain.TaxEvent, day int) decimal.Decimal {
	total := decimal.Zero
	for _, e := range events {
		if e.Kind != domain.TaxEventRealized || domain.DayIndex(e.Timestamp) > day {
			continue
		}
		total = total.Add(e.Tax)
	}
	return total
}
