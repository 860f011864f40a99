package pricegen

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/simaogato/taxsim-backend/internal/domain"
)

// floorFraction bounds the walk at half of the base price
const floorFraction = 0.5

// GeneratePriceHistory produces one price per day for an asset using a bounded random walk with drift
// Logic:
//   - next = prev + noise + trend
//   - noise is uniform in [-0.5, 0.5) * volatility * prev
//   - trend = (annual trend / days) * prev
//   - next never drops below floorFraction * base price
//
// The walk itself runs unrounded; each emitted price is rounded to 2 decimals and
// every later computation works on that rounded series.
func GeneratePriceHistory(rng domain.RandomSource, asset domain.Asset, days int) domain.PriceSeries {
	if days <= 0 {
		return domain.PriceSeries{}
	}

	base := asset.BasePrice.InexactFloat64()
	volatility := asset.Volatility.InexactFloat64()
	dailyTrend := asset.Trend.InexactFloat64() / float64(days)
	floor := base * floorFraction

	series := make(domain.PriceSeries, 0, days)
	current := base
	for day := 0; day < days; day++ {
		noise := (rng.Float64() - 0.5) * volatility * current
		drift := dailyTrend * current
		current = math.Max(current+noise+drift, floor)

		series = append(series, domain.PricePoint{
			Date:  domain.DayDate(day),
			Price: decimal.NewFromFloat(current).Round(2),
		})
	}

	return series
}

// InitializeAssets builds the default asset catalogue and one price series per asset
// Series are drawn in BTC, ETH, DOGE order from the same random source.
func InitializeAssets(rng domain.RandomSource, days int) ([domain.NumAssets]domain.Asset, domain.PriceHistory) {
	assets := domain.DefaultAssets()

	var history domain.PriceHistory
	for _, id := range domain.AllAssets {
		history[id] = GeneratePriceHistory(rng, assets[id], days)
	}

	return assets, history
}
