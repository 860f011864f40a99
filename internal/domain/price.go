package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Epoch is calendar day 0 of every simulation
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// FallbackPrice is returned by lookups on an empty series
var FallbackPrice = decimal.NewFromInt(1)

// DayDate converts a day index into its calendar date
func DayDate(day int) time.Time {
	return Epoch.AddDate(0, 0, day)
}

// DayIndex converts a timestamp into its day index relative to Epoch.
// Times within a day map to that day.
func DayIndex(t time.Time) int {
	d := t.UTC().Sub(Epoch)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}

// PricePoint is the closing price of an asset on a given day
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// PriceSeries is a chronologically ordered list of daily prices, one per simulated day
type PriceSeries []PricePoint

// PriceAt returns the price at a day index
// Index < 0 returns the first point, index >= len returns the last point, an empty series returns FallbackPrice.
func (s PriceSeries) PriceAt(day int) decimal.Decimal {
	if len(s) == 0 {
		return FallbackPrice
	}
	if day < 0 {
		return s[0].Price
	}
	if day >= len(s) {
		return s[len(s)-1].Price
	}
	return s[day].Price
}

// PriceHistory holds one series per asset
type PriceHistory [NumAssets]PriceSeries

// PriceAt returns the price of an asset at a day index using the series fallback rules
func (h PriceHistory) PriceAt(asset AssetID, day int) decimal.Decimal {
	return h[asset].PriceAt(day)
}

// LastDay returns the last day index of the longest series, or -1 when every series is empty
func (h PriceHistory) LastDay() int {
	longest := 0
	for _, s := range h {
		if len(s) > longest {
			longest = len(s)
		}
	}
	return longest - 1
}

// ByAsset exposes the history keyed by asset for rendering
func (h PriceHistory) ByAsset() map[AssetID]PriceSeries {
	out := make(map[AssetID]PriceSeries, NumAssets)
	for _, id := range AllAssets {
		out[id] = h[id]
	}
	return out
}

// MarshalJSON renders the history as an object keyed by ticker
func (h PriceHistory) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.ByAsset())
}
