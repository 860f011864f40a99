package domain

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TradeType represents the side of a trade
type TradeType string

const (
	TradeTypeBuy  TradeType = "buy"
	TradeTypeSell TradeType = "sell"
)

// Strategy is the trading pattern a scenario simulates
type Strategy string

const (
	StrategyBad  Strategy = "bad"
	StrategyGood Strategy = "good"
	StrategyHold Strategy = "hold"
)

// Strategies lists every strategy in the order scenarios are produced
var Strategies = []Strategy{StrategyBad, StrategyGood, StrategyHold}

// DisplayName returns the human readable scenario name
func (s Strategy) DisplayName() string {
	switch s {
	case StrategyBad:
		return "Bad Trader"
	case StrategyGood:
		return "Good Trader"
	case StrategyHold:
		return "Buy and Hold"
	default:
		return string(s)
	}
}

// Valid reports whether s is a known strategy
func (s Strategy) Valid() bool {
	return s == StrategyBad || s == StrategyGood || s == StrategyHold
}

// Trade is a single simulated buy or sell
// Produced once by the strategy generator and never mutated.
type Trade struct {
	ID        string          `json:"id"` // unique within a scenario, e.g. "tx-12-sell"
	Type      TradeType       `json:"type"`
	AssetID   AssetID         `json:"assetId"`
	Quantity  decimal.Decimal `json:"quantity"` // 6 decimal places
	Price     decimal.Decimal `json:"price"`    // 2 decimal places
	Timestamp time.Time       `json:"timestamp"`
	Scenario  Strategy        `json:"scenario,omitempty"`
}

// Day returns the day index the trade was executed on
func (t Trade) Day() int {
	return DayIndex(t.Timestamp)
}

// Notional returns quantity * price
func (t Trade) Notional() decimal.Decimal {
	return t.Quantity.Mul(t.Price)
}

// Validate ensures the trade adheres to domain rules
func (t *Trade) Validate() error {
	if t.ID == "" {
		return errors.New("trade id cannot be empty")
	}
	if t.Type != TradeTypeBuy && t.Type != TradeTypeSell {
		return errors.New("trade type must be buy or sell")
	}
	if !t.AssetID.Valid() {
		return errors.New("trade asset is invalid")
	}
	if t.Quantity.LessThanOrEqual(decimal.Zero) {
		return errors.New("trade quantity must be positive")
	}
	if t.Price.LessThanOrEqual(decimal.Zero) {
		return errors.New("trade price must be positive")
	}
	return nil
}

// SortTrades orders trades by timestamp ascending, keeping generation order for ties
func SortTrades(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Timestamp.Before(trades[j].Timestamp)
	})
}
