package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/taxsim-backend/internal/domain"
)

const (
	// firstTradingDay is the first day after the initial allocation on which active strategies trade
	firstTradingDay = 7
	// lookAheadDays is the horizon of the trend signal
	lookAheadDays = 5

	quantityPlaces = 6
	pricePlaces    = 2
)

// minCashMultiple: a buy needs more cash than this many units of the asset
var minCashMultiple = decimal.NewFromInt(100)

// profile holds the timing and sizing parameters of an active strategy
type profile struct {
	minStep, stepRange int // step = minStep + IntN(stepRange)
	buyOnUp            bool
	buyMin, buyRange   float64 // fraction of cash
	sellMin, sellRange float64 // fraction of holdings
}

var profiles = map[domain.Strategy]profile{
	// Buys before drops and sells before rises
	domain.StrategyBad: {minStep: 3, stepRange: 5, buyOnUp: false, buyMin: 0.30, buyRange: 0.20, sellMin: 0.40, sellRange: 0.20},
	// Buys before rises and sells before drops
	domain.StrategyGood: {minStep: 5, stepRange: 7, buyOnUp: true, buyMin: 0.25, buyRange: 0.15, sellMin: 0.35, sellRange: 0.15},
}

// Input bundles everything the generator needs
type Input struct {
	Strategy     domain.Strategy
	InitialValue decimal.Decimal
	Days         int
	History      domain.PriceHistory
}

// GenerateTrades emits the time-ordered trade list of a strategy
// Logic:
//  1. Day 0: buy every asset with initialValue * weight
//  2. hold stops there
//  3. bad/good walk forward from day 7 in random steps, pick a random asset and compare
//     today's price with the price 5 days later to decide whether to buy or sell
//
// Quantities are rounded to 6 decimals and prices to 2; cash and holdings track the rounded figures.
func GenerateTrades(rng domain.RandomSource, in Input) ([]domain.Trade, error) {
	if !in.Strategy.Valid() {
		return nil, fmt.Errorf("unknown strategy %q", in.Strategy)
	}

	g := &generator{
		rng:      rng,
		in:       in,
		holdings: domain.NewHoldings(in.InitialValue),
		trades:   make([]domain.Trade, 0),
	}

	g.allocate()

	if p, ok := profiles[in.Strategy]; ok {
		g.walk(p)
	}

	domain.SortTrades(g.trades)
	return g.trades, nil
}

type generator struct {
	rng      domain.RandomSource
	in       Input
	holdings domain.Holdings
	trades   []domain.Trade
}

func (g *generator) price(asset domain.AssetID, day int) decimal.Decimal {
	return g.in.History.PriceAt(asset, day)
}

// trendUp reports whether the price lookAheadDays later is strictly higher than today's
func (g *generator) trendUp(asset domain.AssetID, day int) bool {
	ahead := day + lookAheadDays
	if ahead > g.in.Days-1 {
		ahead = g.in.Days - 1
	}
	return g.price(asset, ahead).GreaterThan(g.price(asset, day))
}

// allocate books the day-0 purchase of every asset
func (g *generator) allocate() {
	weights := domain.AllocationWeights()
	for i, id := range domain.AllAssets {
		price := g.price(id, 0)
		quantity := g.in.InitialValue.Mul(weights[id]).Div(price)
		g.record(domain.TradeTypeBuy, id, quantity, price, 0, fmt.Sprintf("tx-0-%d", i))
	}
}

func (g *generator) walk(p profile) {
	for day := firstTradingDay; day < g.in.Days; day += p.minStep + g.rng.IntN(p.stepRange) {
		asset := domain.AllAssets[g.rng.IntN(domain.NumAssets)]
		price := g.price(asset, day)
		up := g.trendUp(asset, day)

		canBuy := g.holdings.Cash.GreaterThan(price.Mul(minCashMultiple))
		canSell := g.holdings.Quantities[asset].GreaterThan(decimal.Zero)

		switch {
		case up == p.buyOnUp && canBuy:
			fraction := decimal.NewFromFloat(p.buyMin + g.rng.Float64()*p.buyRange)
			quantity := g.holdings.Cash.Div(price).Mul(fraction)
			g.record(domain.TradeTypeBuy, asset, quantity, price, day, fmt.Sprintf("tx-%d-buy", day))
		case up != p.buyOnUp && canSell:
			fraction := decimal.NewFromFloat(p.sellMin + g.rng.Float64()*p.sellRange)
			quantity := g.holdings.Quantities[asset].Mul(fraction)
			g.record(domain.TradeTypeSell, asset, quantity, price, day, fmt.Sprintf("tx-%d-sell", day))
		}
	}
}

// record rounds and appends a trade and moves cash and holdings accordingly
func (g *generator) record(typ domain.TradeType, asset domain.AssetID, quantity, price decimal.Decimal, day int, id string) {
	quantity = quantity.Round(quantityPlaces)
	price = price.Round(pricePlaces)
	if quantity.LessThanOrEqual(decimal.Zero) || price.LessThanOrEqual(decimal.Zero) {
		return
	}
	if typ == domain.TradeTypeSell && quantity.GreaterThan(g.holdings.Quantities[asset]) {
		quantity = g.holdings.Quantities[asset]
	}

	notional := quantity.Mul(price)
	if typ == domain.TradeTypeBuy {
		g.holdings.Cash = g.holdings.Cash.Sub(notional)
		g.holdings.Quantities[asset] = g.holdings.Quantities[asset].Add(quantity)
	} else {
		g.holdings.Cash = g.holdings.Cash.Add(notional)
		g.holdings.Quantities[asset] = g.holdings.Quantities[asset].Sub(quantity)
	}

	g.trades = append(g.trades, domain.Trade{
		ID:        id,
		Type:      typ,
		AssetID:   asset,
		Quantity:  quantity,
		Price:     price,
		Timestamp: domain.DayDate(day),
		Scenario:  g.in.Strategy,
	})
}
