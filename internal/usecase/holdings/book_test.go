package holdings

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/taxsim-backend/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTrade(id string, typ domain.TradeType, asset domain.AssetID, qty, price string, day int) domain.Trade {
	return domain.Trade{
		ID:        id,
		Type:      typ,
		AssetID:   asset,
		Quantity:  d(qty),
		Price:     d(price),
		Timestamp: domain.DayDate(day),
	}
}

func sampleTrades() []domain.Trade {
	return []domain.Trade{
		newTrade("tx-1", domain.TradeTypeBuy, domain.AssetBTC, "1", "45000", 0),
		newTrade("tx-2", domain.TradeTypeBuy, domain.AssetETH, "10", "2500", 0),
		newTrade("tx-3", domain.TradeTypeSell, domain.AssetETH, "4", "2600", 5),
		newTrade("tx-4", domain.TradeTypeBuy, domain.AssetBTC, "0.5", "46000", 9),
	}
}

func TestReconstruct_CutoffIncludesSameDay(t *testing.T) {
	book := Reconstruct(sampleTrades(), d("100000"), 5)

	// 100000 - 45000 - 25000 + 10400
	assert.True(t, book.Cash().Equal(d("40400")))
	h := book.Holdings()
	assert.True(t, h.Quantities[domain.AssetBTC].Equal(d("1")))
	assert.True(t, h.Quantities[domain.AssetETH].Equal(d("6")))
	assert.True(t, h.Quantities[domain.AssetDOGE].IsZero())
}

func TestReconstruct_IsReproducible(t *testing.T) {
	trades := sampleTrades()

	first := Reconstruct(trades, d("100000"), 9)
	second := Reconstruct(trades, d("100000"), 9)

	assert.Equal(t, first.Holdings(), second.Holdings())
	assert.Equal(t, first.Ledger().Snapshot(), second.Ledger().Snapshot())
}

func TestBook_FlatQuantityMatchesOpenLots(t *testing.T) {
	trades := sampleTrades()
	for day := 0; day <= 10; day++ {
		book := Reconstruct(trades, d("100000"), day)
		for _, id := range domain.AllAssets {
			assert.True(t,
				book.Holdings().Quantities[id].Equal(book.Ledger().OpenQuantity(id)),
				"day %d asset %s", day, id)
		}
	}
}

func TestBook_CashPlusPositionsEqualsValue(t *testing.T) {
	history := domain.PriceHistory{
		domain.AssetBTC: {{Date: domain.DayDate(0), Price: d("45000")}, {Date: domain.DayDate(1), Price: d("50000")}},
		domain.AssetETH: {{Date: domain.DayDate(0), Price: d("2500")}, {Date: domain.DayDate(1), Price: d("3000")}},
	}
	book := Reconstruct(sampleTrades(), d("100000"), 5)

	// 40400 + 1 * 50000 + 6 * 3000
	assert.True(t, book.LiquidationValue(history, 1).Equal(d("108400")))
	assert.True(t, book.Holdings().Value(history, 1).Equal(d("108400")))
	// 40400 + 45000 + 6 * 2500
	assert.True(t, book.CostBasis().Equal(d("100400")))
}

func TestBook_SellWithoutLotsCreditsCash(t *testing.T) {
	book := NewBook(d("1000"))

	c := book.Apply(newTrade("tx-1", domain.TradeTypeSell, domain.AssetDOGE, "100", "0.1", 3))

	require.True(t, c.Quantity.IsZero())
	assert.True(t, c.Unmatched.Equal(d("100")))
	assert.True(t, book.Cash().Equal(d("1010")))
	assert.True(t, book.Holdings().Quantities[domain.AssetDOGE].Equal(d("-100")))
	assert.False(t, book.Ledger().HasOpenLots(domain.AssetDOGE))
}
