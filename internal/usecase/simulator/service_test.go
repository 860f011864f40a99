package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/taxsim-backend/internal/domain"
)

func seeded(seed uint64, days int) domain.SimulationConfig {
	return domain.SimulationConfig{
		InitialValue: decimal.NewFromInt(100000),
		Days:         days,
		TaxRate:      decimal.RequireFromString("0.39"),
		Seed:         &seed,
	}
}

func newService() (*SimulationService, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewSimulationService(logger), hook
}

func TestSimulate_ProducesThreeScenarios(t *testing.T) {
	service, _ := newService()

	result, err := service.Simulate(context.Background(), seeded(1, 365))

	require.NoError(t, err)
	require.Len(t, result.Scenarios, 3)
	assert.Equal(t, domain.StrategyBad, result.Scenarios[0].ID)
	assert.Equal(t, "Bad Trader", result.Scenarios[0].Name)
	assert.Equal(t, domain.StrategyGood, result.Scenarios[1].ID)
	assert.Equal(t, "Good Trader", result.Scenarios[1].Name)
	assert.Equal(t, domain.StrategyHold, result.Scenarios[2].ID)
	assert.Equal(t, "Buy and Hold", result.Scenarios[2].Name)

	assert.Len(t, result.Assets, domain.NumAssets)
	for _, id := range domain.AllAssets {
		assert.Len(t, result.PriceHistory[id], 365)
	}
	assert.Equal(t, uint64(1), result.Seed)
	assert.Equal(t, 365, result.Config.Days)
}

func TestSimulate_SameSeedSameResult(t *testing.T) {
	service, _ := newService()

	first, err := service.Simulate(context.Background(), seeded(99, 200))
	require.NoError(t, err)
	second, err := service.Simulate(context.Background(), seeded(99, 200))
	require.NoError(t, err)

	for i := range first.Scenarios {
		a, b := first.Scenarios[i], second.Scenarios[i]
		require.Len(t, b.Transactions, len(a.Transactions))
		for j := range a.Transactions {
			assert.Equal(t, a.Transactions[j].ID, b.Transactions[j].ID)
			assert.True(t, a.Transactions[j].Quantity.Equal(b.Transactions[j].Quantity))
		}
		assert.True(t, a.TransactionTax.TotalTax.Equal(b.TransactionTax.TotalTax))
		assert.True(t, a.PortfolioTax.TotalTax.Equal(b.PortfolioTax.TotalTax))
	}
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestSimulate_SeriesAreConsistent(t *testing.T) {
	service, _ := newService()

	result, err := service.Simulate(context.Background(), seeded(2024, 730))
	require.NoError(t, err)

	for _, scenario := range result.Scenarios {
		t.Run(string(scenario.ID), func(t *testing.T) {
			n := len(scenario.PortfolioTimeline)
			require.Greater(t, n, 0)
			require.Len(t, scenario.PortfolioTimelinePortfolioLevel, n)
			require.Len(t, scenario.CumulativeTaxTimeline, n)
			require.Len(t, scenario.PortfolioTaxTimeline, n)
			assert.Equal(t, domain.DayDate(729), scenario.PortfolioTimeline[n-1].Date)

			// The portfolio model values "now", the last timeline sample is the same day
			last := scenario.PortfolioTimelinePortfolioLevel[n-1]
			assert.True(t, last.Value.Equal(scenario.PortfolioTax.CurrentPortfolioValue),
				"timeline %s vs model %s", last.Value, scenario.PortfolioTax.CurrentPortfolioValue)
			assert.InDelta(t,
				scenario.PortfolioTax.TotalTax.InexactFloat64(),
				scenario.PortfolioTaxTimeline[n-1].Tax.InexactFloat64(), 0.01)

			realized := decimal.Zero
			for _, e := range scenario.TransactionTax.TaxEvents {
				realized = realized.Add(e.Tax)
			}
			assert.True(t, scenario.CumulativeTaxTimeline[n-1].Tax.Equal(realized))

			require.Len(t, scenario.Breakdown, len(scenario.Transactions))
			assert.True(t, scenario.Comparison.PortfolioTax.Equal(scenario.PortfolioTax.TotalTax))
			assert.True(t, scenario.Comparison.PortfolioValue.Equal(last.Value))
			assert.True(t, scenario.Comparison.TransactionValue.LessThanOrEqual(last.Value))
		})
	}
}

func TestSimulate_HoldHasNoRealizedTax(t *testing.T) {
	service, _ := newService()

	result, err := service.Simulate(context.Background(), seeded(3, 120))
	require.NoError(t, err)

	hold, err := result.Scenario(domain.StrategyHold)
	require.NoError(t, err)
	assert.Len(t, hold.Transactions, 3)
	assert.Empty(t, hold.TransactionTax.TaxEvents)
	assert.True(t, hold.TransactionTax.TotalTax.IsZero())
	for i := range hold.PortfolioTimeline {
		assert.True(t, hold.PortfolioTimeline[i].Value.Equal(hold.PortfolioTimelinePortfolioLevel[i].Value))
	}
}

func TestSimulate_NegativeDaysFallsBack(t *testing.T) {
	service, _ := newService()

	result, err := service.Simulate(context.Background(), seeded(4, -1))
	require.NoError(t, err)

	for _, id := range domain.AllAssets {
		assert.Empty(t, result.PriceHistory[id])
	}
	for _, scenario := range result.Scenarios {
		assert.Empty(t, scenario.PortfolioTimeline)
		assert.Empty(t, scenario.CumulativeTaxTimeline)
		// Every lookup uses the sentinel price of 1, so liquidation returns the initial capital
		assert.True(t, scenario.PortfolioTax.CurrentPortfolioValue.Equal(decimal.NewFromInt(100000)),
			"value %s", scenario.PortfolioTax.CurrentPortfolioValue)
	}
}

func TestSimulate_SeedFromClock(t *testing.T) {
	service, _ := newService()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
	service.Now = func() time.Time { return fixed }

	cfg := seeded(0, 30)
	cfg.Seed = nil
	result, err := service.Simulate(context.Background(), cfg)

	require.NoError(t, err)
	assert.Equal(t, uint64(fixed.UnixNano()), result.Seed)
	require.NotNil(t, result.Config.Seed)
	assert.Equal(t, result.Seed, *result.Config.Seed)
}

func TestSimulate_AppliesDefaults(t *testing.T) {
	service, _ := newService()
	seed := uint64(8)

	result, err := service.Simulate(context.Background(), domain.SimulationConfig{Seed: &seed})

	require.NoError(t, err)
	assert.True(t, result.Config.InitialValue.Equal(domain.DefaultInitialValue))
	assert.Equal(t, domain.DefaultDays, result.Config.Days)
	assert.True(t, result.Config.TaxRate.IsZero())
}

func TestSimulate_LogsRun(t *testing.T) {
	service, hook := newService()

	_, err := service.Simulate(context.Background(), seeded(5, 60))
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 4)
	assert.Equal(t, "scenario simulated", entries[0].Message)
	assert.Equal(t, logrus.DebugLevel, entries[0].Level)
	last := hook.LastEntry()
	assert.Equal(t, "simulation completed", last.Message)
	assert.Equal(t, uint64(5), last.Data["seed"])
	assert.Equal(t, 3, last.Data["scenarios"])
}
