package simulator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/taxsim-backend/internal/domain"
	"github.com/simaogato/taxsim-backend/internal/usecase/pricegen"
	"github.com/simaogato/taxsim-backend/internal/usecase/strategy"
	"github.com/simaogato/taxsim-backend/internal/usecase/taxcalc"
	"github.com/simaogato/taxsim-backend/internal/usecase/timeline"
)

// RandomFactory builds the random source for a run from its seed
type RandomFactory func(seed uint64) domain.RandomSource

// NewRandomSource returns a PCG-backed source; equal seeds give equal runs
func NewRandomSource(seed uint64) domain.RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SimulationService runs the full pipeline for every strategy
type SimulationService struct {
	Logger    logrus.FieldLogger
	NewRandom RandomFactory
	Now       func() time.Time
}

// NewSimulationService creates a new SimulationService instance
func NewSimulationService(logger logrus.FieldLogger) *SimulationService {
	return &SimulationService{
		Logger:    logger,
		NewRandom: NewRandomSource,
		Now:       time.Now,
	}
}

// Simulate generates prices once and runs the bad, good and hold strategies against them
// Logic:
//  1. Fill config defaults and pick a seed (the config's, or one derived from the clock)
//  2. Generate the assets and their price paths
//  3. Per strategy: generate trades, run both tax models, sample the timelines
//
// Degenerate inputs (no days, empty series) resolve through fallbacks; the config is not
// validated here, callers accepting external input run SimulationConfig.Validate first.
func (s *SimulationService) Simulate(ctx context.Context, cfg domain.SimulationConfig) (*domain.SimulationResult, error) {
	cfg = cfg.WithDefaults()

	seed := uint64(s.Now().UnixNano())
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	cfg.Seed = &seed

	runID := uuid.New()
	log := s.Logger.WithFields(logrus.Fields{
		"run_id": runID.String(),
		"seed":   seed,
		"days":   cfg.Days,
	}).WithContext(ctx)

	rng := s.NewRandom(seed)
	assets, history := pricegen.InitializeAssets(rng, cfg.Days)

	scenarios := make([]domain.ScenarioResult, 0, len(domain.Strategies))
	for _, st := range domain.Strategies {
		scenario, err := s.runScenario(rng, st, cfg, history)
		if err != nil {
			return nil, fmt.Errorf("failed to simulate %s scenario: %w", st, err)
		}

		log.WithFields(logrus.Fields{
			"scenario":        st,
			"trades":          len(scenario.Transactions),
			"transaction_tax": scenario.TransactionTax.TotalTax.String(),
			"portfolio_tax":   scenario.PortfolioTax.TotalTax.String(),
		}).Debug("scenario simulated")

		scenarios = append(scenarios, *scenario)
	}

	log.WithField("scenarios", len(scenarios)).Info("simulation completed")

	assetsByID := make(map[domain.AssetID]domain.Asset, domain.NumAssets)
	for _, a := range assets {
		assetsByID[a.ID] = a
	}

	return &domain.SimulationResult{
		RunID:        runID,
		Seed:         seed,
		Assets:       assetsByID,
		PriceHistory: history,
		Scenarios:    scenarios,
		Config:       cfg,
	}, nil
}

func (s *SimulationService) runScenario(rng domain.RandomSource, st domain.Strategy, cfg domain.SimulationConfig, history domain.PriceHistory) (*domain.ScenarioResult, error) {
	trades, err := strategy.GenerateTrades(rng, strategy.Input{
		Strategy:     st,
		InitialValue: cfg.InitialValue,
		Days:         cfg.Days,
		History:      history,
	})
	if err != nil {
		return nil, err
	}

	transactionTax := taxcalc.CalculateTransactionTax(trades, cfg.TaxRate)
	portfolioTax := taxcalc.CalculatePortfolioTax(taxcalc.PortfolioInput{
		Trades:       trades,
		InitialValue: cfg.InitialValue,
		History:      history,
		TaxRate:      cfg.TaxRate,
	})

	in := timeline.Input{
		Trades:       trades,
		TaxEvents:    transactionTax.TaxEvents,
		InitialValue: cfg.InitialValue,
		History:      history,
		Days:         cfg.Days,
		TaxRate:      cfg.TaxRate,
	}
	series := timeline.Build(in)

	return &domain.ScenarioResult{
		ID:                              st,
		Name:                            st.DisplayName(),
		Transactions:                    trades,
		TransactionTax:                  transactionTax,
		PortfolioTax:                    portfolioTax,
		PortfolioTimeline:               series.Transaction,
		PortfolioTimelinePortfolioLevel: series.Portfolio,
		CumulativeTaxTimeline:           series.CumulativeTax,
		PortfolioTaxTimeline:            series.PortfolioTax,
		PriceHistory:                    history,
		Breakdown:                       timeline.BuildBreakdown(in),
		Comparison: domain.NewComparison(
			finalValue(series.Transaction),
			finalValue(series.Portfolio),
			transactionTax.TotalTax,
			portfolioTax.TotalTax,
		),
	}, nil
}

func finalValue(points []domain.TimelinePoint) decimal.Decimal {
	if len(points) == 0 {
		return decimal.Zero
	}
	return points[len(points)-1].Value
}
