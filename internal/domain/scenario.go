package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Simulation defaults applied to zero-valued config fields
var (
	DefaultInitialValue = decimal.NewFromInt(100000)
	DefaultTaxRate      = decimal.RequireFromString("0.39")
)

const (
	DefaultDays = 1095
	MaxDays     = 3650
)

// SimulationConfig is the input of a simulation run
type SimulationConfig struct {
	InitialValue decimal.Decimal `json:"initialValue"`
	Days         int             `json:"days"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	Seed         *uint64         `json:"seed,omitempty"` // nil picks a time-derived seed
}

// WithDefaults fills zero-valued fields.
// A zero tax rate is a legitimate input and is kept.
func (c SimulationConfig) WithDefaults() SimulationConfig {
	if c.InitialValue.IsZero() {
		c.InitialValue = DefaultInitialValue
	}
	if c.Days == 0 {
		c.Days = DefaultDays
	}
	return c
}

// Validate ensures the config is within the documented domain
func (c *SimulationConfig) Validate() error {
	if c.InitialValue.LessThanOrEqual(decimal.Zero) {
		return errors.New("initial value must be positive")
	}
	if c.Days <= 0 {
		return errors.New("days must be positive")
	}
	if c.Days > MaxDays {
		return errors.New("days must be at most 3650")
	}
	if c.TaxRate.LessThan(decimal.Zero) || c.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("tax rate must be between 0 and 1")
	}
	return nil
}

// ScenarioResult aggregates one strategy's trades, tax models and timelines
type ScenarioResult struct {
	ID                              Strategy             `json:"id"`
	Name                            string               `json:"name"`
	Transactions                    []Trade              `json:"transactions"`
	TransactionTax                  TransactionTaxResult `json:"transactionTax"`
	PortfolioTax                    PortfolioTaxResult   `json:"portfolioTax"`
	PortfolioTimeline               []TimelinePoint      `json:"portfolioTimeline"` // tax deducted
	PortfolioTimelinePortfolioLevel []TimelinePoint      `json:"portfolioTimelinePortfolioLevel"`
	CumulativeTaxTimeline           []TaxPoint           `json:"cumulativeTaxTimeline"`
	PortfolioTaxTimeline            []TaxPoint           `json:"portfolioTaxTimeline"`
	PriceHistory                    PriceHistory         `json:"priceHistory"`
	Breakdown                       []BreakdownRow       `json:"breakdown"`
	Comparison                      Comparison           `json:"comparison"`
}

// SimulationResult is the full output of a simulation run
type SimulationResult struct {
	RunID        uuid.UUID         `json:"runId"`
	Seed         uint64            `json:"seed"`
	Assets       map[AssetID]Asset `json:"assets"`
	PriceHistory PriceHistory      `json:"priceHistory"`
	Scenarios    []ScenarioResult  `json:"scenarios"`
	Config       SimulationConfig  `json:"config"`
}

// Scenario returns the scenario produced for a strategy
func (r *SimulationResult) Scenario(s Strategy) (*ScenarioResult, error) {
	for i := range r.Scenarios {
		if r.Scenarios[i].ID == s {
			return &r.Scenarios[i], nil
		}
	}
	return nil, errors.New("scenario not found")
}
