package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/simaogato/taxsim-backend/internal/domain"
	"github.com/simaogato/taxsim-backend/internal/usecase/simulator"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "simulate",
		Usage: "compare per-transaction and portfolio-level crypto taxation on simulated trading",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "initial-value", Value: domain.DefaultInitialValue.String(), Usage: "starting cash"},
			&cli.IntFlag{Name: "days", Value: domain.DefaultDays, Usage: "length of the simulated price history"},
			&cli.StringFlag{Name: "tax-rate", Value: domain.DefaultTaxRate.String(), Usage: "tax rate between 0 and 1"},
			&cli.Uint64Flag{Name: "seed", Usage: "seed for a reproducible run (time-derived when omitted)"},
			&cli.StringFlag{Name: "scenario", Usage: "only print one scenario: bad, good or hold"},
			&cli.BoolFlag{Name: "summary", Usage: "print a comparison table instead of JSON"},
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(c.App.ErrWriter)
	level, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return fmt.Errorf("parse log-level: %w", err)
	}
	logger.SetLevel(level)

	cfg, err := configFromFlags(c)
	if err != nil {
		return err
	}

	result, err := simulator.NewSimulationService(logger).Simulate(context.Background(), cfg)
	if err != nil {
		return err
	}

	if name := c.String("scenario"); name != "" {
		scenario, err := result.Scenario(domain.Strategy(name))
		if err != nil {
			return fmt.Errorf("scenario %q: %w", name, err)
		}
		result.Scenarios = []domain.ScenarioResult{*scenario}
	}

	if c.Bool("summary") {
		return writeSummary(c.App.Writer, result)
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func configFromFlags(c *cli.Context) (domain.SimulationConfig, error) {
	initialValue, err := decimal.NewFromString(c.String("initial-value"))
	if err != nil {
		return domain.SimulationConfig{}, fmt.Errorf("invalid initial-value: %w", err)
	}
	taxRate, err := decimal.NewFromString(c.String("tax-rate"))
	if err != nil {
		return domain.SimulationConfig{}, fmt.Errorf("invalid tax-rate: %w", err)
	}

	cfg := domain.SimulationConfig{
		InitialValue: initialValue,
		Days:         c.Int("days"),
		TaxRate:      taxRate,
	}
	if c.IsSet("seed") {
		seed := c.Uint64("seed")
		cfg.Seed = &seed
	}
	if err := cfg.Validate(); err != nil {
		return domain.SimulationConfig{}, err
	}
	return cfg, nil
}

func writeSummary(out io.Writer, result *domain.SimulationResult) error {
	fmt.Fprintf(out, "run %s  seed %d  days %d  tax rate %s\n\n", result.RunID, result.Seed, result.Config.Days, result.Config.TaxRate)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "scenario\ttrades\ttx value\ttx tax\tportfolio value\tportfolio tax\thigher tax\t")
	for _, s := range result.Scenarios {
		c := s.Comparison
		higher := string(c.HigherTaxStrategy)
		if higher == "" {
			higher = "equal"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t\n",
			s.Name,
			len(s.Transactions),
			c.TransactionValue.StringFixed(2),
			c.TransactionTax.StringFixed(2),
			c.PortfolioValue.StringFixed(2),
			c.PortfolioTax.StringFixed(2),
			higher,
		)
	}
	return w.Flush()
}
