package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/taxsim-backend/internal/domain"
)

// maxExactSeed is the largest seed a JSON number carries without losing precision
const maxExactSeed = 1 << 53

// Simulator runs a full simulation for a config
type Simulator interface {
	Simulate(ctx context.Context, cfg domain.SimulationConfig) (*domain.SimulationResult, error)
}

// Server implements the SimulationService gRPC server
type Server struct {
	Simulator Simulator
	Defaults  domain.SimulationConfig
	Cache     *cache.Cache
	Logger    logrus.FieldLogger
}

// NewServer creates a new gRPC server instance
// Results are kept in the cache for its default expiration so seeded requests are
// answered without recomputation and GetScenario can address earlier runs.
func NewServer(simulator Simulator, defaults domain.SimulationConfig, results *cache.Cache, logger logrus.FieldLogger) *Server {
	return &Server{
		Simulator: simulator,
		Defaults:  defaults,
		Cache:     results,
		Logger:    logger,
	}
}

// Simulate handles the Simulate RPC
// Request fields (all optional): initialValue, days, taxRate, seed. Numbers may be sent
// as JSON numbers or strings; seeds above 2^53 must be strings.
func (s *Server) Simulate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	cfg, err := parseSimulateRequest(req, s.Defaults)
	if err != nil {
		return nil, mapError(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, mapError(err)
	}

	key := ""
	if cfg.Seed != nil {
		key = requestKey(cfg)
		if cached, ok := s.Cache.Get(key); ok {
			s.Logger.WithField("cache_key", key).Debug("simulation served from cache")
			return encodeResult(cached.(*domain.SimulationResult))
		}
	}

	result, err := s.Simulator.Simulate(ctx, cfg)
	if err != nil {
		return nil, mapError(err)
	}

	s.Cache.SetDefault(runKey(result.RunID), result)
	if key != "" {
		s.Cache.SetDefault(key, result)
	}

	return encodeResult(result)
}

// GetScenario handles the GetScenario RPC
// Request fields: runId of a cached run and scenario (bad, good or hold).
func (s *Server) GetScenario(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	runID, err := uuid.Parse(stringField(req, "runId"))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid runId format: %v", err)
	}

	scenario := domain.Strategy(stringField(req, "scenario"))
	if !scenario.Valid() {
		return nil, mapError(fmt.Errorf("unknown scenario %q", scenario))
	}

	cached, ok := s.Cache.Get(runKey(runID))
	if !ok {
		return nil, mapError(errors.New("simulation run not found"))
	}

	result, err := cached.(*domain.SimulationResult).Scenario(scenario)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(result)
}

func requestKey(cfg domain.SimulationConfig) string {
	return fmt.Sprintf("sim:%s:%d:%s:%d", cfg.InitialValue.String(), cfg.Days, cfg.TaxRate.String(), *cfg.Seed)
}

func runKey(id uuid.UUID) string {
	return "run:" + id.String()
}

// parseSimulateRequest overlays the request fields on the server defaults
func parseSimulateRequest(req *structpb.Struct, defaults domain.SimulationConfig) (domain.SimulationConfig, error) {
	cfg := domain.SimulationConfig{
		InitialValue: defaults.InitialValue,
		Days:         defaults.Days,
		TaxRate:      defaults.TaxRate,
	}
	fields := req.GetFields()

	if v, ok := fields["initialValue"]; ok {
		d, err := decimalValue(v, "initialValue")
		if err != nil {
			return cfg, err
		}
		cfg.InitialValue = d
	}

	if v, ok := fields["days"]; ok {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok || n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > math.MaxInt32 {
			return cfg, errors.New("invalid days: expected a whole number")
		}
		cfg.Days = int(n.NumberValue)
	}

	if v, ok := fields["taxRate"]; ok {
		d, err := decimalValue(v, "taxRate")
		if err != nil {
			return cfg, err
		}
		cfg.TaxRate = d
	}

	if v, ok := fields["seed"]; ok {
		seed, err := seedValue(v)
		if err != nil {
			return cfg, err
		}
		cfg.Seed = &seed
	}

	return cfg, nil
}

func decimalValue(v *structpb.Value, name string) (decimal.Decimal, error) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, fmt.Errorf("invalid %s: expected a finite number", name)
		}
		return decimal.NewFromFloat(n), nil
	case *structpb.Value_StringValue:
		d, err := decimal.NewFromString(kind.StringValue)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid %s format: %v", name, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("invalid %s: expected number or string", name)
	}
}

func seedValue(v *structpb.Value) (uint64, error) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n < 0 || n != math.Trunc(n) || n > maxExactSeed {
			return 0, errors.New("invalid seed: expected a non-negative whole number up to 2^53, send larger seeds as strings")
		}
		return uint64(n), nil
	case *structpb.Value_StringValue:
		seed, err := strconv.ParseUint(kind.StringValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid seed format: %v", err)
		}
		return seed, nil
	default:
		return 0, errors.New("invalid seed: expected number or string")
	}
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// encodeResult renders the result as a Struct with the seed as a decimal string
func encodeResult(result *domain.SimulationResult) (*structpb.Struct, error) {
	out, err := toStruct(result)
	if err != nil {
		return nil, err
	}
	out.Fields["seed"] = structpb.NewStringValue(strconv.FormatUint(result.Seed, 10))
	return out, nil
}

func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	errorMsg := err.Error()

	// Map "not found" errors to NotFound
	if strings.Contains(errorMsg, "not found") {
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	}

	// Map validation errors to InvalidArgument
	if strings.Contains(errorMsg, "must be") ||
		strings.Contains(errorMsg, "invalid") ||
		strings.Contains(errorMsg, "unknown") {
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	}

	// Anything else is an internal failure
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
