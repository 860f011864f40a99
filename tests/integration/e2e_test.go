//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	grpcadapter "github.com/simaogato/taxsim-backend/internal/adapter/grpc"
)

var (
	grpcClient *grpcadapter.SimulationClient
	grpcConn   *grpc.ClientConn
)

// TestMain connects to a running simulation server
func TestMain(m *testing.M) {
	var err error
	grpcConn, err = grpc.NewClient(getGRPCAddress(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to gRPC server: %v", err))
	}

	grpcClient = grpcadapter.NewSimulationClient(grpcConn)

	code := m.Run()

	grpcConn.Close()
	os.Exit(code)
}

// getAuthContext returns a context with the API token attached
func getAuthContext(t *testing.T) context.Context {
	t.Helper()
	token := os.Getenv("API_TOKEN")
	if token == "" {
		token = "dev-token"
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)
	return metadata.NewOutgoingContext(ctx, metadata.Pairs("authorization", token))
}

// getGRPCAddress returns the gRPC server address from environment or default
func getGRPCAddress() string {
	addr := os.Getenv("GRPC_ADDRESS")
	if addr == "" {
		addr = "localhost:8080"
	}
	return addr
}

func request(t *testing.T, fields map[string]interface{}) *structpb.Struct {
	t.Helper()
	req, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return req
}

func decimalField(t *testing.T, s *structpb.Struct, name string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s.Fields[name].GetStringValue())
	require.NoError(t, err, "field %s", name)
	return d
}

// TestEndToEndFlow runs a seeded simulation and then fetches each scenario of the run
func TestEndToEndFlow(t *testing.T) {
	ctx := getAuthContext(t)

	resp, err := grpcClient.Simulate(ctx, request(t, map[string]interface{}{
		"initialValue": "50000",
		"days":         365.0,
		"taxRate":      "0.25",
		"seed":         "20240101",
	}))
	require.NoError(t, err)

	runID := resp.Fields["runId"].GetStringValue()
	require.NotEmpty(t, runID)
	assert.Equal(t, "20240101", resp.Fields["seed"].GetStringValue())
	require.Len(t, resp.Fields["scenarios"].GetListValue().GetValues(), 3)

	for _, name := range []string{"bad", "good", "hold"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := grpcClient.GetScenario(ctx, request(t, map[string]interface{}{
				"runId":    runID,
				"scenario": name,
			}))
			require.NoError(t, err)

			timeline := scenario.Fields["portfolioTimelinePortfolioLevel"].GetListValue().GetValues()
			require.NotEmpty(t, timeline)
			first := timeline[0].GetStructValue()
			assert.True(t, decimalField(t, first, "value").Equal(decimal.NewFromInt(50000)), "day 0 is fully invested at cost")

			comparison := scenario.Fields["comparison"].GetStructValue()
			assert.True(t, decimalField(t, comparison, "transactionValue").LessThanOrEqual(decimalField(t, comparison, "portfolioValue")))
		})
	}
}

// TestSeededRunsAreRepeatable checks that identical seeded requests return the same run
func TestSeededRunsAreRepeatable(t *testing.T) {
	ctx := getAuthContext(t)
	req := request(t, map[string]interface{}{"days": 120.0, "seed": 77.0})

	first, err := grpcClient.Simulate(ctx, req)
	require.NoError(t, err)
	second, err := grpcClient.Simulate(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.Fields["runId"].GetStringValue(), second.Fields["runId"].GetStringValue())
}

// TestErrorMapping checks the status codes surfaced for bad requests
func TestErrorMapping(t *testing.T) {
	ctx := getAuthContext(t)

	tests := []struct {
		name         string
		call         func() error
		expectedCode codes.Code
	}{
		{
			name: "Missing Token",
			call: func() error {
				_, err := grpcClient.Simulate(context.Background(), request(t, map[string]interface{}{}))
				return err
			},
			expectedCode: codes.Unauthenticated,
		},
		{
			name: "Tax Rate Out Of Range",
			call: func() error {
				_, err := grpcClient.Simulate(ctx, request(t, map[string]interface{}{"taxRate": 3.0}))
				return err
			},
			expectedCode: codes.InvalidArgument,
		},
		{
			name: "Unknown Run",
			call: func() error {
				_, err := grpcClient.GetScenario(ctx, request(t, map[string]interface{}{
					"runId":    "00000000-0000-0000-0000-000000000000",
					"scenario": "hold",
				}))
				return err
			},
			expectedCode: codes.NotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.Equal(t, tt.expectedCode, status.Code(err))
		})
	}
}
