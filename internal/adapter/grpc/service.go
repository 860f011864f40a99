package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Fully-qualified names of the simulation service and its methods
const (
	ServiceName           = "taxsim.v1.SimulationService"
	SimulateMethod        = "/" + ServiceName + "/Simulate"
	GetScenarioMethod     = "/" + ServiceName + "/GetScenario"
	simulationServiceFile = "taxsim/v1/simulation.proto"
)

// SimulationServer is the server API for the SimulationService.
// Requests and responses are JSON-shaped protobuf Structs.
type SimulationServer interface {
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetScenario(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// SimulationServiceDesc describes the SimulationService for grpc.Server.RegisterService
var SimulationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulationServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Simulate", Handler: simulateHandler},
		{MethodName: "GetScenario", Handler: getScenarioHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: simulationServiceFile,
}

// RegisterSimulationServer registers srv on the given registrar
func RegisterSimulationServer(s grpc.ServiceRegistrar, srv SimulationServer) {
	s.RegisterService(&SimulationServiceDesc, srv)
}

func simulateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulationServer).Simulate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SimulateMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SimulationServer).Simulate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getScenarioHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulationServer).GetScenario(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetScenarioMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SimulationServer).GetScenario(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// SimulationClient is a thin client for the SimulationService
type SimulationClient struct {
	cc grpc.ClientConnInterface
}

// NewSimulationClient creates a client on top of an established connection
func NewSimulationClient(cc grpc.ClientConnInterface) *SimulationClient {
	return &SimulationClient{cc: cc}
}

// Simulate calls the Simulate RPC
func (c *SimulationClient) Simulate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SimulateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetScenario calls the GetScenario RPC
func (c *SimulationClient) GetScenario(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetScenarioMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
