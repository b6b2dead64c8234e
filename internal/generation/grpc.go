package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region constants

const (
	// GeneratorService is the gRPC service name the sidecar registers.
	GeneratorService = "emostate.generation.v1.Generator"
	generateMethod   = "/" + GeneratorService + "/Generate"
)

// #endregion

// #region client-struct

// GRPCService calls a generation sidecar over gRPC. Payloads are
// google.protobuf.Struct messages so the sidecar needs no shared stubs.
type GRPCService struct {
	conn   *grpc.ClientConn
	cc     grpc.ClientConnInterface
	health healthpb.HealthClient
}

// #endregion

// #region constructor

// NewGRPCService connects to the sidecar at addr.
func NewGRPCService(addr string) (*GRPCService, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	s := NewGRPCServiceWithConn(conn)
	s.conn = conn
	return s, nil
}

// NewGRPCServiceWithConn creates a GRPCService over an existing connection.
// Used for testing without a real sidecar.
func NewGRPCServiceWithConn(cc grpc.ClientConnInterface) *GRPCService {
	return &GRPCService{
		cc:     cc,
		health: healthpb.NewHealthClient(cc),
	}
}

// #endregion

// #region close

// Close shuts down the gRPC connection if this service owns one.
func (s *GRPCService) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// #endregion

// #region generate

// Generate implements Service.
func (s *GRPCService) Generate(ctx context.Context, req Request) (string, error) {
	in, err := requestStruct(req)
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	out := &structpb.Struct{}
	if err := s.cc.Invoke(ctx, generateMethod, in, out); err != nil {
		return "", fmt.Errorf("generate rpc: %w", err)
	}

	text := strings.TrimSpace(out.GetFields()["text"].GetStringValue())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// requestStruct flattens req through JSON so arbitrary caller context
// becomes valid Struct values.
func requestStruct(req Request) (*structpb.Struct, error) {
	raw, err := json.Marshal(map[string]any{
		"message":    req.Message,
		"state_id":   int(req.StateID),
		"state_name": req.StateName,
		"context":    req.Context,
	})
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// #endregion

// #region health

// Healthy implements Service with the standard gRPC health protocol.
func (s *GRPCService) Healthy(ctx context.Context) bool {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: GeneratorService})
	if err != nil {
		return false
	}
	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
}

// #endregion

var _ Service = (*GRPCService)(nil)
