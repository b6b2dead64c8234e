package generation

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region mock
type fakeConn struct {
	reply  *structpb.Struct
	err    error
	status healthpb.HealthCheckResponse_ServingStatus

	method  string
	request *structpb.Struct
}

func (f *fakeConn) Invoke(_ context.Context, method string, args, reply any, _ ...grpc.CallOption) error {
	f.method = method
	if f.err != nil {
		return f.err
	}
	switch r := reply.(type) {
	case *structpb.Struct:
		f.request = args.(*structpb.Struct)
		if f.reply != nil {
			proto.Merge(r, f.reply)
		}
	case *healthpb.HealthCheckResponse:
		r.Status = f.status
	}
	return nil
}

func (f *fakeConn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("streams not supported")
}

func textReply(t *testing.T, text string) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(map[string]any{"text": text})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// #endregion mock

func TestNewGRPCService(t *testing.T) {
	s, err := NewGRPCService("localhost:0")
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	defer s.Close()
}

func TestGRPCGenerate_Success(t *testing.T) {
	conn := &fakeConn{reply: textReply(t, " Je vous écoute. ")}
	s := NewGRPCServiceWithConn(conn)

	got, err := s.Generate(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Je vous écoute." {
		t.Errorf("got %q", got)
	}
	if conn.method != "/emostate.generation.v1.Generator/Generate" {
		t.Errorf("method = %q", conn.method)
	}

	fields := conn.request.GetFields()
	if fields["state_id"].GetNumberValue() != 64 {
		t.Errorf("state_id = %v", fields["state_id"])
	}
	ctxFields := fields["context"].GetStructValue().GetFields()
	if ctxFields["session_id"].GetStringValue() != "abc" {
		t.Errorf("session_id = %v", ctxFields["session_id"])
	}
	if !ctxFields["analysis"].GetStructValue().GetFields()["contradiction"].GetBoolValue() {
		t.Error("analysis not forwarded")
	}
	if ctxFields["caller"].GetStructValue().GetFields()["mood"].GetStringValue() != "agité" {
		t.Error("caller context not forwarded")
	}
}

func TestGRPCGenerate_Errors(t *testing.T) {
	tests := []struct {
		name string
		conn *fakeConn
		want error
	}{
		{"rpc error", &fakeConn{err: errors.New("unavailable")}, nil},
		{"missing text", &fakeConn{reply: &structpb.Struct{}}, ErrEmptyReply},
		{"blank text", &fakeConn{reply: textReply(t, "  ")}, ErrEmptyReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGRPCServiceWithConn(tt.conn).Generate(context.Background(), sampleRequest())
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGRPCHealthy(t *testing.T) {
	tests := []struct {
		name string
		conn *fakeConn
		want bool
	}{
		{"serving", &fakeConn{status: healthpb.HealthCheckResponse_SERVING}, true},
		{"not serving", &fakeConn{status: healthpb.HealthCheckResponse_NOT_SERVING}, false},
		{"error", &fakeConn{err: errors.New("down")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewGRPCServiceWithConn(tt.conn).Healthy(context.Background()); got != tt.want {
				t.Errorf("Healthy = %v, want %v", got, tt.want)
			}
		})
	}
}
