package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"workload-node/internal/auth"
	"workload-node/internal/config"
	"workload-node/internal/workload"
)

// fakeCoordinator выдает задачи из списка и запоминает присланные результаты
type fakeCoordinator struct {
	mu       sync.Mutex
	tasks    []workload.Task
	results  []TaskResult
	reject   string
	nodeSeen string
}

func (f *fakeCoordinator) GetTask(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if claims, ok := auth.GetNodeFromContext(ctx); ok {
		f.nodeSeen = claims.NodeID
	}
	if len(f.tasks) == 0 {
		return TaskResponse(nil)
	}
	task := f.tasks[0]
	f.tasks = f.tasks[1:]
	return TaskResponse(&task)
}

func (f *fakeCoordinator) SendTaskResult(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	res, err := ResultFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if f.reject != "" {
		return Ack(errors.New(f.reject)), nil
	}
	f.results = append(f.results, res)
	return Ack(nil), nil
}

func startBufServer(t *testing.T, srv TaskServiceServer, opts ...grpc.ServerOption) *bufconn.Listener {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer(opts...)
	RegisterTaskServiceServer(s, srv)
	go s.Serve(lis)
	t.Cleanup(s.Stop)
	return lis
}

func dialBuf(t *testing.T, lis *bufconn.Listener, opts ...grpc.DialOption) *GRPCTaskClient {
	t.Helper()
	dialer := func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}
	client, err := NewGRPCTaskClient("bufnet", time.Second, append([]grpc.DialOption{grpc.WithContextDialer(dialer)}, opts...)...)
	if err != nil {
		t.Fatalf("NewGRPCTaskClient() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// TestGRPCTaskClient_GetTask проверяет получение задачи через gRPC
func TestGRPCTaskClient_GetTask(t *testing.T) {
	coordinator := &fakeCoordinator{
		tasks: []workload.Task{{
			TaskID:        "t-1",
			TaskType:      workload.TypeFFT,
			Seed:          "test",
			ShardSize:     16,
			ConsensusMode: workload.ModeVote,
			Phase:         workload.PhaseJudge,
			Responses:     []workload.Response{},
		}},
	}
	client := dialBuf(t, startBufServer(t, coordinator))

	t.Run("Task available", func(t *testing.T) {
		task, err := client.GetTask(context.Background())
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if task == nil {
			t.Fatal("Expected a task, got nil")
		}
		if task.TaskID != "t-1" || task.Seed != "test" || task.ShardSize != 16 {
			t.Errorf("Unexpected task: %+v", *task)
		}
		// пустой список ответов должен остаться пустым списком, а не nil
		if task.Responses == nil {
			t.Error("Expected empty responses list to survive the transport")
		}
		if workload.Route(*task) != workload.KindJudge {
			t.Errorf("Expected judge route, got %s", workload.Route(*task))
		}
	})

	t.Run("No tasks", func(t *testing.T) {
		task, err := client.GetTask(context.Background())
		if err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if task != nil {
			t.Errorf("Expected no task, got %+v", *task)
		}
	})
}

// TestGRPCTaskClient_SendTaskResult проверяет отправку результата
func TestGRPCTaskClient_SendTaskResult(t *testing.T) {
	coordinator := &fakeCoordinator{}
	client := dialBuf(t, startBufServer(t, coordinator))

	res := TaskResult{TaskID: "t-1", NodeID: "node-1", OutputHash: "abc", OutputValue: "PERIODIC"}
	if err := client.SendTaskResult(context.Background(), res); err != nil {
		t.Fatalf("SendTaskResult failed: %v", err)
	}

	if len(coordinator.results) != 1 || coordinator.results[0] != res {
		t.Errorf("Coordinator got %+v, want [%+v]", coordinator.results, res)
	}

	coordinator.reject = "duplicate result"
	err := client.SendTaskResult(context.Background(), res)
	if !errors.Is(err, ErrResultRejected) {
		t.Errorf("Expected ErrResultRejected, got %v", err)
	}
}

func TestGRPCTaskClient_Timeout(t *testing.T) {
	client := dialBuf(t, startBufServer(t, &slowCoordinator{}))
	client.timeout = 50 * time.Millisecond

	_, err := client.GetTask(context.Background())
	if status.Code(err) != codes.DeadlineExceeded {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
}

type slowCoordinator struct {
	fakeCoordinator
}

func (s *slowCoordinator) GetTask(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// TestPerRPCCredentials проверяет, что токен узла проходит через перехватчик сервера
func TestPerRPCCredentials(t *testing.T) {
	prev := config.AppConfig
	config.AppConfig = &config.Config{NodeSecret: "grpc-secret", TokenTTL: time.Minute}
	defer func() { config.AppConfig = prev }()

	coordinator := &fakeCoordinator{}
	lis := startBufServer(t, coordinator, grpc.UnaryInterceptor(auth.UnaryServerInterceptor))

	t.Run("With token", func(t *testing.T) {
		client := dialBuf(t, lis, grpc.WithPerRPCCredentials(auth.TokenCredentials{NodeID: "node-7"}))
		if _, err := client.GetTask(context.Background()); err != nil {
			t.Fatalf("GetTask failed: %v", err)
		}
		if coordinator.nodeSeen != "node-7" {
			t.Errorf("Expected node-7 in server context, got %q", coordinator.nodeSeen)
		}
	})

	t.Run("Without token", func(t *testing.T) {
		client := dialBuf(t, lis)
		_, err := client.GetTask(context.Background())
		if status.Code(err) != codes.Unauthenticated {
			t.Errorf("Expected Unauthenticated, got %v", err)
		}
	})
}
