package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"workload-node/internal/logger"
	"workload-node/internal/workload"
)

const defaultRPCTimeout = 5 * time.Second

var ErrResultRejected = errors.New("result rejected by coordinator")

// GRPCTaskClient представляет gRPC клиент для взаимодействия с координатором
type GRPCTaskClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

// NewGRPCTaskClient создает новый gRPC клиент. По умолчанию канал незащищенный,
// opts добавляются после и могут это переопределить
func NewGRPCTaskClient(address string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCTaskClient, error) {
	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.Dial(address, dialOpts...)
	if err != nil {
		return nil, err
	}

	if timeout <= 0 {
		timeout = defaultRPCTimeout
	}

	return &GRPCTaskClient{
		conn:    conn,
		timeout: timeout,
	}, nil
}

// Close закрывает соединение с сервером
func (c *GRPCTaskClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// GetTask запрашивает задачу у координатора. nil без ошибки - задач нет
func (c *GRPCTaskClient) GetTask(ctx context.Context) (*workload.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, getTaskFullMethod, &emptypb.Empty{}, resp); err != nil {
		logger.LogERROR("Ошибка при получении задачи: " + err.Error())
		return nil, err
	}

	task, err := taskFromResponse(resp)
	if err != nil {
		logger.LogERROR("Некорректный ответ GetTask: " + err.Error())
		return nil, err
	}
	if task == nil {
		return nil, nil
	}

	logger.LogINFO("Получена задача " + task.TaskID)
	return task, nil
}

// SendTaskResult отправляет результат выполнения задачи координатору
func (c *GRPCTaskClient) SendTaskResult(ctx context.Context, taskResult TaskResult) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, sendTaskResultFullMethod, ResultToStruct(taskResult), resp); err != nil {
		logger.LogERROR("Ошибка при отправке результата задачи: " + err.Error())
		return err
	}

	fields := resp.GetFields()
	if !fields["success"].GetBoolValue() {
		msg := fields["error"].GetStringValue()
		logger.LogERROR("Координатор отклонил результат " + taskResult.TaskID + ": " + msg)
		return fmt.Errorf("%w: %s", ErrResultRejected, msg)
	}

	logger.LogINFO("Результат задачи " + taskResult.TaskID + " отправлен")
	return nil
}
