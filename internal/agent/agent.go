package agent

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"workload-node/internal/auth"
	"workload-node/internal/config"
	"workload-node/internal/db"
	"workload-node/internal/grpc"
	"workload-node/internal/logger"
	"workload-node/internal/workload"
)

// TaskClient представляет интерфейс для клиента, который взаимодействует с координатором
type TaskClient interface {
	// GetTask получает задачу от координатора, nil без ошибки - задач нет
	GetTask(ctx context.Context) (*workload.Task, error)
	// SendTaskResult отправляет результат задачи координатору
	SendTaskResult(ctx context.Context, result TaskResult) error
	// Close закрывает соединение с координатором
	Close() error
}

// ClientOptions настраивает gRPC клиента агента
type ClientOptions struct {
	NodeID      string
	Timeout     time.Duration
	MaxFailures uint32
	// Сколько держать предохранитель открытым
	OpenTimeout time.Duration
	// Токен на каждый вызов; nil - без авторизации
	Credentials credentials.PerRPCCredentials
	DialOptions []grpclib.DialOption
}

// grpcClientAdapter адаптирует GRPCTaskClient к интерфейсу TaskClient
type grpcClientAdapter struct {
	address string
	opts    ClientOptions
	breaker *gobreaker.CircuitBreaker

	mu     sync.Mutex
	client *grpc.GRPCTaskClient
}

// NewGRPCClient создает gRPC клиент для координатора. Вызовы идут через предохранитель:
// после MaxFailures ошибок подряд запросы не отправляются до истечения OpenTimeout
func NewGRPCClient(address string, opts ClientOptions) (TaskClient, error) {
	if address == "" {
		return nil, errors.New("coordinator address is empty")
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 10 * time.Second
	}

	maxFailures := opts.MaxFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "coordinator",
		Timeout: opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// отказ координатора принять результат - не сбой связи
			return err == nil || errors.Is(err, grpc.ErrResultRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.LogINFO(fmt.Sprintf("circuit breaker %s: %s -> %s", name, from, to))
		},
	})

	return &grpcClientAdapter{address: address, opts: opts, breaker: breaker}, nil
}

// Инициализация клиента при первом использовании
func (g *grpcClientAdapter) ensureClient() (*grpc.GRPCTaskClient, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		dialOpts := append([]grpclib.DialOption{}, g.opts.DialOptions...)
		if g.opts.Credentials != nil {
			dialOpts = append(dialOpts, grpclib.WithPerRPCCredentials(g.opts.Credentials))
		}
		client, err := grpc.NewGRPCTaskClient(g.address, g.opts.Timeout, dialOpts...)
		if err != nil {
			return nil, err
		}
		g.client = client
	}
	return g.client, nil
}

// GetTask получает задачу через gRPC
func (g *grpcClientAdapter) GetTask(ctx context.Context) (*workload.Task, error) {
	client, err := g.ensureClient()
	if err != nil {
		return nil, err
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		return client.GetTask(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.(*workload.Task), nil
}

// SendTaskResult отправляет результат задачи через gRPC
func (g *grpcClientAdapter) SendTaskResult(ctx context.Context, result TaskResult) error {
	client, err := g.ensureClient()
	if err != nil {
		return err
	}

	_, err = g.breaker.Execute(func() (interface{}, error) {
		return nil, client.SendTaskResult(ctx, grpc.TaskResult{
			TaskID:      result.TaskID,
			NodeID:      g.opts.NodeID,
			OutputHash:  result.Result.OutputHash,
			OutputValue: result.Result.OutputValue,
			Error:       result.Error,
		})
	})
	return err
}

// Close закрывает соединение
func (g *grpcClientAdapter) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		err := g.client.Close()
		g.client = nil
		return err
	}
	return nil
}

// Agent опрашивает координатора и раздает задачи воркерам
type Agent struct {
	client       TaskClient
	store        ResultStore
	workers      int
	pollInterval time.Duration
	maxShardSize int
}

// Options настраивает агента; нулевые значения заменяются значениями по умолчанию
type Options struct {
	Workers      int
	PollInterval time.Duration
	// 0 - без ограничения
	MaxShardSize int
}

func New(client TaskClient, store ResultStore, opts Options) *Agent {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}
	return &Agent{
		client:       client,
		store:        store,
		workers:      opts.Workers,
		pollInterval: opts.PollInterval,
		maxShardSize: opts.MaxShardSize,
	}
}

// Run запускает воркеров и опрашивает координатора до отмены ctx.
// Задачи, уже попавшие в канал, досчитываются и отправляются после отмены
func (a *Agent) Run(ctx context.Context) error {
	logger.LogINFO(fmt.Sprintf("Starting %d workers", a.workers))

	tasksChan := make(chan workload.Task, a.workers)
	workerCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			a.Worker(workerCtx, tasksChan, id)
		}(i + 1)
	}
	defer func() {
		close(tasksChan)
		wg.Wait()
		logger.LogINFO("All workers stopped")
	}()

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		task, err := a.client.GetTask(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.LogERROR("GetTask: " + err.Error())
			}
			continue
		}
		if task == nil {
			continue
		}

		select {
		case tasksChan <- *task:
		case <-ctx.Done():
			return nil
		}
	}
}

// clientOptions переводит настройки узла в параметры клиента координатора.
// С COORDINATOR_TLS канал шифруется, и токен узла передается только по нему.
func clientOptions(cfg *config.Config) (ClientOptions, error) {
	opts := ClientOptions{
		NodeID:      cfg.NodeID,
		Timeout:     cfg.RPCTimeout,
		MaxFailures: cfg.BreakerMaxFailures,
	}

	if cfg.CoordinatorTLS {
		creds := credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
		if cfg.CoordinatorCAFile != "" {
			var err error
			creds, err = credentials.NewClientTLSFromFile(cfg.CoordinatorCAFile, "")
			if err != nil {
				return ClientOptions{}, fmt.Errorf("load coordinator CA: %w", err)
			}
		}
		opts.DialOptions = append(opts.DialOptions, grpclib.WithTransportCredentials(creds))
	}

	if cfg.NodeSecret != "" {
		opts.Credentials = auth.TokenCredentials{NodeID: cfg.NodeID, Secure: cfg.CoordinatorTLS}
		if !cfg.CoordinatorTLS {
			logger.LogINFO("COORDINATOR_TLS not set, node token is sent over a plaintext channel")
		}
	} else {
		logger.LogINFO("NODE_SECRET not set, calls to coordinator are not signed")
	}

	return opts, nil
}

// StartAgent собирает агента из config.AppConfig и запускает его до отмены ctx
func StartAgent(ctx context.Context) error {
	cfg := config.AppConfig
	logger.LogINFO(fmt.Sprintf("COMPUTING_POWER set to %d", cfg.ComputingPower))
	logger.LogINFO("Connecting to coordinator at " + cfg.CoordinatorAddr)

	opts, err := clientOptions(cfg)
	if err != nil {
		return err
	}

	client, err := NewGRPCClient(cfg.CoordinatorAddr, opts)
	if err != nil {
		return fmt.Errorf("failed to create gRPC client: %w", err)
	}
	defer client.Close()

	a := New(client, db.Journal{}, Options{
		Workers:      cfg.ComputingPower,
		PollInterval: cfg.AgentRequestTimeout,
		MaxShardSize: cfg.MaxShardSize,
	})
	return a.Run(ctx)
}
