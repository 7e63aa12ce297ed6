package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	NodeID              string
	CoordinatorAddr     string
	CoordinatorTLS      bool
	CoordinatorCAFile   string
	LogFilePath         string
	DBPath              string
	ComputingPower      int
	AgentRequestTimeout time.Duration
	RPCTimeout          time.Duration
	ServerPort          string
	NodeSecret          string
	TokenTTL            time.Duration
	MaxShardSize        int
	BreakerMaxFailures  uint32
}

// envConfig описывает переменные окружения в том виде, в котором они приходят
type envConfig struct {
	NodeID              string `env:"NODE_ID"`
	CoordinatorAddr     string `env:"COORDINATOR_ADDR" envDefault:"localhost:8081"`
	CoordinatorTLS      bool   `env:"COORDINATOR_TLS"`
	CoordinatorCAFile   string `env:"COORDINATOR_CA_FILE"`
	LogFilePath         string `env:"LOG_FILE_PATH"`
	DBPath              string `env:"DB_PATH" envDefault:"data/results.db"`
	ComputingPower      int    `env:"COMPUTING_POWER" envDefault:"1"`
	AgentRequestTimeout int    `env:"AGENT_REQUEST_TIMEOUT_MS" envDefault:"500"`
	RPCTimeout          int    `env:"RPC_TIMEOUT_MS" envDefault:"5000"`
	ServerPort          string `env:"SERVER_PORT" envDefault:"8080"`
	NodeSecret          string `env:"NODE_SECRET"`
	TokenTTLMinutes     int    `env:"TOKEN_TTL_MINUTES" envDefault:"60"`
	MaxShardSize        int    `env:"MAX_SHARD_SIZE" envDefault:"8192"`
	BreakerMaxFailures  uint32 `env:"BREAKER_MAX_FAILURES" envDefault:"5"`
}

var AppConfig *Config

// InitConfig загружает конфигурацию и завершает процесс, если она некорректна
func InitConfig(configPath string) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	AppConfig = cfg
}

// LoadConfig читает .env (если он есть) и переменные окружения
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		if err := godotenv.Load(configPath); err != nil {
			return nil, fmt.Errorf("error loading %s: %w", configPath, err)
		}
	} else {
		log.Printf("%s not found, using environment only", configPath)
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if raw.ComputingPower <= 0 {
		log.Println("COMPUTING_POWER is not positive. Auto set to 1")
		raw.ComputingPower = 1
	}
	if raw.AgentRequestTimeout <= 0 {
		log.Println("AGENT_REQUEST_TIMEOUT_MS is not positive. Auto set to 500ms")
		raw.AgentRequestTimeout = 500
	}
	if raw.MaxShardSize < 0 {
		return nil, fmt.Errorf("MAX_SHARD_SIZE must not be negative, got %d", raw.MaxShardSize)
	}
	if raw.NodeID == "" {
		raw.NodeID = uuid.NewString()
		log.Printf("NODE_ID not set. Generated %s", raw.NodeID)
	}

	return &Config{
		NodeID:              raw.NodeID,
		CoordinatorAddr:     raw.CoordinatorAddr,
		CoordinatorTLS:      raw.CoordinatorTLS || raw.CoordinatorCAFile != "",
		CoordinatorCAFile:   raw.CoordinatorCAFile,
		LogFilePath:         raw.LogFilePath,
		DBPath:              raw.DBPath,
		ComputingPower:      raw.ComputingPower,
		AgentRequestTimeout: time.Duration(raw.AgentRequestTimeout) * time.Millisecond,
		RPCTimeout:          time.Duration(raw.RPCTimeout) * time.Millisecond,
		ServerPort:          raw.ServerPort,
		NodeSecret:          raw.NodeSecret,
		TokenTTL:            time.Duration(raw.TokenTTLMinutes) * time.Minute,
		MaxShardSize:        raw.MaxShardSize,
		BreakerMaxFailures:  raw.BreakerMaxFailures,
	}, nil
}
