package workload

import (
	"encoding/json"
	"errors"
)

var (
	ErrInvalidTask      = errors.New("invalid task descriptor")
	ErrInvalidShardSize = errors.New("invalid shard size")
)

// Режимы консенсуса
const (
	ModeVerify           = "verify"
	ModeVote             = "vote"
	ModeNumericTolerance = "numeric_tolerance"
)

// Фазы внутри режима консенсуса
const (
	PhaseSearch  = "search"
	PhaseVerify  = "verify"
	PhaseProduce = "produce"
	PhaseJudge   = "judge"
)

// Типы задач, которые ядро умеет считать без режима консенсуса
const (
	TypeFFT        = "fft"
	TypeSpectral   = "spectral"
	TypeMonteCarlo = "monte_carlo"
	TypeSHAChain   = "sha_chain"
)

// Kind обозначает вычислительное ядро, выбранное диспетчером
type Kind string

const (
	KindSpectral        Kind = "spectral"
	KindSHAChain        Kind = "sha_chain"
	KindMonteCarlo      Kind = "monte_carlo"
	KindSimulation      Kind = "simulation"
	KindHashSearch      Kind = "hash_search"
	KindVerifyCandidate Kind = "verify_candidate"
	KindClassify        Kind = "classify"
	KindJudge           Kind = "judge"
)

// Task представляет собой задачу, полученную от координатора.
// Extra хранит неизвестные ключи дескриптора и ядром не читается.
type Task struct {
	TaskID        string
	TaskType      string
	Seed          string
	ShardSize     int
	ConsensusMode string
	Phase         string
	Candidate     string
	Responses     []Response
	Extra         map[string]json.RawMessage
}

// Response представляет собой результат другого участника, переданный на оценку
type Response struct {
	OutputHash  string `json:"output_hash"`
	OutputValue string `json:"output_value,omitempty"`
	Index       *int   `json:"index,omitempty"`
}

// Result представляет собой результат выполнения задачи
type Result struct {
	OutputHash  string `json:"output_hash"`
	OutputValue string `json:"output_value,omitempty"`
}
