package workload

import (
	"fmt"

	"workload-node/internal/rng"
)

const maxChainRounds = 10000

// SHAChain применяет хеш к сиду min(shardSize, 10000) раз.
// Первый хеш считается всегда, поэтому для shardSize <= 1 результат равен hash(seed).
func SHAChain(seed string, shardSize int) Result {
	rounds := min(shardSize, maxChainRounds)

	h := Hash(seed)
	for i := 1; i < rounds; i++ {
		h = Hash(h)
	}
	return Result{OutputHash: h}
}

// MonteCarlo оценивает число пи по shardSize парам точек из генератора.
// Для shardSize <= 0 оценка не определена и возвращается ErrInvalidShardSize.
func MonteCarlo(seed string, shardSize int) (Result, error) {
	if shardSize <= 0 {
		return Result{}, fmt.Errorf("%w: monte carlo needs at least one sample, got %d", ErrInvalidShardSize, shardSize)
	}

	g := rng.New(seed)
	inside := 0
	for i := 0; i < shardSize; i++ {
		x := g.Float()
		y := g.Float()
		if float64(x*x)+float64(y*y) < 1 {
			inside++
		}
	}

	estimate := FormatFixed(float64(4*inside)/float64(shardSize), 10)
	return Result{OutputHash: Hash(estimate)}, nil
}
