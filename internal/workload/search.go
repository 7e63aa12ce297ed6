package workload

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"math/bits"
	"strconv"
	"strings"
)

const (
	maxNonce        = 500000
	minPrefixLength = 2
	maxPrefixLength = 5

	notFound     = "NOTFOUND"
	invalidTag   = "INVALID:"
	verdictValid = "valid"
	verdictBad   = "invalid"
)

// PrefixLength возвращает floor(log2(shardSize+1)/4), ограниченный диапазоном [2, 5].
// Считается в целых числах: floor(log2(m)) = bits.Len(m)-1.
func PrefixLength(shardSize int) int {
	if shardSize < 0 {
		return minPrefixLength
	}

	l := (bits.Len64(uint64(shardSize)+1) - 1) / 4
	if l < minPrefixLength {
		return minPrefixLength
	}
	if l > maxPrefixLength {
		return maxPrefixLength
	}
	return l
}

// SearchPrefix возвращает целевой префикс для поиска и проверки кандидата
func SearchPrefix(seed string, shardSize int) string {
	return Hash(seed)[:PrefixLength(shardSize)]
}

// HashSearch ищет первый nonce в [0, 500000], для которого
// hash(seed + ":" + nonce) начинается с целевого префикса.
func HashSearch(seed string, shardSize int) Result {
	prefix := []byte(SearchPrefix(seed, shardSize))

	buf := make([]byte, 0, len(seed)+8)
	buf = append(buf, seed...)
	buf = append(buf, ':')
	base := len(buf)

	var digest [sha256.Size * 2]byte
	for nonce := 0; nonce <= maxNonce; nonce++ {
		buf = strconv.AppendInt(buf[:base], int64(nonce), 10)
		sum := sha256.Sum256(buf)
		hex.Encode(digest[:], sum[:])
		if bytes.HasPrefix(digest[:], prefix) {
			h := string(digest[:])
			return Result{OutputHash: Hash(h), OutputValue: h}
		}
	}

	return Result{OutputHash: Hash(notFound), OutputValue: notFound}
}

// VerifyCandidate проверяет, что кандидат начинается с целевого префикса
func VerifyCandidate(seed string, shardSize int, candidate string) Result {
	prefix := SearchPrefix(seed, shardSize)
	if candidate != "" && strings.HasPrefix(candidate, prefix) {
		return Result{OutputHash: Hash(candidate), OutputValue: verdictValid}
	}
	return Result{OutputHash: Hash(invalidTag + candidate), OutputValue: verdictBad}
}
