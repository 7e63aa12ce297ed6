package workload

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"workload-node/internal/fft"
	"workload-node/internal/rng"
)

// Метки классификации сигнала
const (
	LabelPeriodic        = "PERIODIC"
	LabelQuasiPeriodic   = "QUASI_PERIODIC"
	LabelStructuredNoise = "STRUCTURED_NOISE"
	LabelWhiteNoise      = "WHITE_NOISE"
)

// Spectrum строит амплитудный спектр сгенерированного по сиду сигнала.
// Длина спектра равна наименьшей степени двойки >= shardSize.
func Spectrum(seed string, shardSize int) ([]float64, error) {
	n, err := fft.NextPowerOfTwo(shardSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %d: %w", ErrInvalidShardSize, shardSize, err)
	}
	re := rng.GenerateData(seed, n)
	im := make([]float64, n)

	if err := fft.Transform(re, im); err != nil {
		return nil, err
	}

	return fft.Magnitudes(re, im), nil
}

// Spectral хеширует спектр, отформатированный с 6 знаками после точки
func Spectral(seed string, shardSize int) (Result, error) {
	mags, err := Spectrum(seed, shardSize)
	if err != nil {
		return Result{}, err
	}

	var b strings.Builder
	b.Grow(len(mags) * 10)
	for i, m := range mags {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(FormatFixed(m, 6))
	}

	return Result{OutputHash: Hash(b.String())}, nil
}

// Simulation считает стандартное отклонение амплитуд по всем бинам.
// Значение возвращается вместе с хешем, чтобы координатор мог сравнить его с допуском.
func Simulation(seed string, shardSize int) (Result, error) {
	mags, err := Spectrum(seed, shardSize)
	if err != nil {
		return Result{}, err
	}
	n := float64(len(mags))

	var sum float64
	for _, m := range mags {
		sum += m
	}
	mean := sum / n

	var variance float64
	for _, m := range mags {
		d := m - mean
		variance += float64(d * d)
	}
	variance /= n

	stddev := FormatFixed(math.Sqrt(variance), 10)
	return Result{OutputHash: Hash(stddev), OutputValue: stddev}, nil
}

// ClassifyRatio переводит отношение пика к среднему в метку класса
func ClassifyRatio(par float64) string {
	switch {
	case par > 10:
		return LabelPeriodic
	case par > 5:
		return LabelQuasiPeriodic
	case par > 2:
		return LabelStructuredNoise
	default:
		return LabelWhiteNoise
	}
}

// PeakToAverage считает отношение максимума к среднему по бинам 1..n/2-1.
// Без бинов (n <= 2) или при нулевом среднем возвращается 0.
func PeakToAverage(mags []float64) float64 {
	half := len(mags) / 2
	if half <= 1 {
		return 0
	}

	var peak, sum float64
	for _, m := range mags[1:half] {
		if m > peak {
			peak = m
		}
		sum += m
	}

	mean := sum / float64(half-1)
	if mean == 0 {
		return 0
	}
	return peak / mean
}

// Classify определяет класс сигнала по его спектру
func Classify(seed string, shardSize int) (Result, error) {
	mags, err := Spectrum(seed, shardSize)
	if err != nil {
		return Result{}, err
	}
	label := ClassifyRatio(PeakToAverage(mags))
	return Result{OutputHash: Hash(label), OutputValue: label}, nil
}

// Judge выбирает ответ участника, совпадающий с собственной классификацией
func Judge(seed string, shardSize int, responses []Response) (Result, error) {
	own, err := Classify(seed, shardSize)
	if err != nil {
		return Result{}, err
	}
	return judgeResponses(own, responses), nil
}

func judgeResponses(own Result, responses []Response) Result {
	if len(responses) == 0 {
		return Result{OutputHash: own.OutputHash, OutputValue: "0"}
	}

	chosen := 0
	for i, resp := range responses {
		if resp.OutputValue == own.OutputValue {
			chosen = i
			break
		}
	}

	return Result{
		OutputHash:  responses[chosen].OutputHash,
		OutputValue: strconv.Itoa(chosen),
	}
}
