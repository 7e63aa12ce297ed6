// Package fft реализует прямое дискретное преобразование Фурье по основанию 2.
//
// Порядок операций зафиксирован: поворотный множитель каждого этапа накапливается
// комплексным умножением, а не пересчитывается через sin/cos. От этого зависит
// округление, а значит и хеши, которые сверяют между собой узлы сети.
package fft

import (
	"errors"
	"math"
)

var (
	ErrLengthMismatch = errors.New("real and imaginary buffers differ in length")
	ErrNotPowerOfTwo  = errors.New("buffer length is not a power of two")
	ErrSizeOverflow   = errors.New("no power of two fits in int for this size")
)

// IsPowerOfTwo сообщает, является ли n положительной степенью двойки.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo возвращает наименьшую степень двойки >= size (1 для size <= 1).
// Если такая степень не помещается в int, возвращается ErrSizeOverflow.
func NextPowerOfTwo(size int) (int, error) {
	n := 1
	for n < size {
		if n > math.MaxInt/2 {
			return 0, ErrSizeOverflow
		}
		n <<= 1
	}
	return n, nil
}

// Transform выполняет ненормированное прямое преобразование на месте.
func Transform(re, im []float64) error {
	n := len(re)
	if len(im) != n {
		return ErrLengthMismatch
	}
	if !IsPowerOfTwo(n) {
		return ErrNotPowerOfTwo
	}

	// перестановка с обращением битов
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	// Явные float64(...) запрещают компилятору сливать умножение и сложение в FMA:
	// на arm64 слияние меняет последний бит результата.
	for length := 2; length <= n; length <<= 1 {
		angle := -2 * math.Pi / float64(length)
		wRe, wIm := math.Cos(angle), math.Sin(angle)
		half := length / 2

		for i := 0; i < n; i += length {
			curRe, curIm := 1.0, 0.0
			for j := 0; j < half; j++ {
				a, b := i+j, i+j+half

				uRe, uIm := re[a], im[a]
				vRe := float64(re[b]*curRe) - float64(im[b]*curIm)
				vIm := float64(re[b]*curIm) + float64(im[b]*curRe)

				re[a] = uRe + vRe
				im[a] = uIm + vIm
				re[b] = uRe - vRe
				im[b] = uIm - vIm

				nextRe := float64(curRe*wRe) - float64(curIm*wIm)
				curIm = float64(curRe*wIm) + float64(curIm*wRe)
				curRe = nextRe
			}
		}
	}

	return nil
}

// Inverse выполняет обратное преобразование через сопряжение и делит результат на n.
func Inverse(re, im []float64) error {
	if len(im) != len(re) {
		return ErrLengthMismatch
	}
	if !IsPowerOfTwo(len(re)) {
		return ErrNotPowerOfTwo
	}
	for i := range im {
		im[i] = -im[i]
	}
	if err := Transform(re, im); err != nil {
		return err
	}

	n := float64(len(re))
	for i := range re {
		re[i] /= n
		im[i] = -im[i] / n
	}
	return nil
}

// Magnitudes возвращает модуль каждого бина спектра.
func Magnitudes(re, im []float64) []float64 {
	mags := make([]float64, len(re))
	for i := range re {
		mags[i] = math.Sqrt(float64(re[i]*re[i]) + float64(im[i]*im[i]))
	}
	return mags
}
