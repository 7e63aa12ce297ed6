package workload

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Hash возвращает SHA-256 от строки в виде шестнадцатеричной строки в нижнем регистре
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// FormatFixed форматирует число с фиксированным количеством знаков после точки.
//
// Строки, а не сами числа, попадают под хеш, поэтому правила округления входят
// в контракт между узлами:
//   - округление по точному двоичному значению, половина округляется от нуля;
//   - ноль (в том числе -0) выводится без знака;
//   - отрицательное число, округленное до нуля, сохраняет знак ("-0.000000");
//   - NaN и бесконечности выводятся как "NaN", "Infinity", "-Infinity";
//   - при |x| >= 1e21 используется экспоненциальная запись.
func FormatFixed(x float64, digits int) string {
	if digits < 0 {
		digits = 0
	}

	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case x == 0:
		return strconv.FormatFloat(0, 'f', digits, 64)
	case math.Abs(x) >= 1e21:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}

	// strconv округляет половину к четному. Ничья возможна только когда
	// x*2^(digits+1) целое, такие значения досчитываются точно.
	scaled := math.Ldexp(x, digits+1)
	if scaled != math.Trunc(scaled) {
		return strconv.FormatFloat(x, 'f', digits, 64)
	}
	return formatExact(x, digits)
}

func formatExact(x float64, digits int) string {
	r := new(big.Rat).SetFloat64(math.Abs(x))
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	r.Mul(r, new(big.Rat).SetInt(pow))
	r.Add(r, big.NewRat(1, 2))

	n := new(big.Int).Quo(r.Num(), r.Denom())
	s := n.String()
	if len(s) <= digits {
		s = strings.Repeat("0", digits-len(s)+1) + s
	}

	var b strings.Builder
	if x < 0 {
		b.WriteByte('-')
	}
	if digits == 0 {
		b.WriteString(s)
		return b.String()
	}
	b.WriteString(s[:len(s)-digits])
	b.WriteByte('.')
	b.WriteString(s[len(s)-digits:])
	return b.String()
}
