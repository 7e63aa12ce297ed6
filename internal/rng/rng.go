// Package rng реализует детерминированный генератор псевдослучайных чисел,
// инициализируемый строковым сидом.
//
// Последовательность является частью сетевого контракта: все участники сети,
// получившие одинаковый сид, обязаны получить одинаковый поток значений на любой
// платформе. Поэтому генератор написан с нуля и не использует math/rand.
package rng

import "unicode/utf16"

// Generator хранит состояние xorshift128+ (вариант на 32-битных словах).
// Генератор не потокобезопасен: на каждую горутину нужен свой экземпляр.
type Generator struct {
	s0 uint32
	s1 uint32
}

// New создает генератор, сворачивая UTF-16 единицы сида в два аккумулятора.
func New(seed string) *Generator {
	var s0, s1 uint32
	for _, c := range utf16.Encode([]rune(seed)) {
		s0 = s0*31 + uint32(c)
		s1 = s1*37 + uint32(c)
	}
	// нулевое состояние вырождено для семейства xorshift
	if s0 == 0 {
		s0 = 1
	}
	if s1 == 0 {
		s1 = 1
	}
	return &Generator{s0: s0, s1: s1}
}

// Next возвращает следующее беззнаковое 32-битное значение.
func (g *Generator) Next() uint32 {
	x, y := g.s0, g.s1
	x ^= x << 23
	x ^= x >> 17
	x ^= y
	x ^= y >> 26
	g.s0 = y
	g.s1 = x
	return g.s0 + g.s1
}

// Float возвращает следующее значение, отображенное в [0, 1).
func (g *Generator) Float() float64 {
	return float64(g.Next()) / 4294967296
}

// GenerateData возвращает size значений, равномерно распределенных в [-1, 1).
func GenerateData(seed string, size int) []float64 {
	if size <= 0 {
		return []float64{}
	}

	g := New(seed)
	data := make([]float64, size)
	for i := range data {
		data[i] = g.Float()*2 - 1
	}
	return data
}
