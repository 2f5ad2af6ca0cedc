// Package geometry строит 3D-геометрию комнаты из её 2D-описания:
// сегменты стен вокруг проёмов, расстановку мебели и проекцию дверей и окон.
// Все функции чистые, Engine безопасен для одновременного использования.
package geometry

import "math"

type Engine struct {
	c Constants
}

func NewEngine(c Constants) *Engine {
	return &Engine{c: c.Clone()}
}

// Constants возвращает копию таблиц, с которыми работает движок.
func (e *Engine) Constants() Constants {
	return e.c.Clone()
}

// clamp при перевёрнутых границах (lo > hi) возвращает lo.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
