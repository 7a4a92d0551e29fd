package dsp

import "math"

// Curve is a waveshaping transfer table over the input range [-1, 1]
type Curve struct {
	table []float64
}

// NewCurve wraps a precomputed table, at least two points
func NewCurve(table []float64) *Curve {
	if len(table) < 2 {
		table = []float64{-1, 1}
	}
	return &Curve{table: table}
}

// QuantizeCurve builds a staircase of round(x*steps)/steps over n points
func QuantizeCurve(n, steps int) *Curve {
	if n < 2 {
		n = 2
	}
	if steps < 1 {
		steps = 1
	}
	table := make([]float64, n)
	s := float64(steps)
	for i := range table {
		x := float64(i)*2/float64(n) - 1
		table[i] = math.Round(x*s) / s
	}
	return &Curve{table: table}
}

// Len returns the table size
func (c *Curve) Len() int {
	return len(c.table)
}

// At returns the raw table entry
func (c *Curve) At(i int) float64 {
	return c.table[i]
}

// Shape maps x through the table with linear interpolation, input clamped to [-1, 1]
func (c *Curve) Shape(x float64) float64 {
	if x <= -1 {
		return c.table[0]
	}
	last := len(c.table) - 1
	if x >= 1 {
		return c.table[last]
	}
	v := float64(last) * (x + 1) / 2
	k := int(v)
	if k >= last {
		return c.table[last]
	}
	f := v - float64(k)
	return c.table[k]*(1-f) + c.table[k+1]*f
}
