package dsp

import (
	"math"
	"math/rand"
)

// WhiteNoise returns n uniform samples in [-1, 1)
func WhiteNoise(n int, rng *rand.Rand) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()*2 - 1
	}
	return out
}

// ImpulseResponse synthesizes a diffuse tail: per channel white noise
// scaled by (1 - i/len)^decay over seconds of audio
func ImpulseResponse(rate int, seconds, decay float64, channels int, rng *rand.Rand) [][]float64 {
	length := int(float64(rate) * seconds)
	if length < 1 {
		length = 1
	}
	ir := make([][]float64, channels)
	for ch := range ir {
		data := make([]float64, length)
		for i := range data {
			env := math.Pow(1-float64(i)/float64(length), decay)
			data[i] = (rng.Float64()*2 - 1) * env
		}
		ir[ch] = data
	}
	return ir
}
