package dsp

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Convolver is a uniformly partitioned overlap-add FFT convolver
// The impulse response is split into block-sized partitions; each input block
// is transformed once and multiplied against every partition through a
// frequency-domain delay line. Latency is exactly one block.
type Convolver struct {
	block int
	size  int // FFT length, 2*block
	bins  int // size/2 + 1, the non-redundant half of a real spectrum

	parts [][]complex128 // partition spectra
	fdl   [][]complex128 // past input spectra, ring indexed from head
	head  int

	in    []float64
	out   []float64
	tail  []float64
	pos   int
	frame []float64
	acc   []complex128
}

// NewConvolver prepares ir for streaming convolution, block must be a power of two
func NewConvolver(ir []float64, block int) *Convolver {
	if block < 1 || block&(block-1) != 0 {
		panic("dsp: convolver block size must be a power of two")
	}
	if len(ir) == 0 {
		ir = []float64{0}
	}
	size := 2 * block
	count := (len(ir) + block - 1) / block

	c := &Convolver{
		block: block,
		size:  size,
		bins:  size/2 + 1,
		parts: make([][]complex128, count),
		fdl:   make([][]complex128, count),
		in:    make([]float64, block),
		out:   make([]float64, block),
		tail:  make([]float64, block),
		frame: make([]float64, size),
		acc:   make([]complex128, size),
	}

	for k := 0; k < count; k++ {
		clear(c.frame)
		end := (k + 1) * block
		if end > len(ir) {
			end = len(ir)
		}
		copy(c.frame, ir[k*block:end])
		spec := fft.FFTReal(c.frame)
		c.parts[k] = append([]complex128(nil), spec[:c.bins]...)
		c.fdl[k] = make([]complex128, c.bins)
	}
	return c
}

// Latency returns the delay in samples between input and output
func (c *Convolver) Latency() int {
	return c.block
}

// Partitions returns the number of impulse response partitions
func (c *Convolver) Partitions() int {
	return len(c.parts)
}

// Process pushes one input sample and returns one output sample
func (c *Convolver) Process(x float64) float64 {
	y := c.out[c.pos]
	c.in[c.pos] = x
	c.pos++
	if c.pos == c.block {
		c.pos = 0
		c.processBlock()
	}
	return y
}

// Reset clears all history
func (c *Convolver) Reset() {
	for _, f := range c.fdl {
		clear(f)
	}
	clear(c.in)
	clear(c.out)
	clear(c.tail)
	c.pos = 0
}

func (c *Convolver) processBlock() {
	copy(c.frame, c.in)
	clear(c.frame[c.block:])
	spec := fft.FFTReal(c.frame)

	n := len(c.fdl)
	c.head = (c.head + n - 1) % n
	copy(c.fdl[c.head], spec[:c.bins])

	clear(c.acc)
	for k, h := range c.parts {
		x := c.fdl[(c.head+k)%n]
		for j := 0; j < c.bins; j++ {
			c.acc[j] += x[j] * h[j]
		}
	}
	for j := 1; j < c.size/2; j++ {
		c.acc[c.size-j] = cmplx.Conj(c.acc[j])
	}

	y := fft.IFFT(c.acc)
	for i := 0; i < c.block; i++ {
		c.out[i] = real(y[i]) + c.tail[i]
		c.tail[i] = real(y[i+c.block])
	}
}
