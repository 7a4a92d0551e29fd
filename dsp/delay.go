package dsp

// DelayLine is a fixed-length ring buffer delay
type DelayLine struct {
	buf []float64
	pos int
}

// NewDelayLine creates a delay of n samples, minimum one
func NewDelayLine(n int) *DelayLine {
	if n < 1 {
		n = 1
	}
	return &DelayLine{buf: make([]float64, n)}
}

// Len returns the delay in samples
func (d *DelayLine) Len() int {
	return len(d.buf)
}

// Tick writes x and returns the sample written Len() ticks earlier
func (d *DelayLine) Tick(x float64) float64 {
	y := d.buf[d.pos]
	d.buf[d.pos] = x
	d.pos++
	if d.pos == len(d.buf) {
		d.pos = 0
	}
	return y
}

// Reset zeroes the line
func (d *DelayLine) Reset() {
	clear(d.buf)
	d.pos = 0
}
