package audio

// Resampler converts interleaved stereo int16 between sample rates by
// linear interpolation. It keeps the last input frame so consecutive
// batches join without clicks.
type Resampler struct {
	step   float64
	pos    float64
	prev   [2]int16
	primed bool
	out    []int16
}

// NewResampler returns a converter from rate from to rate to.
func NewResampler(from, to int) *Resampler {
	r := &Resampler{}
	r.SetRates(from, to)
	return r
}

// SetRates changes the conversion ratio and drops interpolation state.
func (r *Resampler) SetRates(from, to int) {
	r.step = 1
	if from > 0 && to > 0 {
		r.step = float64(from) / float64(to)
	}
	r.pos = 0
	r.primed = false
}

// Passthrough reports whether the rates are equal.
func (r *Resampler) Passthrough() bool {
	return r.step == 1
}

// Process converts in and returns the output. The returned slice is
// reused by the next call.
func (r *Resampler) Process(in []int16) []int16 {
	frames := len(in) / 2
	if frames == 0 {
		return r.out[:0]
	}
	if r.Passthrough() {
		r.out = append(r.out[:0], in[:frames*2]...)
		return r.out
	}
	if !r.primed {
		r.prev = [2]int16{in[0], in[1]}
		r.primed = true
	}

	// Index 0 is the carried frame, index i>0 is in[i-1].
	at := func(i, ch int) float64 {
		if i == 0 {
			return float64(r.prev[ch])
		}
		return float64(in[(i-1)*2+ch])
	}

	r.out = r.out[:0]
	for r.pos+1 <= float64(frames) {
		i := int(r.pos)
		frac := r.pos - float64(i)
		for ch := 0; ch < 2; ch++ {
			a, b := at(i, ch), at(i+1, ch)
			r.out = append(r.out, int16(a+(b-a)*frac))
		}
		r.pos += r.step
	}
	r.pos -= float64(frames)
	r.prev = [2]int16{in[(frames-1)*2], in[(frames-1)*2+1]}
	return r.out
}
