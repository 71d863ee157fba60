package audio

// NullDevice accepts and discards everything.
type NullDevice struct {
	Rate   int
	Frames int
}

func (d *NullDevice) Configure(rate int) (int, error) {
	d.Rate = rate
	return rate / 10, nil
}

func (d *NullDevice) Write(samples []int16) (int, error) {
	n := len(samples) / 2
	d.Frames += n
	return n, nil
}

func (d *NullDevice) Recover(error) error { return nil }

func (d *NullDevice) Close() error { return nil }
