package driver

import "fmt"

// Sim prints a compact per-frame summary instead of driving hardware;
// useful for the simulator and headless tests.
type Sim struct {
	Frames int
	Quiet  bool
	last   []byte
}

func NewSim() *Sim { return &Sim{} }

// Last returns a copy-free view of the most recent frame.
func (d *Sim) Last() []byte { return d.last }

func (d *Sim) Write(rgb []byte) error {
	d.Frames++
	if d.last == nil {
		d.last = make([]byte, len(rgb))
	}
	copy(d.last, rgb)
	if d.Quiet {
		return nil
	}
	var r, g, b, lit int
	for i := 0; i+2 < len(rgb); i += 3 {
		r += int(rgb[i])
		g += int(rgb[i+1])
		b += int(rgb[i+2])
		if rgb[i] > 0 || rgb[i+1] > 0 || rgb[i+2] > 0 {
			lit++
		}
	}
	n := len(rgb) / 3
	if n == 0 {
		n = 1
	}
	fmt.Printf("[frame %04d] lit=%d/%d avg=(%d,%d,%d)\n", d.Frames, lit, len(rgb)/3, r/n, g/n, b/n)
	return nil
}

func (d *Sim) Close() error { return nil }
