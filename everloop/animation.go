package everloop

import (
	"github.com/vikonava/matrix-creator/malos"
)

// Animation yields frames, Next advances to the following frame.
type Animation interface {
	Frame() *malos.DriverConfig
	Next()
}

const spinnerTail = 5

// Spinner is a 5 LED tail of growing intensity running around the ring.
type Spinner struct {
	leds []Color
}

func NewSpinner(c Color) *Spinner {
	s := &Spinner{leds: make([]Color, LedCount)}
	for i := 1; i <= spinnerTail; i++ {
		s.leds[i-1] = c.Scale(uint32(i*2), 10)
	}
	return s
}

func (s *Spinner) Frame() *malos.DriverConfig { return Image(s.leds) }

// Next moves every LED one position forward, last wraps to first.
func (s *Spinner) Next() {
	last := s.leds[len(s.leds)-1]
	copy(s.leds[1:], s.leds[:len(s.leds)-1])
	s.leds[0] = last
}

const pulseLevels = 11

// Pulse fades whole ring through 11 intensity levels up and down.
type Pulse struct {
	frames [pulseLevels]*malos.DriverConfig
	level  int
	step   int
}

func NewPulse(c Color) *Pulse {
	p := &Pulse{step: 1}
	for i := range p.frames {
		p.frames[i] = Solid(c.tenth().Scale(uint32(i), 1))
	}
	return p
}

func (p *Pulse) Frame() *malos.DriverConfig { return p.frames[p.level] }

func (p *Pulse) Level() int { return p.level }

func (p *Pulse) Next() {
	p.level += p.step
	switch {
	case p.level == pulseLevels:
		p.level, p.step = pulseLevels-1, -1
	case p.level < 0:
		p.level, p.step = 0, 1
	}
}
