package everloop

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/vikonava/matrix-creator/malos"
)

// Color is RGB+W intensity of one LED, palette values use 0..10.
type Color struct {
	R, G, B, W uint32
}

var (
	White       = Color{W: 10}
	Red         = Color{R: 10}
	Orange      = Color{R: 10, G: 2}
	Yellow      = Color{R: 10, G: 5}
	SpringGreen = Color{R: 8, G: 10}
	Green       = Color{G: 10}
	Turquoise   = Color{G: 10, B: 2}
	Cyan        = Color{G: 10, B: 10}
	Ocean       = Color{G: 6, B: 10}
	Blue        = Color{B: 10}
	Violet      = Color{R: 4, B: 10}
	Magenta     = Color{R: 10, B: 10}
	Raspberry   = Color{R: 10, B: 3}
	Off         = Color{}
)

var palette = map[string]Color{
	"white":        White,
	"red":          Red,
	"orange":       Orange,
	"yellow":       Yellow,
	"spring_green": SpringGreen,
	"green":        Green,
	"turquoise":    Turquoise,
	"cyan":         Cyan,
	"ocean":        Ocean,
	"blue":         Blue,
	"violet":       Violet,
	"magenta":      Magenta,
	"raspberry":    Raspberry,
	"off":          Off,
}

func ColorNames() []string {
	ss := make([]string, 0, len(palette))
	for name := range palette {
		ss = append(ss, name)
	}
	sort.Strings(ss)
	return ss
}

// ParseColor accepts palette name or "r,g,b,w" numbers.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := palette[strings.Replace(s, "-", "_", -1)]; ok {
		return c, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Color{}, errors.NotValidf("color %q", s)
	}
	var v [4]uint32
	for i, p := range parts {
		x, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return Color{}, errors.NotValidf("color %q component %d", s, i+1)
		}
		v[i] = uint32(x)
	}
	return Color{R: v[0], G: v[1], B: v[2], W: v[3]}, nil
}

// Scale returns color with every component multiplied by num/den.
func (c Color) Scale(num, den uint32) Color {
	return Color{R: c.R * num / den, G: c.G * num / den, B: c.B * num / den, W: c.W * num / den}
}

// tenth truncates every component to one tenth, pulse steps by whole tenths.
func (c Color) tenth() Color { return c.Scale(1, 10) }

func (c Color) String() string { return fmt.Sprintf("%d,%d,%d,%d", c.R, c.G, c.B, c.W) }

func (c Color) led() *malos.LedValue {
	return &malos.LedValue{Red: c.R, Green: c.G, Blue: c.B, White: c.W}
}

// Image builds driver configuration setting every LED in order.
func Image(leds []Color) *malos.DriverConfig {
	img := &malos.EverloopImage{Led: make([]*malos.LedValue, len(leds))}
	for i, c := range leds {
		img.Led[i] = c.led()
	}
	return &malos.DriverConfig{Image: img}
}

func Solid(c Color) *malos.DriverConfig {
	leds := make([]Color, LedCount)
	for i := range leds {
		leds[i] = c
	}
	return Image(leds)
}
