package plotpng

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Colormaps are stop lists interpolated linearly in RGB. The viridis stops
// match the ones the HTML charts use, so PNG and HTML output of the same
// section agree.
var colormaps = map[string][]string{
	"viridis":  {"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"cividis":  {"#00224e", "#123570", "#3b496c", "#575d6d", "#707173", "#8a8678", "#a59c74", "#c3b369", "#e1cc55", "#fee838"},
	"plasma":   {"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786", "#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921"},
	"magma":    {"#000004", "#180f3e", "#451077", "#721f81", "#9f2f7f", "#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf"},
	"blues":    {"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"},
	"winter":   {"#0000ff", "#0040df", "#0080bf", "#00bf9f", "#00ff80"},
	"redbrown": {"#fdf0e0", "#ecc8a0", "#d69c63", "#b06e34", "#7a4418", "#4a2509"},
}

type ramp []color.RGBA

// rampFor resolves a colormap name, falling back to viridis for names the
// table does not carry.
func rampFor(name string) ramp {
	stops, ok := colormaps[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		stops = colormaps["viridis"]
	}
	r := make(ramp, len(stops))
	for i, s := range stops {
		r[i] = hexColor(s)
	}
	return r
}

// hexColor parses "#rrggbb" into an opaque RGBA. Malformed input yields
// opaque black.
func hexColor(s string) color.RGBA {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// at maps t in [0, 1] to a colour on the ramp, clamping values outside the
// range to the end stops.
func (r ramp) at(t float64) color.RGBA {
	if len(r) == 0 {
		return color.RGBA{A: 255}
	}
	if math.IsNaN(t) || t <= 0 {
		return r[0]
	}
	if t >= 1 {
		return r[len(r)-1]
	}
	f := t * float64(len(r)-1)
	i := int(f)
	frac := f - float64(i)
	lo, hi := r[i], r[i+1]
	return color.RGBA{
		R: lerp8(lo.R, hi.R, frac),
		G: lerp8(lo.G, hi.G, frac),
		B: lerp8(lo.B, hi.B, frac),
		A: 255,
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + t*(float64(b)-float64(a))))
}

// span is a colour scale interval. A degenerate interval maps everything to
// the middle of the ramp.
type span struct {
	lo, hi float64
}

func (s span) norm(v float64) float64 {
	if s.hi <= s.lo {
		return 0.5
	}
	return (v - s.lo) / (s.hi - s.lo)
}
