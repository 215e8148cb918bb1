package chart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/itohio/reeflight/pkg/program"
)

// DefaultChannelColors are the channel colours used when none are configured.
var DefaultChannelColors = [program.NumChannels]string{"#00ffd0", "#1e6bff", "#7a00ff", "#ff7a00"}

// Palette holds the colours used to draw the chart.
type Palette struct {
	Channels   [program.NumChannels]color.NRGBA
	Background color.NRGBA
	Plot       color.NRGBA
	Grid       color.NRGBA
	Label      color.NRGBA
	Crosshair  color.NRGBA
	Range      color.NRGBA
	Danger     color.NRGBA
}

// DefaultPalette returns the dark palette with the default channel colours.
func DefaultPalette() Palette {
	p, _ := NewPalette(DefaultChannelColors[:])
	return p
}

// NewPalette builds a palette from "#rrggbb" channel colours. Missing or
// malformed entries fall back to the defaults and are reported in the error.
func NewPalette(channels []string) (Palette, error) {
	p := Palette{
		Background: color.NRGBA{R: 20, G: 22, B: 26, A: 255},
		Plot:       color.NRGBA{R: 28, G: 31, B: 36, A: 255},
		Grid:       color.NRGBA{R: 60, G: 64, B: 72, A: 255},
		Label:      color.NRGBA{R: 150, G: 150, B: 150, A: 255},
		Crosshair:  color.NRGBA{R: 200, G: 200, B: 200, A: 160},
		Range:      color.NRGBA{R: 120, G: 170, B: 255, A: 48},
		Danger:     color.NRGBA{R: 220, G: 60, B: 60, A: 255},
	}
	var firstErr error
	for _, ch := range program.Channels {
		i := ch.Index()
		hex := DefaultChannelColors[i]
		if i < len(channels) && channels[i] != "" {
			hex = channels[i]
		}
		c, err := ParseHexColor(hex)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to parse colour of channel %d: %w", ch, err)
			}
			c, _ = ParseHexColor(DefaultChannelColors[i])
		}
		p.Channels[i] = c
	}
	return p, firstErr
}

// Channel returns the colour of ch, dimmed when another channel is focused.
func (p Palette) Channel(ch program.Channel, focus program.Channel) color.NRGBA {
	if !ch.Valid() {
		return p.Label
	}
	c := p.Channels[ch.Index()]
	if focus.Valid() && focus != ch {
		c = withAlpha(c, dimmedChannelAlpha)
	}
	return c
}

// ParseHexColor parses "#rgb" or "#rrggbb".
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(program.Clamp(float64(c.A)*alpha, 0, 255))
	return c
}
