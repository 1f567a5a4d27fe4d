// Package colormap encodes an xG value as a white-to-blue colour.
package colormap

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
)

const (
	maxChannel = 255
	maxAlpha   = 0.7
)

// RGBA is a CSS-style colour: 0-255 channels and a 0-1 alpha.
type RGBA struct {
	R     int     `json:"r"`
	G     int     `json:"g"`
	B     int     `json:"b"`
	Alpha float64 `json:"alpha"`
}

// ColorFor maps xg to a colour that gets bluer and denser as xg grows:
// r = g = floor(255*(1-xg)), b = 255, alpha = 0.7*xg.
// xg is expected in [0, 1] and is not clamped.
func ColorFor(xg float64) RGBA {
	fade := int(math.Floor(maxChannel * (1 - xg)))
	return RGBA{
		R:     fade,
		G:     fade,
		B:     maxChannel,
		Alpha: xg * maxAlpha,
	}
}

// String renders the colour as rgba(r,g,b,a).
func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(c.Alpha, 'f', -1, 64))
}

// NRGBA converts to a non-premultiplied image colour. Out-of-range channels
// are clamped here since image/color cannot represent them.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: channel(float64(c.R)),
		G: channel(float64(c.G)),
		B: channel(float64(c.B)),
		A: channel(math.Round(c.Alpha * maxChannel)),
	}
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(maxChannel, v)))
}

// Stop is one entry of a legend gradient.
type Stop struct {
	XG    float64 `json:"xg"`
	Color RGBA    `json:"color"`
	CSS   string  `json:"css"`
}

// Legend returns n evenly spaced stops from xg=0 to xg=1. n below 2 yields
// the two end stops.
func Legend(n int) []Stop {
	if n < 2 {
		n = 2
	}
	stops := make([]Stop, n)
	for i := range stops {
		xg := float64(i) / float64(n-1)
		c := ColorFor(xg)
		stops[i] = Stop{XG: xg, Color: c, CSS: c.String()}
	}
	return stops
}
