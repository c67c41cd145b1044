package resources

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spaghettifunk/geomstudio/engine/core"
)

// ParseHexColor parses "#rrggbb" or "#rrggbbaa". Alpha defaults to 1.
func ParseHexColor(s string) (colorful.Color, float32, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") || (len(s) != 7 && len(s) != 9) {
		return colorful.Color{}, 0, fmt.Errorf("%w: %q", core.ErrInvalidColor, s)
	}
	alpha := float32(1)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return colorful.Color{}, 0, fmt.Errorf("%w: %q", core.ErrInvalidColor, s)
		}
		alpha = float32(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, 0, fmt.Errorf("%w: %q", core.ErrInvalidColor, s)
	}
	return c, alpha, nil
}

// FormatHexColor is the inverse of ParseHexColor. Alpha is emitted only when
// it is below 1.
func FormatHexColor(c colorful.Color, alpha float32) string {
	hex := c.Clamped().Hex()
	if alpha >= 1 {
		return hex
	}
	if alpha < 0 {
		alpha = 0
	}
	return fmt.Sprintf("%s%02x", hex, uint8(alpha*255+0.5))
}

func IsHexColor(s string) bool {
	_, _, err := ParseHexColor(s)
	return err == nil
}

type environmentPreset struct {
	saturation float64
	value      float64
}

var environments = map[string]environmentPreset{
	"void":     {saturation: 0.0, value: 0.02},
	"nebula":   {saturation: 0.65, value: 0.18},
	"aurora":   {saturation: 0.45, value: 0.30},
	"studio":   {saturation: 0.05, value: 0.85},
	"sunset":   {saturation: 0.70, value: 0.55},
	"hologram": {saturation: 0.90, value: 0.10},
}

func Environments() []string {
	return []string{"void", "nebula", "aurora", "studio", "sunset", "hologram"}
}

func KnownEnvironment(name string) bool {
	_, ok := environments[name]
	return ok
}

// EnvironmentBackground returns the clear colour for an environment at the
// given hue in degrees. Unknown environments fall back to "void".
func EnvironmentBackground(name string, hue float32) colorful.Color {
	p, ok := environments[name]
	if !ok {
		p = environments["void"]
	}
	h := float64(hue)
	for h < 0 {
		h += 360
	}
	for h >= 360 {
		h -= 360
	}
	return colorful.Hsv(h, p.saturation, p.value)
}
