package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned for color strings that do not decode
var ErrInvalidHex = errors.New("invalid hex color")

// RGB is a 24-bit color
type RGB struct {
	R, G, B uint8
}

// Predefined colors
var (
	RGBBlack = RGB{0, 0, 0}
	RGBWhite = RGB{255, 255, 255}

	// Fallback is shown when finger colors are missing or the finger count is invalid
	Fallback = RGB{0xe7, 0x4c, 0x3c}
)

// ParseHex decodes "#rrggbb" (or "#rgb"); the leading '#' is optional
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Fallback, fmt.Errorf("%w: empty", ErrInvalidHex)
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return Fallback, fmt.Errorf("%w: %q: %v", ErrInvalidHex, s, err)
	}
	return FromColorful(c), nil
}

// MustParseHex panics on invalid input, for package-level tables
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// DecodeAll decodes every entry; failed entries hold Fallback and are reported together
func DecodeAll(hexes []string) ([]RGB, error) {
	out := make([]RGB, len(hexes))
	var errs []error
	for i, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			errs = append(errs, fmt.Errorf("color %d: %w", i, err))
		}
		out[i] = c
	}
	return out, errors.Join(errs...)
}

// FromColorful converts a clamped colorful value to RGB
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Colorful converts to the go-colorful representation
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex formats as lowercase "#rrggbb"
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return c.Hex()
}

// Blend mixes toward other in Lab space, t in [0,1]
func (c RGB) Blend(other RGB, t float64) RGB {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return other
	}
	return FromColorful(c.Colorful().BlendLab(other.Colorful(), t))
}

// Brighten moves toward white by t
func (c RGB) Brighten(t float64) RGB {
	return c.Blend(RGBWhite, t)
}

// Dim moves toward black by t
func (c RGB) Dim(t float64) RGB {
	return c.Blend(RGBBlack, t)
}

// MarshalText encodes as hex, used by the websocket frame stream and stored settings
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText decodes a hex string
func (c *RGB) UnmarshalText(b []byte) error {
	v, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
