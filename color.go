package colguide

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an ARGB stroke color.
type Color struct {
	A, R, G, B uint8
}

// Common colors.
var (
	Black = Color{A: 0xFF}
	Gray  = Color{A: 0xFF, R: 0x80, G: 0x80, B: 0x80}
)

// RGBA returns the color as alpha-premultiplied 16-bit channels, so Color
// satisfies image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A)
	a |= a << 8
	r = uint32(c.R)
	r |= r << 8
	r = r * a / 0xFFFF
	g = uint32(c.G)
	g |= g << 8
	g = g * a / 0xFFFF
	b = uint32(c.B)
	b |= b << 8
	b = b * a / 0xFFFF
	return r, g, b, a
}

// Hex returns the color as #RRGGBB, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// String returns the color as #AARRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

// ParseColor parses #AARRGGBB or #RRGGBB (alpha 0xFF).
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	var n uint64
	var err error
	switch len(hex) {
	case 6:
		n, err = strconv.ParseUint(hex, 16, 32)
		n |= 0xFF000000
	case 8:
		n, err = strconv.ParseUint(hex, 16, 32)
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	return Color{
		A: uint8(n >> 24),
		R: uint8(n >> 16),
		G: uint8(n >> 8),
		B: uint8(n),
	}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
