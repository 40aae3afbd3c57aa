package render

import "strings"

// Finger palette, by name
var (
	ColorYellow = MustParseHex("#ffe064")
	ColorRed    = MustParseHex("#f05442")
	ColorBlue   = MustParseHex("#0851bb")
	ColorPurple = MustParseHex("#944dff")
	ColorGreen  = MustParseHex("#9ce3d3")
	ColorPink   = MustParseHex("#ed9fca")
	ColorOrange = MustParseHex("#fcc7a1")
)

// Scene colors
var (
	ColorSun        = ColorYellow
	ColorCloud      = RGB{235, 240, 245}
	ColorPath       = RGB{90, 90, 100}
	ColorBackground = RGB{20, 24, 36}
	ColorCountdown  = RGBWhite
	ColorHUD        = RGB{180, 180, 180}
)

// DefaultFingerColors in finger order
var DefaultFingerColors = []string{"#f05442", "#ffe064", "#0851bb", "#944dff"}

var named = map[string]RGB{
	"yellow": ColorYellow,
	"red":    ColorRed,
	"blue":   ColorBlue,
	"purple": ColorPurple,
	"green":  ColorGreen,
	"pink":   ColorPink,
	"orange": ColorOrange,
}

// Named looks up a palette color by case-insensitive name
func Named(name string) (RGB, bool) {
	c, ok := named[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// ResolveHex turns a palette name or hex string into a hex string
// Unknown names are returned unchanged for ParseHex to reject
func ResolveHex(s string) string {
	if c, ok := Named(s); ok {
		return c.Hex()
	}
	return s
}
