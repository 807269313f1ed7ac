package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for course elements and participant profiles.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// profilePalette is the rotation used to hand out participant colors.
var profilePalette = []Color{
	ColorBrightRed,
	ColorBrightBlue,
	ColorBrightGreen,
	ColorBrightMagenta,
	ColorOrange,
	ColorBrightCyan,
	ColorBrightYellow,
	ColorWhite,
}

// ProfileColor returns the n-th participant color, wrapping around the palette.
func ProfileColor(n int) Color {
	if n < 0 {
		n = -n
	}
	return profilePalette[n%len(profilePalette)]
}
