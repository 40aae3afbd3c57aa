package tui

// Countdown digit bitmaps, MSB-first: bit 4 = column 0
const (
	glyphWidth   = 5
	glyphHeight  = 7
	glyphSpacing = 1
)

var digitFont = [10][glyphHeight]uint8{
	{0x0E, 0x11, 0x13, 0x15, 0x19, 0x11, 0x0E}, // 0
	{0x04, 0x0C, 0x04, 0x04, 0x04, 0x04, 0x0E}, // 1
	{0x0E, 0x11, 0x01, 0x02, 0x04, 0x08, 0x1F}, // 2
	{0x1F, 0x02, 0x04, 0x02, 0x01, 0x11, 0x0E}, // 3
	{0x02, 0x06, 0x0A, 0x12, 0x1F, 0x02, 0x02}, // 4
	{0x1F, 0x10, 0x1E, 0x01, 0x01, 0x11, 0x0E}, // 5
	{0x06, 0x08, 0x10, 0x1E, 0x11, 0x11, 0x0E}, // 6
	{0x1F, 0x01, 0x02, 0x04, 0x08, 0x08, 0x08}, // 7
	{0x0E, 0x11, 0x11, 0x0E, 0x11, 0x11, 0x0E}, // 8
	{0x0E, 0x11, 0x11, 0x0F, 0x01, 0x02, 0x0C}, // 9
}

// glyphSet reports whether the digit bitmap has a pixel at (col, row)
func glyphSet(digit, col, row int) bool {
	if digit < 0 || digit > 9 || col < 0 || col >= glyphWidth || row < 0 || row >= glyphHeight {
		return false
	}
	return digitFont[digit][row]&(1<<(glyphWidth-1-col)) != 0
}
