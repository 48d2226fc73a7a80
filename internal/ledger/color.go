package ledger

import (
	"strconv"
	"strings"
)

const (
	textBlack = "#000000"
	textWhite = "#ffffff"
)

// NormalizeColor returns c as a lower-case "#rrggbb" string. Short "#rgb"
// forms are expanded, a missing "#" is added and empty input yields
// DefaultColor. ok is false when c is not a hex color; the returned value is
// then DefaultColor.
func NormalizeColor(c string) (hex string, ok bool) {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return DefaultColor, true
	}
	c = strings.TrimPrefix(c, "#")

	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	if len(c) != 6 {
		return DefaultColor, false
	}
	if _, err := strconv.ParseUint(c, 16, 32); err != nil {
		return DefaultColor, false
	}

	return "#" + c, true
}

// ContrastTextColor picks black or white text for a background color using
// the perceived luminance (0.299 R + 0.587 G + 0.114 B) / 255. Unreadable
// colors are treated as white.
func ContrastTextColor(bg string) string {
	hex, _ := NormalizeColor(bg)

	rgb, _ := strconv.ParseUint(hex[1:], 16, 32)
	r := float64((rgb >> 16) & 0xff)
	g := float64((rgb >> 8) & 0xff)
	b := float64(rgb & 0xff)

	luminance := (0.299*r + 0.587*g + 0.114*b) / 255
	if luminance > 0.5 {
		return textBlack
	}
	return textWhite
}
