package render

import "github.com/valerio/chipper/chipper/video"

// IsLit reports whether a rendered pixel colour is the foreground one.
func IsLit(pixel uint32) bool {
	return pixel == uint32(video.OnColor)
}

// GetHalfBlockChar returns the character that shows two vertically stacked
// pixels in a single terminal cell, drawn in the foreground colour.
func GetHalfBlockChar(top, bottom bool) rune {
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	default:
		return ' '
	}
}
