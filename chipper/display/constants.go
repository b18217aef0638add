package display

import "github.com/valerio/chipper/chipper/video"

// RGBA pixel format constants
const (
	// RGBABytesPerPixel is the number of bytes per pixel in RGBA format
	RGBABytesPerPixel = 4
	// RGBARShift is the bit shift for the red component in RGBA format
	RGBARShift = 24
	// RGBAGShift is the bit shift for the green component in RGBA format
	RGBAGShift = 16
	// RGBABShift is the bit shift for the blue component in RGBA format
	RGBABShift = 8
	// RGBAColorMask is the mask for extracting color components
	RGBAColorMask = 0xFF
)

// Backend scaling and window constants
const (
	// DefaultPixelScale is the default scaling factor for interpreter pixels
	DefaultPixelScale = 20
	// DefaultWindowWidth is the default window width (64 * scale)
	DefaultWindowWidth = video.FramebufferWidth * DefaultPixelScale // 1280
	// DefaultWindowHeight is the default window height (32 * scale)
	DefaultWindowHeight = video.FramebufferHeight * DefaultPixelScale // 640
)

// RGBA splits a packed 0xRRGGBBAA color into its components.
func RGBA(c uint32) (r, g, b, a uint8) {
	return uint8(c >> RGBARShift & RGBAColorMask),
		uint8(c >> RGBAGShift & RGBAColorMask),
		uint8(c >> RGBABShift & RGBAColorMask),
		uint8(c & RGBAColorMask)
}
