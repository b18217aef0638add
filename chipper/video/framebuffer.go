package video

import "github.com/valerio/chipper/chipper/bit"

const (
	// FramebufferWidth is the number of pixel columns.
	FramebufferWidth = 64
	// FramebufferHeight is the number of pixel rows.
	FramebufferHeight = 32
	// FramebufferSize is the total number of pixels.
	FramebufferSize = FramebufferWidth * FramebufferHeight
	// SpriteWidth is the fixed width in pixels of every sprite row.
	SpriteWidth = 8
)

// Color is an RGBA pixel colour used when converting the framebuffer for rendering.
type Color uint32

const (
	OnColor  Color = 0xFFFFFFFF
	OffColor Color = 0x000000FF
)

// Snapshot is a read-only copy of the pixel grid, indexed [row][column].
type Snapshot [FramebufferHeight][FramebufferWidth]bool

// At returns the pixel at column x, row y.
func (s Snapshot) At(x, y int) bool {
	return s[y][x]
}

// FrameBuffer is the monochrome 64x32 display. Pixels are only ever set by
// XOR-plotting sprites, and only reset en masse by Clear.
type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint8

	// dirty is raised on any mutation and lowered only by the consumer.
	dirty bool
}

// NewFrameBuffer creates a cleared frame buffer that is pending a redraw.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:  FramebufferWidth,
		height: FramebufferHeight,
		buffer: make([]uint8, FramebufferSize),
		dirty:  true,
	}
}

func (fb FrameBuffer) GetPixel(x, y uint) bool {
	return fb.buffer[y*fb.width+x] != 0
}

// Clear turns every pixel off.
func (fb *FrameBuffer) Clear() {
	for i := range fb.buffer {
		fb.buffer[i] = 0
	}
	fb.dirty = true
}

// DrawSprite XOR-plots the sprite rows at (x, y). The origin wraps around the
// grid, pixels running past the right or bottom edge are clipped.
// Returns true if any pixel went from set to unset.
func (fb *FrameBuffer) DrawSprite(x, y uint8, sprite []byte) bool {
	originX := uint(x) % fb.width
	originY := uint(y) % fb.height
	collision := false

	for row, line := range sprite {
		py := originY + uint(row)
		if py >= fb.height {
			break
		}

		for col := uint(0); col < SpriteWidth; col++ {
			if !bit.IsSet(uint8(SpriteWidth-1-col), line) {
				continue
			}

			px := originX + col
			if px >= fb.width {
				break
			}

			idx := py*fb.width + px
			if fb.buffer[idx] != 0 {
				collision = true
			}
			fb.buffer[idx] ^= 1
		}
	}

	fb.dirty = true
	return collision
}

// ShouldRedraw reports whether the buffer changed since the last acknowledged draw.
func (fb *FrameBuffer) ShouldRedraw() bool {
	return fb.dirty
}

// AcknowledgeRedraw is called by the consumer once the frame has been presented.
func (fb *FrameBuffer) AcknowledgeRedraw() {
	fb.dirty = false
}

// Snapshot copies the current pixel grid.
func (fb *FrameBuffer) Snapshot() Snapshot {
	var s Snapshot
	for y := uint(0); y < fb.height; y++ {
		for x := uint(0); x < fb.width; x++ {
			s[y][x] = fb.GetPixel(x, y)
		}
	}
	return s
}

// ToSlice converts the frame to row-major RGBA colours for rendering.
func (fb *FrameBuffer) ToSlice() []uint32 {
	colors := make([]uint32, len(fb.buffer))
	for i, px := range fb.buffer {
		if px != 0 {
			colors[i] = uint32(OnColor)
		} else {
			colors[i] = uint32(OffColor)
		}
	}
	return colors
}
