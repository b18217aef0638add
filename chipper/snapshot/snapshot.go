package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"

	"github.com/valerio/chipper/chipper/display"
	"github.com/valerio/chipper/chipper/video"
)

// DefaultScale is the upscaling factor used for saved snapshots.
const DefaultScale = 8

// TakeSnapshot handles F12 snapshot logic for backends
func TakeSnapshot(frame *video.FrameBuffer) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	if _, err := SaveFramePNGToDir(frame, "chipper_snapshot", "", DefaultScale); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// Image converts the framebuffer to an image, upscaled by nearest neighbour
// so pixels stay crisp. A scale below 1 is treated as 1.
func Image(frame *video.FrameBuffer, scale int) *image.NRGBA {
	src := image.NewNRGBA(image.Rect(0, 0, video.FramebufferWidth, video.FramebufferHeight))
	for i, px := range frame.ToSlice() {
		r, g, b, a := display.RGBA(px)
		src.SetNRGBA(i%video.FramebufferWidth, i/video.FramebufferWidth, color.NRGBA{R: r, G: g, B: b, A: a})
	}

	if scale <= 1 {
		return src
	}

	dst := image.NewNRGBA(image.Rect(0, 0, video.FramebufferWidth*scale, video.FramebufferHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SaveFramePNG writes the framebuffer to the given path.
func SaveFramePNG(frame *video.FrameBuffer, path string, scale int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	img := Image(frame, scale)
	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	slog.Info("Snapshot saved", "path", path, "size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()), "format", "PNG")
	return nil
}

// SaveFramePNGToDir saves a framebuffer as PNG with timestamp to a specific
// directory, the current one if empty. Returns the written path.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string, scale int) (string, error) {
	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(outputDir, fmt.Sprintf("%s_%s.png", baseName, timestamp))

	return path, SaveFramePNG(frame, path, scale)
}
