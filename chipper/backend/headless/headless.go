package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/chipper/chipper/backend"
	"github.com/valerio/chipper/chipper/input/action"
	"github.com/valerio/chipper/chipper/input/event"
	"github.com/valerio/chipper/chipper/snapshot"
	"github.com/valerio/chipper/chipper/video"
)

// Backend implements the Backend interface for automated testing and batch processing
type Backend struct {
	config         backend.BackendConfig
	frameCount     int
	maxFrames      int
	soundFrames    int
	snapshotConfig SnapshotConfig
	saved          []string
}

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	ROMName   string // ROM name for snapshot filenames
	Scale     int    // Upscaling of saved PNGs
}

func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	if h.maxFrames <= 0 {
		return fmt.Errorf("headless mode requires a positive frame count, got %d", h.maxFrames)
	}

	if config.Verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		slog.SetDefault(slog.New(handler))
	}

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)

	return nil
}

// Update processes a frame and handles snapshots
func (h *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	h.frameCount++
	if h.config.IsSoundActive() {
		h.soundFrames++
	}

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot(frame)
	}
	frame.AcknowledgeRedraw()

	// Log progress periodically
	if h.frameCount%600 == 0 {
		slog.Info("Frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.frameCount >= h.maxFrames {
		// Save final snapshot if enabled and we haven't just saved one
		if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
			h.saveSnapshot(frame)
		}

		if h.snapshotConfig.Enabled {
			slog.Info("Headless execution completed", "frames", h.maxFrames, "sound_frames", h.soundFrames, "png_snapshots_saved_to", h.snapshotConfig.Directory)
		} else {
			slog.Info("Headless execution completed", "frames", h.maxFrames, "sound_frames", h.soundFrames)
		}

		// Signal completion via quit event
		events = append(events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	}

	return events, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// FrameCount returns the number of frames processed so far.
func (h *Backend) FrameCount() int {
	return h.frameCount
}

// SoundFrames returns how many frames had the tone active.
func (h *Backend) SoundFrames() int {
	return h.soundFrames
}

// Snapshots returns the paths of the PNG files written so far.
func (h *Backend) Snapshots() []string {
	return h.saved
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
		Scale:    snapshot.DefaultScale,
	}

	if !config.Enabled {
		return config, nil
	}

	// Set up snapshot directory
	if directory == "" {
		tempDir, err := os.MkdirTemp("", "chipper-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	// Extract ROM name for snapshot filenames
	config.ROMName = filepath.Base(romPath)
	config.ROMName = strings.TrimSuffix(config.ROMName, filepath.Ext(config.ROMName))

	return config, nil
}

// saveSnapshot saves a PNG snapshot for the current frame
func (h *Backend) saveSnapshot(frame *video.FrameBuffer) {
	name := fmt.Sprintf("%s_frame_%d.png", h.snapshotConfig.ROMName, h.frameCount)
	path := filepath.Join(h.snapshotConfig.Directory, name)

	if err := snapshot.SaveFramePNG(frame, path, h.snapshotConfig.Scale); err != nil {
		slog.Error("Failed to save PNG snapshot", "frame", h.frameCount, "error", err)
		return
	}
	h.saved = append(h.saved, path)
}
