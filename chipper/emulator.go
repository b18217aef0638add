package chipper

import (
	"github.com/valerio/chipper/chipper/backend"
	"github.com/valerio/chipper/chipper/input/action"
	"github.com/valerio/chipper/chipper/video"
)

// Emulator is what the host loop and the backends drive.
type Emulator interface {
	RunUntilFrame() error
	GetCurrentFrame() *video.FrameBuffer
	HandleAction(act action.Action, pressed bool)
	ShouldPlaySound() bool
}

var _ Emulator = (*Machine)(nil)

var _ backend.DebugDataProvider = (*Machine)(nil)
