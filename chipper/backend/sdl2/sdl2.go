//go:build sdl2

package sdl2

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/valerio/chipper/chipper/audio"
	"github.com/valerio/chipper/chipper/backend"
	"github.com/valerio/chipper/chipper/display"
	"github.com/valerio/chipper/chipper/input"
	"github.com/valerio/chipper/chipper/input/action"
	"github.com/valerio/chipper/chipper/input/event"
	"github.com/valerio/chipper/chipper/video"
)

const (
	// audio queued ahead of playback, one frame and a bit
	audioChunk     = audio.SampleRate / 60
	audioQueueHigh = audioChunk * 3 * 2 // bytes
)

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	config   backend.BackendConfig

	audioDevice sdl.AudioDeviceID
	audioPaused bool

	events []backend.InputEvent
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config

	scale := config.Scale
	if scale <= 0 {
		scale = display.DefaultPixelScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale),
		int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture

	if config.Audio != nil {
		if err := s.initAudio(); err != nil {
			// sound is optional, keep running muted
			slog.Warn("Failed to open audio device", "error", err)
		}
	}

	s.running = true
	slog.Info("SDL2 backend initialized", "scale", scale)

	return nil
}

func (s *Backend) initAudio() error {
	desired := &sdl.AudioSpec{
		Freq:     audio.SampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  512,
	}

	device, err := sdl.OpenAudioDevice("", false, desired, nil, 0)
	if err != nil {
		return err
	}

	s.audioDevice = device
	s.audioPaused = true
	return nil
}

// Update renders a frame and processes events
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	s.events = s.events[:0]

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	if !s.running {
		return s.events, nil
	}

	s.updateAudio()

	if frame.ShouldRedraw() {
		s.renderFrame(frame)
		frame.AcknowledgeRedraw()
	}

	return s.events, nil
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.audioDevice != 0 {
		sdl.CloseAudioDevice(s.audioDevice)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.events = append(s.events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})

	case *sdl.KeyboardEvent:
		act, exists := keyMapping[e.Keysym.Sym]
		if !exists {
			return
		}

		switch {
		case e.Type == sdl.KEYDOWN && e.Repeat == 0:
			if act == action.EmulatorQuit {
				s.running = false
			}
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Press})
		case e.Type == sdl.KEYUP && act.IsKeypad():
			// only the keypad tracks releases
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
}

// sdlKeyNameMap converts SDL keys to key names used in default mappings
var sdlKeyNameMap = map[sdl.Keycode]string{
	sdl.K_1: "1", sdl.K_2: "2", sdl.K_3: "3", sdl.K_4: "4",
	sdl.K_q: "q", sdl.K_w: "w", sdl.K_e: "e", sdl.K_r: "r",
	sdl.K_a: "a", sdl.K_s: "s", sdl.K_d: "d", sdl.K_f: "f",
	sdl.K_z: "z", sdl.K_x: "x", sdl.K_c: "c", sdl.K_v: "v",

	sdl.K_SPACE:  "Space",
	sdl.K_p:      "p",
	sdl.K_n:      "n",
	sdl.K_F12:    "F12",
	sdl.K_ESCAPE: "Escape",
}

func buildKeyMapping() map[sdl.Keycode]action.Action {
	mapping := make(map[sdl.Keycode]action.Action)
	for key, name := range sdlKeyNameMap {
		if act, ok := input.GetDefaultMapping(name); ok {
			mapping[key] = act
		}
	}
	return mapping
}

// keyMapping maps SDL2 keys to actions
var keyMapping = buildKeyMapping()

// updateAudio keeps a short queue of tone samples while the sound timer
// runs, and pauses the device otherwise.
func (s *Backend) updateAudio() {
	if s.audioDevice == 0 {
		return
	}

	if !s.config.IsSoundActive() {
		if !s.audioPaused {
			sdl.PauseAudioDevice(s.audioDevice, true)
			sdl.ClearQueuedAudio(s.audioDevice)
			s.audioPaused = true
		}
		return
	}

	if sdl.GetQueuedAudioSize(s.audioDevice) < audioQueueHigh {
		samples := s.config.Audio.GetSamples(audioChunk)
		buf := make([]byte, len(samples)*2)
		for i, v := range samples {
			binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
		}
		if err := sdl.QueueAudio(s.audioDevice, buf); err != nil {
			slog.Debug("Failed to queue audio", "error", err)
		}
	}

	if s.audioPaused {
		sdl.PauseAudioDevice(s.audioDevice, false)
		s.audioPaused = false
	}
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) {
	frameData := frame.ToSlice()

	// Convert to ABGR byte order for little-endian RGBA8888
	sdlPixels := make([]byte, video.FramebufferSize*display.RGBABytesPerPixel)

	for i, px := range frameData {
		dstIdx := i * display.RGBABytesPerPixel
		r, g, b, a := display.RGBA(px)

		sdlPixels[dstIdx] = a
		sdlPixels[dstIdx+1] = b
		sdlPixels[dstIdx+2] = g
		sdlPixels[dstIdx+3] = r
	}

	s.texture.Update(nil, unsafe.Pointer(&sdlPixels[0]), video.FramebufferWidth*display.RGBABytesPerPixel)

	s.renderer.SetDrawColor(0, 0, 0, 0xFF)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}
