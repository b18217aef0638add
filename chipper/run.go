package chipper

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/chipper/chipper/backend"
	"github.com/valerio/chipper/chipper/input"
	"github.com/valerio/chipper/chipper/input/action"
	"github.com/valerio/chipper/chipper/input/event"
	"github.com/valerio/chipper/chipper/snapshot"
)

// hostKeys forwards keypad transitions from the input manager to the emulator.
type hostKeys struct {
	emu Emulator
}

func (k hostKeys) SetKeyState(key uint8, pressed bool) {
	k.emu.HandleAction(action.FromKeyIndex(key), pressed)
}

// Run drives the emulator with the backend until the backend or the user
// asks to quit. Every iteration is one host frame: the emulator advances,
// then the backend presents the frame and reports input.
func Run(emu Emulator, b backend.Backend, config backend.BackendConfig) (err error) {
	if config.SoundActive == nil {
		config.SoundActive = emu.ShouldPlaySound
	}

	if err := b.Init(config); err != nil {
		return fmt.Errorf("initializing backend: %w", err)
	}
	defer func() {
		err = errors.Join(err, b.Cleanup())
	}()

	running := true
	manager := input.NewManager(hostKeys{emu})
	manager.On(action.EmulatorQuit, event.Press, func() {
		running = false
	})
	for _, act := range []action.Action{action.EmulatorPauseToggle, action.EmulatorStepInstruction} {
		manager.On(act, event.Press, func() {
			emu.HandleAction(act, true)
		})
	}

	handler, _ := b.(backend.ActionHandler)
	manager.On(action.EmulatorSnapshot, event.Press, func() {
		if handler != nil {
			handler.HandleAction(action.EmulatorSnapshot)
			return
		}
		snapshot.TakeSnapshot(emu.GetCurrentFrame())
	})
	if handler != nil {
		for _, act := range []action.Action{action.DebugLogLevelIncrease, action.DebugLogLevelDecrease} {
			manager.On(act, event.Press, func() {
				handler.HandleAction(act)
			})
		}
	}

	for running {
		if err := emu.RunUntilFrame(); err != nil {
			return err
		}

		events, err := b.Update(emu.GetCurrentFrame())
		if err != nil {
			return fmt.Errorf("updating backend: %w", err)
		}

		for _, evt := range events {
			manager.Trigger(evt.Action, evt.Type)
		}
	}

	slog.Info("Host loop stopped")
	return nil
}
