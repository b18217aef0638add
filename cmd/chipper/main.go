package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/valerio/chipper/chipper"
	"github.com/valerio/chipper/chipper/audio"
	"github.com/valerio/chipper/chipper/backend"
	"github.com/valerio/chipper/chipper/backend/headless"
	"github.com/valerio/chipper/chipper/backend/sdl2"
	"github.com/valerio/chipper/chipper/backend/terminal"
	"github.com/valerio/chipper/chipper/disasm"
	"github.com/valerio/chipper/chipper/display"
	"github.com/valerio/chipper/chipper/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "Chipper"
	app.Description = "A CHIP-8 interpreter"
	app.Usage = "chipper [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Host backend: terminal, sdl2 or headless",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save PNG snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor for the sdl2 backend",
			Value: display.DefaultPixelScale,
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing for interactive backends: adaptive or ticker",
			Value: "adaptive",
		},
		cli.BoolFlag{
			Name:  "disassemble",
			Usage: "Print the ROM disassembly and exit",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Log every executed instruction",
		},
	}
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	if c.Bool("disassemble") {
		data, err := os.ReadFile(romPath)
		if err != nil {
			return fmt.Errorf("read rom: %w", err)
		}
		return disasm.Listing(os.Stdout, data)
	}

	b, limiter, err := createBackend(c, romPath)
	if err != nil {
		return err
	}
	if stopper, ok := limiter.(interface{ Stop() }); ok {
		defer stopper.Stop()
	}

	emu, err := chipper.NewWithFile(romPath, chipper.WithFrameLimiter(limiter))
	if err != nil {
		return err
	}

	config := backend.BackendConfig{
		Title:         "Chipper",
		Scale:         c.Int("scale"),
		Verbose:       c.Bool("verbose"),
		SoundActive:   emu.ShouldPlaySound,
		Audio:         audio.NewSquareWave(emu.ShouldPlaySound),
		DebugProvider: emu,
	}

	return chipper.Run(emu, b, config)
}

func createBackend(c *cli.Context, romPath string) (backend.Backend, timing.Limiter, error) {
	switch name := c.String("backend"); name {
	case "headless":
		frames := c.Int("frames")
		if frames <= 0 {
			return nil, nil, errors.New("headless mode requires --frames option with a positive value")
		}

		snapshotConfig, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return nil, nil, err
		}

		return headless.New(frames, snapshotConfig), timing.NewNoOpLimiter(), nil
	case "terminal":
		limiter, err := createLimiter(c.String("limiter"))
		return terminal.New(), limiter, err
	case "sdl2":
		limiter, err := createLimiter(c.String("limiter"))
		return sdl2.New(), limiter, err
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", name)
	}
}

func createLimiter(name string) (timing.Limiter, error) {
	switch name {
	case "adaptive":
		return timing.NewAdaptiveLimiter(), nil
	case "ticker":
		return timing.NewTickerLimiter(), nil
	default:
		return nil, fmt.Errorf("unknown limiter %q", name)
	}
}
