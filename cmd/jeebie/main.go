package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/urfave/cli"
	"github.com/valerio/jeebie-core/jeebie"
	"github.com/valerio/jeebie-core/jeebie/backend"
	"github.com/valerio/jeebie-core/jeebie/backend/headless"
	"github.com/valerio/jeebie-core/jeebie/backend/sdl2"
	"github.com/valerio/jeebie-core/jeebie/backend/terminal"
	"github.com/valerio/jeebie-core/jeebie/cartridge"
	"github.com/valerio/jeebie-core/jeebie/debug"
	"github.com/valerio/jeebie-core/jeebie/disasm"
	"github.com/valerio/jeebie-core/jeebie/display"
	"github.com/valerio/jeebie-core/jeebie/snapshot"
	"github.com/valerio/jeebie-core/jeebie/timing"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "jeebie"
	app.Description = "A Game Boy (DMG) emulator"
	app.Usage = "jeebie [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file (plain, .gz, .zip or .7z)",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without any output",
		},
		cli.BoolFlag{
			Name:  "sdl",
			Usage: "Use the SDL2 window (needs a build with -tags sdl2)",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "snapshot-text",
			Usage: "Also write text snapshots next to the PNG ones",
		},
		cli.BoolFlag{
			Name:  "snapshot-dedup",
			Usage: "Skip snapshots identical to the previous one",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor for the SDL2 backend",
			Value: display.DefaultPixelScale,
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing: adaptive, ticker or none",
			Value: "adaptive",
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "Log every executed instruction (implies --log-level debug)",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
			Value: "info",
		},
	}
	app.Before = setupLogging
	app.Action = runEmulator
	app.Commands = []cli.Command{
		{
			Name:      "disasm",
			Usage:     "Disassemble a ROM",
			ArgsUsage: "<ROM file>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "start", Value: "0x0100", Usage: "First address"},
				cli.IntFlag{Name: "count", Value: 32, Usage: "Number of instructions"},
			},
			Action: disasmCommand,
		},
		{
			Name:      "inspect",
			Usage:     "Run a ROM headless, then print machine state",
			ArgsUsage: "<ROM file>",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "frames", Value: 60, Usage: "Frames to run first"},
				cli.StringFlag{Name: "tiles", Usage: "Write the VRAM tile sheet to this PNG file"},
				cli.StringFlag{Name: "dump", Usage: "Hex dump memory from this address"},
				cli.IntFlag{Name: "dump-length", Value: 256, Usage: "Bytes to dump"},
			},
			Action: inspectCommand,
		},
		{
			Name:      "info",
			Usage:     "Print the cartridge header",
			ArgsUsage: "<ROM file>",
			Action:    infoCommand,
		},
	}
	return app
}

func setupLogging(c *cli.Context) error {
	level, err := parseLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	if c.Bool("trace") {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func romPath(c *cli.Context) (string, error) {
	if path := c.String("rom"); path != "" {
		return path, nil
	}
	if c.NArg() > 0 {
		return c.Args().Get(0), nil
	}
	return "", errors.New("no ROM path provided")
}

func runEmulator(c *cli.Context) error {
	path, err := romPath(c)
	if err != nil {
		cli.ShowAppHelp(c)
		return err
	}

	emu, err := jeebie.NewWithFile(path, jeebie.Config{Trace: c.Bool("trace")})
	if err != nil {
		return err
	}

	var (
		b       backend.Backend
		limiter = timing.New(c.String("limiter"))
	)
	switch {
	case c.Bool("headless"):
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames option with a positive value")
		}
		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), path)
		if err != nil {
			return err
		}
		snapshots.Text = c.Bool("snapshot-text")
		snapshots.SkipDuplicates = c.Bool("snapshot-dedup")
		b = headless.New(frames, snapshots)
		limiter = timing.NoOp()
	case c.Bool("sdl"):
		if !sdl2.Available() {
			return sdl2.ErrUnavailable
		}
		b = sdl2.New()
	default:
		b = terminal.New(emu)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	title := emu.Header().Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	runner := backend.NewRunner(emu, b, limiter)
	runner.SnapshotDir = c.String("snapshot-dir")
	err = runner.Run(ctx, backend.Config{
		Title: "jeebie - " + title,
		Scale: c.Int("scale"),
	})
	slog.Info("Emulator stopped", "frames", runner.Frames(), "instructions", emu.InstructionCount())
	return err
}

func disasmCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("no ROM path provided")
	}
	data, err := cartridge.LoadFile(c.Args().Get(0))
	if err != nil {
		return err
	}

	start, err := strconv.ParseUint(c.String("start"), 0, 16)
	if err != nil {
		return fmt.Errorf("invalid start address %q: %w", c.String("start"), err)
	}
	return disassemble(c.App.Writer, data, int(start), c.Int("count"))
}

// disassemble prints count instructions from data starting at offset.
func disassemble(w io.Writer, data []byte, offset, count int) error {
	for i := 0; i < count && offset < len(data); i++ {
		if err := disasm.Check(data, offset); err != nil {
			return err
		}
		line := disasm.Bytes(data, offset)
		if _, err := fmt.Fprintln(w, disasm.Format(line, false)); err != nil {
			return err
		}
		offset += line.Length
	}
	return nil
}

func inspectCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("no ROM path provided")
	}
	emu, err := jeebie.NewWithFile(c.Args().Get(0), jeebie.Config{})
	if err != nil {
		return err
	}
	for i := 0; i < c.Int("frames"); i++ {
		if err := emu.RunUntilFrame(); err != nil {
			return err
		}
	}
	return inspect(c.App.Writer, emu, c.String("tiles"), c.String("dump"), c.Int("dump-length"))
}

func inspect(w io.Writer, emu *jeebie.DMG, tilesPath, dumpFrom string, dumpLength int) error {
	regs := emu.CPU().Registers()
	ppu := emu.MMU().PPU()

	fmt.Fprintf(w, "Frames: %d  Instructions: %d\n", emu.FrameCount(), emu.InstructionCount())
	fmt.Fprintf(w, "AF=%04X BC=%02X%02X DE=%02X%02X HL=%02X%02X SP=%04X PC=%04X IME=%t [%s]\n",
		emu.CPU().GetAF(), regs.B, regs.C, regs.D, regs.E, regs.H, regs.L, regs.SP, regs.PC, regs.IME, regs.Flags)
	fmt.Fprintln(w, debug.ReadTilemapInfo(emu.MMU()).FormatSummary())

	oam := debug.ExtractOAM(ppu, int(ppu.LY()))
	fmt.Fprintln(w, oam.FormatSummary())
	for _, sprite := range oam.Visible() {
		fmt.Fprintln(w, sprite)
	}

	if dumpFrom != "" {
		start, err := strconv.ParseUint(dumpFrom, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid dump address %q: %w", dumpFrom, err)
		}
		if err := debug.Dump(w, emu.MMU(), uint16(start), dumpLength); err != nil {
			return err
		}
	}

	if tilesPath != "" {
		if err := snapshot.SaveImage(tilesPath, snapshot.Scale(debug.TileSheet(ppu), 2)); err != nil {
			return err
		}
		slog.Info("Tile sheet saved", "path", tilesPath)
	}
	return nil
}

func infoCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("no ROM path provided")
	}
	data, err := cartridge.LoadFile(c.Args().Get(0))
	if err != nil {
		return err
	}
	header, err := cartridge.ParseHeader(data)
	if err != nil {
		return err
	}
	return printHeader(c.App.Writer, header)
}

func printHeader(w io.Writer, h cartridge.Header) error {
	_, err := fmt.Fprintf(w,
		"Title:     %s\nType:      0x%02X (%s)\nBattery:   %t\nROM banks: %d\nRAM banks: %d\nChecksum:  0x%02X\n",
		h.Title, h.CartType, h.MBC, h.HasBattery, h.ROMBankCount, h.RAMBankCount, h.HeaderChecksum)
	return err
}
