package jeebie

import (
	"context"
	"fmt"

	"github.com/valerio/jeebie-core/jeebie/cartridge"
	"github.com/valerio/jeebie-core/jeebie/cpu"
	"github.com/valerio/jeebie-core/jeebie/disasm"
	"github.com/valerio/jeebie-core/jeebie/memory"
	"github.com/valerio/jeebie-core/jeebie/video"
)

// frameCycleLimit bounds RunUntilFrame when the LCD never produces a frame
// (LCD off, or a program stuck in HALT with no interrupt source).
const frameCycleLimit = 2 * video.FrameDots

// Emulator is what front ends drive: run a frame, show it, feed input.
type Emulator interface {
	RunUntilFrameContext(ctx context.Context) error
	GetCurrentFrame() *video.FrameBuffer
	HandleKeyPress(key memory.JoypadKey)
	HandleKeyRelease(key memory.JoypadKey)
}

var _ Emulator = (*DMG)(nil)

// DMG is the whole machine: CPU, bus and the devices the bus owns.
type DMG struct {
	cpu *cpu.CPU
	mem *memory.MMU

	cart   cartridge.Cartridge
	header cartridge.Header
	config Config

	err error
}

// New builds a machine around cart. A nil cartridge behaves like an empty
// slot: every ROM read returns 0xFF.
func New(cart cartridge.Cartridge, config Config) *DMG {
	d := &DMG{
		cart:   cart,
		config: config,
	}
	d.init()
	return d
}

// NewWithFile loads a ROM image (plain, .gz, .zip or .7z) and builds a
// machine around it.
func NewWithFile(path string, config Config) (*DMG, error) {
	cart, header, err := cartridge.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	d := New(cart, config)
	d.header = header
	return d, nil
}

func (d *DMG) init() {
	d.mem = memory.NewWithCartridge(d.cart)
	d.cpu = cpu.New(d.mem)
	d.err = nil
}

// Reset power cycles the machine, keeping the cartridge. It also clears a
// previous fatal error.
func (d *DMG) Reset() {
	d.init()
	d.config.logger().Info("Machine reset")
}

// Step executes a single instruction. Once a fatal error occurred, the
// machine stays stopped and every call returns it.
func (d *DMG) Step() (int, error) {
	if d.err != nil {
		return 0, d.err
	}

	if d.config.Trace && !d.cpu.IsHalted() {
		d.trace()
	}

	cycles, err := d.cpu.Step()
	if err != nil {
		d.err = err
		regs := d.cpu.Registers()
		d.config.logger().Error("Machine stopped",
			"error", err,
			"pc", fmt.Sprintf("0x%04X", regs.PC),
			"instructions", d.cpu.GetInstructions())
		return cycles, err
	}
	return cycles, nil
}

func (d *DMG) trace() {
	regs := d.cpu.Registers()
	line := disasm.At(d.mem, regs.PC)
	d.config.logger().Debug("exec",
		"pc", fmt.Sprintf("0x%04X", regs.PC),
		"instr", line.Instruction,
		"af", fmt.Sprintf("0x%04X", d.cpu.GetAF()),
		"bc", fmt.Sprintf("0x%02X%02X", regs.B, regs.C),
		"de", fmt.Sprintf("0x%02X%02X", regs.D, regs.E),
		"hl", fmt.Sprintf("0x%02X%02X", regs.H, regs.L),
		"sp", fmt.Sprintf("0x%04X", regs.SP),
		"flags", regs.Flags.String())
}

// RunUntilFrame steps the machine until the PPU completes a frame, then
// clears the frame-ready flag. With no frame after two frames' worth of
// cycles (LCD off) it returns without error so front ends keep polling.
func (d *DMG) RunUntilFrame() error {
	return d.RunUntilFrameContext(context.Background())
}

// RunUntilFrameContext is RunUntilFrame with cancellation, checked once per
// scanline's worth of cycles.
func (d *DMG) RunUntilFrameContext(ctx context.Context) error {
	ppu := d.mem.PPU()
	total, sinceCheck := 0, 0

	for !ppu.FrameReady() {
		cycles, err := d.Step()
		if err != nil {
			return err
		}

		total += cycles
		sinceCheck += cycles
		if sinceCheck >= video.ScanlineDots {
			sinceCheck = 0
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if total >= frameCycleLimit {
			return nil
		}
	}

	ppu.ClearFrameReady()
	if frames := ppu.FrameCount(); frames%600 == 0 {
		d.config.logger().Debug("Frame milestone", "frames", frames, "instructions", d.cpu.GetInstructions())
	}
	return nil
}

// GetCurrentFrame returns the framebuffer the PPU renders into.
func (d *DMG) GetCurrentFrame() *video.FrameBuffer {
	return d.mem.PPU().Framebuffer()
}

func (d *DMG) HandleKeyPress(key memory.JoypadKey) {
	d.mem.HandleKeyPress(key)
}

func (d *DMG) HandleKeyRelease(key memory.JoypadKey) {
	d.mem.HandleKeyRelease(key)
}

// Err returns the fatal error that stopped the machine, if any.
func (d *DMG) Err() error {
	return d.err
}

func (d *DMG) Header() cartridge.Header { return d.header }
func (d *DMG) CPU() *cpu.CPU             { return d.cpu }
func (d *DMG) MMU() *memory.MMU          { return d.mem }
func (d *DMG) FrameCount() uint64        { return d.mem.PPU().FrameCount() }
func (d *DMG) InstructionCount() uint64  { return d.cpu.GetInstructions() }
