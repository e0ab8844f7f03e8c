// Package terminal draws frames in a terminal with half block characters.
package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/backend"
	"github.com/valerio/jeebie-core/jeebie/cpu"
	"github.com/valerio/jeebie-core/jeebie/disasm"
	"github.com/valerio/jeebie-core/jeebie/display"
	"github.com/valerio/jeebie-core/jeebie/input"
	"github.com/valerio/jeebie-core/jeebie/memory"
	"github.com/valerio/jeebie-core/jeebie/render"
	"github.com/valerio/jeebie-core/jeebie/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight / 2

	minTermWidth  = width + 2
	minTermHeight = height + 2

	panelMinWidth  = 24
	registerHeight = 7
	disasmHeight   = 9
	logCapacity    = 200
)

// Terminals only report key presses, so a key counts as held until no
// repeat arrived for keyTimeout.
const keyTimeout = 100 * time.Millisecond

// Inspector exposes machine state for the side panel. *jeebie.DMG
// satisfies it.
type Inspector interface {
	CPU() *cpu.CPU
	MMU() *memory.MMU
}

// Backend renders with tcell.
type Backend struct {
	screen    tcell.Screen
	inspector Inspector
	now       func() time.Time

	logs       *logRing
	logLevel   slog.Level
	prevLogger *slog.Logger

	signals chan os.Signal
	queue   []input.Event

	keyStates  map[input.Action]time.Time
	activeKeys map[input.Action]bool
}

// New creates a terminal backend. inspector may be nil.
func New(inspector Inspector) *Backend {
	return &Backend{
		inspector: inspector,
		now:       time.Now,
		logLevel:  slog.LevelInfo,
	}
}

// NewWithScreen uses screen instead of the real terminal.
func NewWithScreen(screen tcell.Screen, inspector Inspector) *Backend {
	t := New(inspector)
	t.screen = screen
	return t
}

func (t *Backend) Init(config backend.Config) error {
	t.keyStates = make(map[input.Action]time.Time)
	t.activeKeys = make(map[input.Action]bool)
	t.logs = newLogRing(logCapacity)

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	t.prevLogger = slog.Default()
	slog.SetDefault(slog.New(&logHandler{ring: t.logs, level: slog.LevelDebug}))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	slog.Info("Terminal backend initialized", "title", config.Title)
	return nil
}

func (t *Backend) Update(frame *video.FrameBuffer) ([]input.Event, error) {
	now := t.now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKey(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	select {
	case sig := <-t.signals:
		slog.Info("Received signal", "signal", sig)
		t.queue = append(t.queue, input.Event{Action: input.EmulatorQuit, Type: input.Press})
	default:
	}

	events := t.joypadEvents(now)
	events = append(events, t.queue...)
	t.queue = nil

	t.render(frame)
	t.screen.Show()

	return events, nil
}

func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		t.screen.Fini()
	}
	if t.prevLogger != nil {
		slog.SetDefault(t.prevLogger)
	}
	return nil
}

// joypadEvents turns the held key set into press and release edges.
func (t *Backend) joypadEvents(now time.Time) []input.Event {
	var events []input.Event
	current := make(map[input.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}
		current[act] = true
		if !t.activeKeys[act] {
			events = append(events, input.Event{Action: act, Type: input.Press})
		}
	}

	for act := range t.activeKeys {
		if !current[act] {
			events = append(events, input.Event{Action: act, Type: input.Release})
		}
	}

	t.activeKeys = current
	return events
}

var keyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "Enter",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyUp:         "Up",
	tcell.KeyDown:       "Down",
	tcell.KeyLeft:       "Left",
	tcell.KeyRight:      "Right",
	tcell.KeyEscape:     "Escape",
	tcell.KeyF5:         "F5",
	tcell.KeyF9:         "F9",
}

func (t *Backend) processKey(ev *tcell.EventKey, now time.Time) {
	var name string
	switch ev.Key() {
	case tcell.KeyCtrlC:
		t.queue = append(t.queue, input.Event{Action: input.EmulatorQuit, Type: input.Press})
		return
	case tcell.KeyRune:
		name = string(ev.Rune())
		if ev.Rune() == ' ' {
			name = "Space"
		}
		switch ev.Rune() {
		case '+':
			t.changeLogLevel(-4)
			return
		case '-':
			t.changeLogLevel(4)
			return
		}
	default:
		name = keyNames[ev.Key()]
	}

	act, ok := input.Lookup(name)
	if !ok {
		return
	}

	if _, isJoypad := act.JoypadKey(); !isJoypad {
		t.queue = append(t.queue, input.Event{Action: act, Type: input.Press})
		return
	}

	// directions are exclusive: the latest one wins
	if act.IsDPad() {
		for _, dir := range []input.Action{input.GBDPadUp, input.GBDPadDown, input.GBDPadLeft, input.GBDPadRight} {
			delete(t.keyStates, dir)
		}
	}
	t.keyStates[act] = now
}

// changeLogLevel moves the panel filter by delta, within debug..error.
func (t *Backend) changeLogLevel(delta slog.Level) {
	level := t.logLevel + delta
	if level < slog.LevelDebug || level > slog.LevelError {
		return
	}
	slog.Info("Log filter changed", "from", t.logLevel, "to", level)
	t.logLevel = level
}

func shadeColor(shade uint8) tcell.Color {
	gray := int32(display.Gray(shade))
	return tcell.NewRGBColor(gray, gray, gray)
}

func (t *Backend) render(frame *video.FrameBuffer) {
	t.screen.Clear()

	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	t.drawFrame(frame)

	dividerX := width + 1
	border := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for y := 0; y < termHeight; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, border)
	}
	t.drawText(1, 0, width, " Game Boy ", tcell.StyleDefault.Foreground(tcell.ColorYellow))
	t.drawText(0, termHeight-1, termWidth,
		" SPACE=pause O=frame F9=snapshot F5=reset ESC=quit +/-=log filter ", border)

	panelX := dividerX + 2
	panelWidth := termWidth - panelX
	if panelWidth < panelMinWidth {
		return
	}

	logsY := 0
	if t.inspector != nil {
		t.drawRegisters(panelX, 0, panelWidth)
		t.drawDisassembly(panelX, registerHeight+1, panelWidth)
		logsY = registerHeight + disasmHeight + 2
	}
	t.drawLogs(panelX, logsY, panelWidth, termHeight-1)
}

func (t *Backend) drawFrame(frame *video.FrameBuffer) {
	for y, row := range render.HalfBlockRows(frame) {
		for x, cell := range row {
			style := tcell.StyleDefault.Foreground(shadeColor(cell.Foreground)).Background(shadeColor(cell.Background))
			t.screen.SetContent(x, y+1, cell.Rune, nil, style)
		}
	}
}

func (t *Backend) drawRegisters(x, y, maxWidth int) {
	regs := t.inspector.CPU().Registers()
	mem := t.inspector.MMU()
	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)

	ime := "OFF"
	if regs.IME {
		ime = "ON"
	}
	lines := []string{
		fmt.Sprintf("A: %02X  F: %02X  [%s]", regs.A, regs.Flags.Byte(), regs.Flags),
		fmt.Sprintf("B: %02X  C: %02X", regs.B, regs.C),
		fmt.Sprintf("D: %02X  E: %02X", regs.D, regs.E),
		fmt.Sprintf("H: %02X  L: %02X", regs.H, regs.L),
		fmt.Sprintf("SP: %04X  PC: %04X", regs.SP, regs.PC),
		fmt.Sprintf("IME: %s  IE: %02X  IF: %02X", ime, mem.Read(addr.IE), mem.Read(addr.IF)),
		fmt.Sprintf("LY: %3d  halted: %t", mem.Read(addr.LY), regs.Halted),
	}
	for i, line := range lines {
		t.drawText(x, y+i, maxWidth, line, style)
	}
}

func (t *Backend) drawDisassembly(x, y, maxWidth int) {
	pc := t.inspector.CPU().GetPC()
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	current := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	for i, line := range disasm.Range(t.inspector.MMU(), pc, disasmHeight) {
		s := style
		if line.Address == pc {
			s = current
		}
		t.drawText(x, y+i, maxWidth, disasm.Format(line, line.Address == pc), s)
	}
}

func (t *Backend) drawLogs(x, y, maxWidth, bottom int) {
	rows := bottom - y
	if rows <= 0 {
		return
	}

	for i, entry := range t.logs.recent(rows, t.logLevel) {
		style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
		switch {
		case entry.Level >= slog.LevelError:
			style = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
		case entry.Level >= slog.LevelWarn:
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
		case entry.Level < slog.LevelInfo:
			style = tcell.StyleDefault.Foreground(tcell.ColorGray)
		}
		t.drawText(x, y+i, maxWidth, entry.String(), style)
	}
}

func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	col := 0
	for _, ch := range text {
		if col >= maxWidth {
			return
		}
		t.screen.SetContent(x+col, y, ch, nil, style)
		col++
	}
}
