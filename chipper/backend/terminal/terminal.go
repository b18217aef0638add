package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/chipper/chipper/backend"
	"github.com/valerio/chipper/chipper/backend/terminal/render"
	"github.com/valerio/chipper/chipper/input"
	"github.com/valerio/chipper/chipper/input/action"
	"github.com/valerio/chipper/chipper/input/event"
	"github.com/valerio/chipper/chipper/snapshot"
	"github.com/valerio/chipper/chipper/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	registerHeight = 14
	minTermWidth   = width + 30
	minTermHeight  = height/2 + 4
)

// Key expiry timeout - slightly longer than typical key repeat interval.
// Terminals report no key releases, so a key counts as held until it stops repeating.
const keyTimeout = 100 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen     tcell.Screen
	running    bool
	logBuffer  *render.LogBuffer
	logLevel   *slog.LevelVar
	config     backend.BackendConfig
	eventQueue []backend.InputEvent
	signals    chan os.Signal

	keyStates  map[action.Action]time.Time // Last time each key was pressed
	activeKeys map[action.Action]bool      // Keys active in previous frame

	soundWasActive bool
	logsShown      uint64
	currentFrame   *video.FrameBuffer

	now func() time.Time
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{
		logLevel: new(slog.LevelVar),
		now:      time.Now,
	}
}

// newWithScreen uses the given screen instead of the process terminal.
func newWithScreen(screen tcell.Screen) *Backend {
	t := New()
	t.screen = screen
	return t
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.eventQueue = make([]backend.InputEvent, 0)
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

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
	t.running = true

	// Logs go to the side panel, the terminal itself is taken
	t.logBuffer = render.NewLogBuffer(100)
	if config.Verbose {
		t.logLevel.Set(slog.LevelDebug)
	}
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, t.logLevel)))
	slog.Info("Terminal backend initialized")

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	now := t.now()

	t.handleSignals()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
			frame.AcknowledgeRedraw()
			t.currentFrame = nil
		}
	}

	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) < keyTimeout {
			currentlyActive[act] = true

			if !t.activeKeys[act] {
				slog.Debug("Key press", "key", act.KeyIndex())
				events = append(events, backend.InputEvent{Action: act, Type: event.Press})
			} else {
				events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
			}
		} else {
			delete(t.keyStates, act)
		}
	}

	for act := range t.activeKeys {
		if !currentlyActive[act] {
			slog.Debug("Key release", "key", act.KeyIndex())
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
	t.activeKeys = currentlyActive

	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	if !t.running {
		return events, nil
	}

	t.updateSound()

	// redraw only on a changed frame or new log lines
	if t.currentFrame == frame && !frame.ShouldRedraw() && t.logsShown == t.logBuffer.Total() {
		return events, nil
	}

	t.currentFrame = frame
	t.logsShown = t.logBuffer.Total()
	t.render(frame)
	t.screen.Show()
	frame.AcknowledgeRedraw()

	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		snapshot.TakeSnapshot(t.currentFrame)
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

func (t *Backend) handleSignals() {
	select {
	case sig := <-t.signals:
		slog.Info("Received signal", "signal", sig)
		t.running = false
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	default:
	}
}

// updateSound rings the bell when the tone starts, terminals cannot hold a note.
func (t *Backend) updateSound() {
	active := t.config.IsSoundActive()
	if active && !t.soundWasActive {
		if err := t.screen.Beep(); err != nil {
			slog.Debug("Terminal bell unavailable", "error", err)
		}
	}
	t.soundWasActive = active
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	act, exists := keyMapping[ev.Key()]
	if !exists && ev.Key() == tcell.KeyRune {
		act, exists = runeMapping[ev.Rune()]
	}
	if !exists {
		return
	}

	if act == action.EmulatorQuit {
		t.running = false
	}

	if act.IsKeypad() {
		t.keyStates[act] = now
		return
	}

	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
	tcell.KeyF12:    "F12",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)

	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}

	mapping[tcell.KeyCtrlC] = action.EmulatorQuit

	return mapping
}

// buildRuneMapping creates the rune mapping from default mappings
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)

	for keyName, act := range input.DefaultKeyMap {
		runes := []rune(keyName)
		if len(runes) == 1 {
			mapping[runes[0]] = act
		}
	}
	if act, ok := input.GetDefaultMapping("Space"); ok {
		mapping[' '] = act
	}

	return mapping
}

// keyMapping maps tcell keys to actions
var keyMapping = buildKeyMapping()

// runeMapping maps runes to actions
var runeMapping = buildRuneMapping()

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel.Level()
	newLevel := oldLevel
	switch direction {
	case -1:
		switch oldLevel {
		case slog.LevelDebug:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelError
		}
	case 1:
		switch oldLevel {
		case slog.LevelError:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelDebug
		}
	}
	if oldLevel != newLevel {
		t.logLevel.Set(newLevel)
		slog.Warn("Log filter changed", "from", oldLevel, "to", newLevel)
	}
}

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	dividerX := width + 1
	rightPanelX := dividerX + 2
	rightPanelWidth := termWidth - rightPanelX

	t.drawBorders(termWidth, termHeight, dividerX)
	t.drawScreen(frame)

	logsY := 1
	if t.config.DebugProvider != nil {
		t.drawRegisters(rightPanelX, 1, rightPanelWidth)
		logsY = registerHeight + 2
	}
	t.drawLogs(rightPanelX, logsY, rightPanelWidth, termHeight)
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	title := " " + t.config.Title + " "
	t.drawText(1, 0, dividerX-1, title, titleStyle)

	if t.config.DebugProvider != nil {
		t.drawText(dividerX+2, 0, termWidth, " Registers ", titleStyle)
		for x := dividerX + 1; x < termWidth; x++ {
			t.screen.SetContent(x, registerHeight+1, '─', nil, borderStyle)
		}
		t.screen.SetContent(dividerX, registerHeight+1, '├', nil, borderStyle)
	}

	help := " 1234/QWER/ASDF/ZXCV=keypad SPACE=pause N=step F12=snapshot +/-=log filter ESC=quit "
	t.drawText(0, termHeight-1, termWidth, help, borderStyle)
}

// drawScreen packs two pixel rows per cell with half blocks.
func (t *Backend) drawScreen(frame *video.FrameBuffer) {
	frameData := frame.ToSlice()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)

	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := render.IsLit(frameData[y*width+x])
			bottom := render.IsLit(frameData[(y+1)*width+x])
			t.screen.SetContent(x, y/2+1, render.GetHalfBlockChar(top, bottom), nil, style)
		}
	}
}

func (t *Backend) drawRegisters(startX, startY, width int) {
	state := t.config.DebugProvider.DebugState()
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)

	status := "RUNNING"
	if state.Paused {
		status = "PAUSED"
	}

	lines := []string{
		fmt.Sprintf("PC %04X  I %04X  SP %d  %s", state.PC, state.I, state.SP, status),
		fmt.Sprintf("V0-V7 % X", state.V[:8]),
		fmt.Sprintf("V8-VF % X", state.V[8:]),
		fmt.Sprintf("DT %02X  ST %02X", state.Delay, state.Sound),
		fmt.Sprintf("OP %04X %s", state.Opcode, state.Instruction),
		fmt.Sprintf("Steps %d", state.Cycles),
	}

	for i, line := range lines {
		t.drawText(startX, startY+i, width, line, style)
	}

	codeStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	codeY := startY + len(lines) + 1
	for i, line := range state.Disassembly {
		if codeY+i >= startY+registerHeight {
			break
		}
		lineStyle := codeStyle
		if strings.HasPrefix(line, ">") {
			lineStyle = codeStyle.Bold(true).Foreground(tcell.ColorYellow)
		}
		t.drawText(startX, codeY+i, width, line, lineStyle)
	}
}

func (t *Backend) drawLogs(startX, startY, width, termHeight int) {
	availableHeight := termHeight - startY - 1
	if width <= 0 || availableHeight <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range t.logBuffer.GetRecent(availableHeight) {
		style := infoStyle
		switch entry.Level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}

		logText := render.FormatLogEntry(entry)
		if len(logText) > width && width > 3 {
			logText = logText[:width-3] + "..."
		}
		t.drawText(startX, startY+i, width, logText, style)
	}
}

// drawText writes a single line, cut at maxWidth cells.
func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		if i >= maxWidth {
			return
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}
