// Package teatest drives bubbletea models synchronously in tests.
//
// Instead of running a tea.Program, the Driver calls Update directly and
// executes every returned Cmd on the spot, feeding the resulting messages
// back in until nothing is left. Timer-based Cmds (cursor blink, spinner
// ticks) do not return within cmdTimeout and are dropped, so animations never
// keep a test alive.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many Cmd generations one input may trigger.
const MaxDrainDepth = 100

// cmdTimeout separates data Cmds, which finish in a few milliseconds against
// an in-memory database, from timer Cmds, which sleep for 100ms or more.
const cmdTimeout = 50 * time.Millisecond

// Driver is a synchronous harness around a tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg has been produced.
	Quitting bool

	// Seen records every message delivered to Update, in order.
	Seen []tea.Msg
}

// Option configures the Driver during construction.
type Option func(*Driver)

// New wraps model. Call DrainInit to run the model's Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		d.update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// DrainInit executes Init and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
}

// Send delivers msg and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	d.drain(d.update(msg), 0)
}

// PressKey sends a single rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

var namedKeys = map[string]tea.KeyType{
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEsc,
	"up":     tea.KeyUp,
	"down":   tea.KeyDown,
	"tab":    tea.KeyTab,
	"space":  tea.KeySpace,
	"ctrl+c": tea.KeyCtrlC,
	"ctrl+n": tea.KeyCtrlN,
}

// Press sends each key in order. Names such as "enter" or "esc" map to
// special keys; anything else is sent as runes.
func (d *Driver) Press(keys ...string) {
	d.T.Helper()
	for _, k := range keys {
		if t, ok := namedKeys[k]; ok {
			d.Send(tea.KeyMsg{Type: t})
			continue
		}
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

func (d *Driver) PressEnter() { d.T.Helper(); d.Press("enter") }
func (d *Driver) PressEsc()   { d.T.Helper(); d.Press("esc") }
func (d *Driver) PressCtrlC() { d.T.Helper(); d.Press("ctrl+c") }

// View renders the model.
func (d *Driver) View() string {
	return d.Model.View()
}

// SeenOfType returns how many delivered messages have the same dynamic type as sample.
func (d *Driver) SeenOfType(sample tea.Msg) int {
	want := fmt.Sprintf("%T", sample)
	n := 0
	for _, m := range d.Seen {
		if fmt.Sprintf("%T", m) == want {
			n++
		}
	}
	return n
}

func (d *Driver) update(msg tea.Msg) tea.Cmd {
	d.Seen = append(d.Seen, msg)
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	return cmd
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := run(cmd)
	if msg == nil || isTimer(msg) {
		return
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
		d.update(msg)
	default:
		d.drain(d.update(msg), depth+1)
	}
}

// run executes cmd, giving up after cmdTimeout.
func run(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isTimer reports cursor blink and spinner tick messages that slipped through;
// handling them would schedule another timer.
func isTimer(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink") || strings.HasSuffix(t, "TickMsg")
}
