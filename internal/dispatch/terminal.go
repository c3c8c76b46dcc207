package dispatch

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keybot/internal/input/key"
)

// recentEvents is how many dispatched events the terminal view lists.
const recentEvents = 16

// Terminal visualizes a run on a tcell screen instead of injecting events:
// it shows the keys currently held and the most recent events. Pressing
// Ctrl+C or Escape on the screen closes the Interrupts channel.
type Terminal struct {
	screen tcell.Screen

	mu     sync.Mutex
	held   map[key.Key]bool
	recent []string
	count  int
	closed bool

	interrupts chan struct{}
	interrupt  sync.Once
	pollDone   chan struct{}
}

// OpenTerminal creates a terminal visualizer on the controlling terminal.
func OpenTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminal(screen)
}

// NewTerminal initializes screen and takes ownership of it.
func NewTerminal(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}

	t := &Terminal{
		screen:     screen,
		held:       make(map[key.Key]bool),
		interrupts: make(chan struct{}),
		pollDone:   make(chan struct{}),
	}

	t.mu.Lock()
	t.render()
	t.mu.Unlock()

	go t.poll()
	return t, nil
}

// Interrupts is closed when the user asks to stop from the screen.
func (t *Terminal) Interrupts() <-chan struct{} {
	return t.interrupts
}

// Dispatch records the event and redraws the screen.
func (t *Terminal) Dispatch(k key.Key, tg key.Toggle) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return &KeyError{Key: k, Toggle: tg, Err: ErrClosed}
	}

	if tg == key.Down {
		t.held[k] = true
	} else {
		delete(t.held, k)
	}

	t.count++
	t.recent = append(t.recent, fmt.Sprintf("%5d  %-12s %s", t.count, k, tg))
	if len(t.recent) > recentEvents {
		t.recent = t.recent[len(t.recent)-recentEvents:]
	}

	t.render()
	return nil
}

// Held returns the keys currently held, sorted.
func (t *Terminal) Held() []key.Key {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.heldLocked()
}

func (t *Terminal) heldLocked() []key.Key {
	keys := make([]key.Key, 0, len(t.held))
	for k := range t.held {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.screen.Fini()
	<-t.pollDone
	return nil
}

func (t *Terminal) poll() {
	defer close(t.pollDone)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape {
				t.interrupt.Do(func() { close(t.interrupts) })
			}
		case *tcell.EventResize:
			t.mu.Lock()
			t.screen.Sync()
			t.render()
			t.mu.Unlock()
		}
	}
}

// render draws the view. Callers hold t.mu.
func (t *Terminal) render() {
	if t.closed {
		return
	}
	t.screen.Clear()

	title := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Dim(true)
	heldStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)

	t.drawText(0, 0, title, "keybot")
	t.drawText(8, 0, dim, "ctrl+c / esc to stop")

	x := t.drawText(0, 1, tcell.StyleDefault, "held: ")
	for _, k := range t.heldLocked() {
		x = t.drawText(x, 1, heldStyle, k.String()) + 1
	}

	for i, line := range t.recent {
		t.drawText(0, 3+i, tcell.StyleDefault, line)
	}

	t.screen.Show()
}

// drawText writes s at (x, y) and returns the column after it.
func (t *Terminal) drawText(x, y int, style tcell.Style, s string) int {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
