package macro

import (
	"context"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keybot/internal/input/key"
)

var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBacktab:    key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

// IsStopKey reports whether ev ends a capture.
func IsStopKey(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC
}

// PressFromEvent converts a terminal key event. The second result is false
// for events with no equivalent in the key set.
func PressFromEvent(ev *tcell.EventKey) (Press, bool) {
	mods := ev.Modifiers()
	var p Press

	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		stroke, ok := key.StrokeFor(ev.Rune())
		if !ok {
			return Press{}, false
		}
		p.Key = stroke.Key
		if stroke.Shift {
			mods |= tcell.ModShift
		}
	case specialKeys[k] != key.KeyNone:
		p.Key = specialKeys[k]
		if k == tcell.KeyBacktab {
			mods |= tcell.ModShift
		}
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		p.Key = key.KeyA + key.Key(k-tcell.KeyCtrlA)
		mods |= tcell.ModCtrl
	default:
		return Press{}, false
	}

	if mods&tcell.ModCtrl != 0 {
		p.Mods = append(p.Mods, key.KeyCtrl)
	}
	if mods&tcell.ModAlt != 0 {
		p.Mods = append(p.Mods, key.KeyAlt)
	}
	if mods&tcell.ModShift != 0 {
		p.Mods = append(p.Mods, key.KeyShift)
	}
	if mods&tcell.ModMeta != 0 {
		p.Mods = append(p.Mods, key.KeyMeta)
	}
	return p, true
}

// Capture records presses from screen into rec until a stop key is pressed
// or ctx is done. The screen must already be initialized; Capture draws a
// status line on it but does not finalize it.
func Capture(ctx context.Context, screen tcell.Screen, rec *Recorder) error {
	if err := rec.Start(); err != nil {
		return err
	}
	defer rec.Stop()

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	drawStatus(screen, rec.Len())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if IsStopKey(ev) {
					return nil
				}
				if p, ok := PressFromEvent(ev); ok {
					rec.Record(p.Key, p.Mods...)
				}
			case *tcell.EventResize:
				screen.Sync()
			}
			drawStatus(screen, rec.Len())
		}
	}
}

func drawStatus(screen tcell.Screen, n int) {
	screen.Clear()
	x := 0
	for _, r := range "recording: esc / ctrl+c to stop" {
		screen.SetContent(x, 0, r, nil, tcell.StyleDefault.Bold(true))
		x++
	}
	x = 0
	for _, r := range "presses: " + strconv.Itoa(n) {
		screen.SetContent(x, 1, r, nil, tcell.StyleDefault)
		x++
	}
	screen.Show()
}
