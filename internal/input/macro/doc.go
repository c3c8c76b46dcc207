// Package macro records key presses from a terminal and writes them out as
// a keybot script.
//
// A Recorder collects timestamped presses. Capture feeds it from a tcell
// screen until Escape or Ctrl+C is pressed, and Format turns the presses
// into a method whose gaps reproduce the recorded timing:
//
//	rec := macro.NewRecorder()
//	if err := macro.Capture(ctx, screen, rec); err != nil {
//	    return err
//	}
//	err := macro.Save("recorded.bot.lisp", rec.Presses(), macro.FormatOptions{Method: "main"})
//
// A terminal only reports presses, never releases, so every press becomes a
// tap. Modifiers are held around the tap with down and up statements.
//
// All types in this package are safe for concurrent use.
package macro
