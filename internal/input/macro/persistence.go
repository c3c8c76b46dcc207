package macro

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/keybot/internal/input/key"
	"github.com/dshills/keybot/internal/script/compiler"
)

// FormatOptions controls Format.
type FormatOptions struct {
	// Method names the generated method. Defaults to "main".
	Method string
	// TapHold must match the compiler's tap hold so that gaps line up.
	// Defaults to compiler.DefaultTapHold.
	TapHold time.Duration
	// Start is the time the first gap is measured from. Defaults to the
	// first press, which then has no gap.
	Start time.Time
	// Comment is written as a header line.
	Comment string
}

// Format renders presses as a script with one method. Gaps are rounded to
// milliseconds.
func Format(presses []Press, opts FormatOptions) string {
	if opts.Method == "" {
		opts.Method = "main"
	}
	if opts.TapHold <= 0 {
		opts.TapHold = compiler.DefaultTapHold
	}

	var b strings.Builder
	if opts.Comment != "" {
		for _, line := range strings.Split(opts.Comment, "\n") {
			fmt.Fprintf(&b, "; %s\n", line)
		}
	}
	fmt.Fprintf(&b, "def %s\n", opts.Method)

	prev := opts.Start
	var consumed time.Duration
	for i, p := range presses {
		var gap time.Duration
		if i > 0 || !prev.IsZero() {
			gap = max(p.At.Sub(prev)-consumed, 0).Round(time.Millisecond)
		}
		prev = p.At
		consumed = opts.TapHold

		name := keyName(p.Key)
		if len(p.Mods) == 0 {
			fmt.Fprintf(&b, "  tap %s %s\n", name, formatGap(gap))
			continue
		}

		for j, m := range p.Mods {
			if j == 0 {
				fmt.Fprintf(&b, "  down %s %s\n", keyName(m), formatGap(gap))
			} else {
				fmt.Fprintf(&b, "  down %s\n", keyName(m))
			}
		}
		fmt.Fprintf(&b, "  tap %s\n", name)
		for j := len(p.Mods) - 1; j >= 0; j-- {
			fmt.Fprintf(&b, "  up %s\n", keyName(p.Mods[j]))
		}
	}

	b.WriteString("end\n")
	return b.String()
}

func keyName(k key.Key) string {
	return strings.ToLower(k.String())
}

func formatGap(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}

// Save writes the formatted script to path.
// The file is written atomically using a temporary file and rename.
func Save(path string, presses []Press, opts FormatOptions) error {
	data := Format(presses, opts)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, []byte(data), 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
