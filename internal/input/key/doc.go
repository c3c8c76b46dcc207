// Package key defines the logical key set that scripts can press and release.
//
// The set is closed: every Key maps to exactly one physical key on a US
// keyboard, which is what the dispatch backends inject. Characters are not
// keys; StrokeFor translates a rune into the Key (and Shift state) that
// produces it, which is how typed strings are expanded into key events.
//
// Key names used in scripts are case-insensitive and accept a few aliases:
//
//   - Letters and digits: "a", "Q", "7"
//   - Named keys: "enter", "esc", "space", "tab", "f5", "pgdn"
//   - Modifiers: "shift", "ctrl", "alt", "meta"
//   - Punctuation: "minus", "comma", "slash", "semicolon"
package key
