package key

import (
	"fmt"
	"slices"
	"strings"
)

// Key identifies a physical key on a US-layout keyboard.
// Unlike terminal key handling, a Key is never a character: upper-case
// letters and symbols are produced by pairing a Key with KeyShift.
type Key uint8

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Letters
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	// Digit row
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeySpace
	KeyCapsLock

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Modifier keys
	KeyShift
	KeyCtrl
	KeyAlt
	KeyMeta

	// Punctuation
	KeyMinus
	KeyEqual
	KeyLeftBracket
	KeyRightBracket
	KeyBackslash
	KeySemicolon
	KeyApostrophe
	KeyGrave
	KeyComma
	KeyPeriod
	KeySlash

	keyCount
)

var keyNames = [keyCount]string{
	KeyNone:         "None",
	KeyA:            "A",
	KeyB:            "B",
	KeyC:            "C",
	KeyD:            "D",
	KeyE:            "E",
	KeyF:            "F",
	KeyG:            "G",
	KeyH:            "H",
	KeyI:            "I",
	KeyJ:            "J",
	KeyK:            "K",
	KeyL:            "L",
	KeyM:            "M",
	KeyN:            "N",
	KeyO:            "O",
	KeyP:            "P",
	KeyQ:            "Q",
	KeyR:            "R",
	KeyS:            "S",
	KeyT:            "T",
	KeyU:            "U",
	KeyV:            "V",
	KeyW:            "W",
	KeyX:            "X",
	KeyY:            "Y",
	KeyZ:            "Z",
	Key0:            "0",
	Key1:            "1",
	Key2:            "2",
	Key3:            "3",
	Key4:            "4",
	Key5:            "5",
	Key6:            "6",
	Key7:            "7",
	Key8:            "8",
	Key9:            "9",
	KeyF1:           "F1",
	KeyF2:           "F2",
	KeyF3:           "F3",
	KeyF4:           "F4",
	KeyF5:           "F5",
	KeyF6:           "F6",
	KeyF7:           "F7",
	KeyF8:           "F8",
	KeyF9:           "F9",
	KeyF10:          "F10",
	KeyF11:          "F11",
	KeyF12:          "F12",
	KeyEscape:       "Escape",
	KeyEnter:        "Enter",
	KeyTab:          "Tab",
	KeyBackspace:    "Backspace",
	KeyDelete:       "Delete",
	KeyInsert:       "Insert",
	KeyHome:         "Home",
	KeyEnd:          "End",
	KeyPageUp:       "PageUp",
	KeyPageDown:     "PageDown",
	KeySpace:        "Space",
	KeyCapsLock:     "CapsLock",
	KeyUp:           "Up",
	KeyDown:         "Down",
	KeyLeft:         "Left",
	KeyRight:        "Right",
	KeyShift:        "Shift",
	KeyCtrl:         "Ctrl",
	KeyAlt:          "Alt",
	KeyMeta:         "Meta",
	KeyMinus:        "Minus",
	KeyEqual:        "Equal",
	KeyLeftBracket:  "LeftBracket",
	KeyRightBracket: "RightBracket",
	KeyBackslash:    "Backslash",
	KeySemicolon:    "Semicolon",
	KeyApostrophe:   "Apostrophe",
	KeyGrave:        "Grave",
	KeyComma:        "Comma",
	KeyPeriod:       "Period",
	KeySlash:        "Slash",
}

// String returns a human-readable name for the key.
func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", k)
}

// IsValid returns true if k is a member of the key set other than KeyNone.
func (k Key) IsValid() bool {
	return k > KeyNone && k < keyCount
}

// IsLetter returns true if this is a letter key (A-Z).
func (k Key) IsLetter() bool {
	return k >= KeyA && k <= KeyZ
}

// IsDigit returns true if this is a digit-row key (0-9).
func (k Key) IsDigit() bool {
	return k >= Key0 && k <= Key9
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// IsModifier returns true if this is Shift, Ctrl, Alt or Meta.
func (k Key) IsModifier() bool {
	return k >= KeyShift && k <= KeyMeta
}

// All returns every valid key in declaration order.
func All() []Key {
	keys := make([]Key, 0, keyCount-1)
	for k := KeyNone + 1; k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

// aliases maps additional lowercase names to keys. Canonical names are
// registered by init.
var aliases = map[string]Key{
	"esc":        KeyEscape,
	"return":     KeyEnter,
	"cr":         KeyEnter,
	"bs":         KeyBackspace,
	"del":        KeyDelete,
	"ins":        KeyInsert,
	"pgup":       KeyPageUp,
	"pgdn":       KeyPageDown,
	"lshift":     KeyShift,
	"control":    KeyCtrl,
	"lctrl":      KeyCtrl,
	"option":     KeyAlt,
	"lalt":       KeyAlt,
	"super":      KeyMeta,
	"win":        KeyMeta,
	"cmd":        KeyMeta,
	"dash":       KeyMinus,
	"equals":     KeyEqual,
	"lbracket":   KeyLeftBracket,
	"rbracket":   KeyRightBracket,
	"quote":      KeyApostrophe,
	"backtick":   KeyGrave,
	"dot":        KeyPeriod,
	"arrowup":    KeyUp,
	"arrowdown":  KeyDown,
	"arrowleft":  KeyLeft,
	"arrowright": KeyRight,
}

var keyNameMap = func() map[string]Key {
	m := make(map[string]Key, len(aliases)+int(keyCount))
	for k := KeyNone + 1; k < keyCount; k++ {
		m[strings.ToLower(keyNames[k])] = k
	}
	for name, k := range aliases {
		m[name] = k
	}
	return m
}()

// Names returns the lowercase canonical name of every valid key, sorted.
// Aliases are not included.
func Names() []string {
	names := make([]string, 0, keyCount-1)
	for k := KeyNone + 1; k < keyCount; k++ {
		names = append(names, strings.ToLower(keyNames[k]))
	}
	slices.Sort(names)
	return names
}

// FromName returns the Key for a given name (case-insensitive).
// Returns KeyNone if the name is not recognized.
func FromName(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNameMap[name]; ok {
		return k
	}
	return KeyNone
}
