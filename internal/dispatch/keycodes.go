package dispatch

import "github.com/dshills/keybot/internal/input/key"

// linuxKeyCodes maps keys to the Linux input event codes in
// <linux/input-event-codes.h>.
var linuxKeyCodes = map[key.Key]uint16{
	key.KeyEscape:       1,
	key.Key1:            2,
	key.Key2:            3,
	key.Key3:            4,
	key.Key4:            5,
	key.Key5:            6,
	key.Key6:            7,
	key.Key7:            8,
	key.Key8:            9,
	key.Key9:            10,
	key.Key0:            11,
	key.KeyMinus:        12,
	key.KeyEqual:        13,
	key.KeyBackspace:    14,
	key.KeyTab:          15,
	key.KeyQ:            16,
	key.KeyW:            17,
	key.KeyE:            18,
	key.KeyR:            19,
	key.KeyT:            20,
	key.KeyY:            21,
	key.KeyU:            22,
	key.KeyI:            23,
	key.KeyO:            24,
	key.KeyP:            25,
	key.KeyLeftBracket:  26,
	key.KeyRightBracket: 27,
	key.KeyEnter:        28,
	key.KeyCtrl:         29,
	key.KeyA:            30,
	key.KeyS:            31,
	key.KeyD:            32,
	key.KeyF:            33,
	key.KeyG:            34,
	key.KeyH:            35,
	key.KeyJ:            36,
	key.KeyK:            37,
	key.KeyL:            38,
	key.KeySemicolon:    39,
	key.KeyApostrophe:   40,
	key.KeyGrave:        41,
	key.KeyShift:        42,
	key.KeyBackslash:    43,
	key.KeyZ:            44,
	key.KeyX:            45,
	key.KeyC:            46,
	key.KeyV:            47,
	key.KeyB:            48,
	key.KeyN:            49,
	key.KeyM:            50,
	key.KeyComma:        51,
	key.KeyPeriod:       52,
	key.KeySlash:        53,
	key.KeyAlt:          56,
	key.KeySpace:        57,
	key.KeyCapsLock:     58,
	key.KeyF1:           59,
	key.KeyF2:           60,
	key.KeyF3:           61,
	key.KeyF4:           62,
	key.KeyF5:           63,
	key.KeyF6:           64,
	key.KeyF7:           65,
	key.KeyF8:           66,
	key.KeyF9:           67,
	key.KeyF10:          68,
	key.KeyF11:          87,
	key.KeyF12:          88,
	key.KeyHome:         102,
	key.KeyUp:           103,
	key.KeyPageUp:       104,
	key.KeyLeft:         105,
	key.KeyRight:        106,
	key.KeyEnd:          107,
	key.KeyDown:         108,
	key.KeyPageDown:     109,
	key.KeyInsert:       110,
	key.KeyDelete:       111,
	key.KeyMeta:         125,
}

// LinuxKeyCode returns the evdev key code for k.
func LinuxKeyCode(k key.Key) (uint16, bool) {
	code, ok := linuxKeyCodes[k]
	return code, ok
}
