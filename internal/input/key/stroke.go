package key

// Stroke is the key press needed to produce one character on a US layout.
type Stroke struct {
	Key   Key
	Shift bool
}

var punctuation = map[rune]Stroke{
	' ':  {Key: KeySpace},
	'\t': {Key: KeyTab},
	'\n': {Key: KeyEnter},
	'-':  {Key: KeyMinus},
	'=':  {Key: KeyEqual},
	'[':  {Key: KeyLeftBracket},
	']':  {Key: KeyRightBracket},
	'\\': {Key: KeyBackslash},
	';':  {Key: KeySemicolon},
	'\'': {Key: KeyApostrophe},
	'`':  {Key: KeyGrave},
	',':  {Key: KeyComma},
	'.':  {Key: KeyPeriod},
	'/':  {Key: KeySlash},
	'_':  {Key: KeyMinus, Shift: true},
	'+':  {Key: KeyEqual, Shift: true},
	'{':  {Key: KeyLeftBracket, Shift: true},
	'}':  {Key: KeyRightBracket, Shift: true},
	'|':  {Key: KeyBackslash, Shift: true},
	':':  {Key: KeySemicolon, Shift: true},
	'"':  {Key: KeyApostrophe, Shift: true},
	'~':  {Key: KeyGrave, Shift: true},
	'<':  {Key: KeyComma, Shift: true},
	'>':  {Key: KeyPeriod, Shift: true},
	'?':  {Key: KeySlash, Shift: true},
	'!':  {Key: Key1, Shift: true},
	'@':  {Key: Key2, Shift: true},
	'#':  {Key: Key3, Shift: true},
	'$':  {Key: Key4, Shift: true},
	'%':  {Key: Key5, Shift: true},
	'^':  {Key: Key6, Shift: true},
	'&':  {Key: Key7, Shift: true},
	'*':  {Key: Key8, Shift: true},
	'(':  {Key: Key9, Shift: true},
	')':  {Key: Key0, Shift: true},
}

// StrokeFor returns the stroke that types r.
// The second result is false when r has no key on a US layout.
func StrokeFor(r rune) (Stroke, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return Stroke{Key: KeyA + Key(r-'a')}, true
	case r >= 'A' && r <= 'Z':
		return Stroke{Key: KeyA + Key(r-'A'), Shift: true}, true
	case r >= '0' && r <= '9':
		return Stroke{Key: Key0 + Key(r-'0')}, true
	}
	s, ok := punctuation[r]
	return s, ok
}
