package lexer

import "fmt"

// Location is a point in script text.
// Line and Column are 0-based and count runes after carriage returns have
// been stripped. Source is empty when the text did not come from a file.
type Location struct {
	Line   int
	Column int
	Source string
}

// String renders the location 1-based, as editors display it.
func (l Location) String() string {
	if l.Source == "" {
		return fmt.Sprintf("%d:%d", l.Line+1, l.Column+1)
	}
	return fmt.Sprintf("%s:%d:%d", l.Source, l.Line+1, l.Column+1)
}

// advance moves past c.
func (l *Location) advance(c rune) {
	if c == Newline {
		l.Line++
		l.Column = 0
		return
	}
	l.Column++
}
