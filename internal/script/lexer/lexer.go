package lexer

import "strings"

// Characters with meaning to the lexer.
const (
	CommentMarker = ';'
	Quote         = '"'
	Newline       = '\n'
)

// IsTerminal returns true for characters that end an identifier.
func IsTerminal(c rune) bool {
	switch c {
	case Newline, ' ', '\t', CommentMarker:
		return true
	default:
		return false
	}
}

// Tokenize scans src into tokens. source names the text in every Location
// and may be empty.
//
// Identifiers and strings start implicitly: in the empty state a quote
// begins a string and any other non-terminal character begins an
// identifier. A string ends at the next quote and may not span lines.
// Text ending inside a comment still yields the comment; text ending inside
// a string fails with ErrUnclosedString.
func Tokenize(src, source string) ([]Token, error) {
	lx := &lexer{loc: Location{Source: source}}

	for _, c := range strings.ReplaceAll(src, "\r", "") {
		if err := lx.step(c); err != nil {
			return nil, err
		}
		lx.loc.advance(c)
	}

	if err := lx.flush(); err != nil {
		return nil, err
	}
	return lx.tokens, nil
}

type lexer struct {
	state  State
	loc    Location
	tokens []Token
}

func (lx *lexer) step(c rune) error {
	st := &lx.state

	switch {
	case st.IsString():
		switch c {
		case Quote:
			return lx.emit(st.MakeString(lx.loc))
		case Newline:
			return lx.flush()
		}
		return st.PushChar(c, lx.loc)

	case !st.IsComment() && c == CommentMarker:
		if err := lx.flush(); err != nil {
			return err
		}
		lx.state = st.BeginComment(lx.loc)

	case c == Newline && st.IsComment():
		return lx.flush()

	case IsTerminal(c) && st.IsIdentifier():
		return lx.flush()

	case st.IsEmpty() && c == Quote:
		lx.state = st.BeginString(lx.loc)

	case st.IsEmpty() && !IsTerminal(c):
		lx.state = st.BeginIdentifier(lx.loc)
		return lx.state.PushChar(c, lx.loc)

	case c != Newline && !st.IsEmpty():
		return st.PushChar(c, lx.loc)
	}

	return nil
}

func (lx *lexer) flush() error {
	return lx.emit(lx.state.MakeToken(lx.loc))
}

func (lx *lexer) emit(tok Token, ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if tok.Kind == Comment {
		tok.Text = strings.TrimLeft(tok.Text, " \t")
	}
	lx.tokens = append(lx.tokens, tok)
	return nil
}
