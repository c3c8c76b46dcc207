package lexer

import "fmt"

// Kind classifies a token.
type Kind uint8

const (
	// Comment is the text after a comment marker, up to end of line.
	Comment Kind = iota + 1
	// Identifier is a run of non-terminal characters.
	Identifier
	// String is the text between a pair of quotes.
	String
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Comment:
		return "Comment"
	case Identifier:
		return "Identifier"
	case String:
		return "String"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Token is a classified lexical unit and the location where it began.
type Token struct {
	Kind     Kind
	Text     string
	Location Location
}

// String renders the token for diagnostics, e.g. `Identifier("tap") at 3:5`.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %s", t.Kind, t.Text, t.Location)
}
