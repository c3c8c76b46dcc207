package lexer

// StateKind is the variant of a State.
type StateKind uint8

const (
	// StateEmpty accumulates nothing.
	StateEmpty StateKind = iota
	// StateComment accumulates a comment.
	StateComment
	// StateIdentifier accumulates an identifier.
	StateIdentifier
	// StateString accumulates a quoted string.
	StateString
)

// State is the token under construction. Exactly one accumulation is active
// at a time; the zero value is empty.
//
// The Begin methods return a fresh State and never share a buffer with
// their receiver.
type State struct {
	kind     StateKind
	location Location
	buf      []rune
}

// BeginComment returns a comment accumulation starting at at.
func (State) BeginComment(at Location) State {
	return State{kind: StateComment, location: at}
}

// BeginIdentifier returns an identifier accumulation starting at at.
func (State) BeginIdentifier(at Location) State {
	return State{kind: StateIdentifier, location: at}
}

// BeginString returns a string accumulation starting at at.
func (State) BeginString(at Location) State {
	return State{kind: StateString, location: at}
}

// Clear resets the state to empty.
func (s *State) Clear() {
	*s = State{}
}

// Kind returns the active variant.
func (s State) Kind() StateKind { return s.kind }

// Location returns where the accumulation began. Zero when empty.
func (s State) Location() Location { return s.location }

// Text returns the accumulated characters.
func (s State) Text() string { return string(s.buf) }

// IsEmpty returns true when nothing is being accumulated.
func (s State) IsEmpty() bool { return s.kind == StateEmpty }

// IsComment returns true when a comment is being accumulated.
func (s State) IsComment() bool { return s.kind == StateComment }

// IsIdentifier returns true when an identifier is being accumulated.
func (s State) IsIdentifier() bool { return s.kind == StateIdentifier }

// IsString returns true when a string is being accumulated.
func (s State) IsString() bool { return s.kind == StateString }

// PushChar appends c to the active accumulation.
// at is the location of c and is only used for the error.
func (s *State) PushChar(c rune, at Location) error {
	if s.kind == StateEmpty {
		return &Error{Err: ErrUninitializedState, Char: c, Location: at}
	}
	s.buf = append(s.buf, c)
	return nil
}

// PushString appends every character of str, stopping at the first error.
func (s *State) PushString(str string, at Location) error {
	for _, c := range str {
		if err := s.PushChar(c, at); err != nil {
			return err
		}
	}
	return nil
}

// MakeToken flushes the accumulation into a token and resets to empty.
// An empty state yields ok == false. A string accumulation cannot be
// flushed this way: it fails with ErrUnclosedString at the flush point and
// the state is left unchanged.
func (s *State) MakeToken(at Location) (tok Token, ok bool, err error) {
	switch s.kind {
	case StateEmpty:
		return Token{}, false, nil
	case StateComment:
		tok = Token{Kind: Comment, Text: s.Text(), Location: s.location}
	case StateIdentifier:
		tok = Token{Kind: Identifier, Text: s.Text(), Location: s.location}
	case StateString:
		return Token{}, false, &Error{Err: ErrUnclosedString, Text: s.Text(), Location: at}
	}
	s.Clear()
	return tok, true, nil
}

// MakeString closes a string accumulation into a token. Any other state is
// flushed through MakeToken.
func (s *State) MakeString(at Location) (Token, bool, error) {
	if s.kind != StateString {
		return s.MakeToken(at)
	}
	tok := Token{Kind: String, Text: s.Text(), Location: s.location}
	s.Clear()
	return tok, true, nil
}
