package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(line, col int) Location { return Location{Line: line, Column: col} }

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Token
	}{
		{
			name: "empty",
			src:  "",
			want: nil,
		},
		{
			name: "comment then identifier",
			src:  "; hello\nworld",
			want: []Token{
				{Kind: Comment, Text: "hello", Location: at(0, 0)},
				{Kind: Identifier, Text: "world", Location: at(1, 0)},
			},
		},
		{
			name: "two comments",
			src:  "; one\n  ; two",
			want: []Token{
				{Kind: Comment, Text: "one", Location: at(0, 0)},
				{Kind: Comment, Text: "two", Location: at(1, 2)},
			},
		},
		{
			name: "identifiers split on whitespace",
			src:  "tap  a\t50ms\n",
			want: []Token{
				{Kind: Identifier, Text: "tap", Location: at(0, 0)},
				{Kind: Identifier, Text: "a", Location: at(0, 5)},
				{Kind: Identifier, Text: "50ms", Location: at(0, 7)},
			},
		},
		{
			name: "identifier ended by comment",
			src:  "end;done",
			want: []Token{
				{Kind: Identifier, Text: "end", Location: at(0, 0)},
				{Kind: Comment, Text: "done", Location: at(0, 3)},
			},
		},
		{
			name: "string",
			src:  `type "hi there; friend" 10`,
			want: []Token{
				{Kind: Identifier, Text: "type", Location: at(0, 0)},
				{Kind: String, Text: "hi there; friend", Location: at(0, 5)},
				{Kind: Identifier, Text: "10", Location: at(0, 24)},
			},
		},
		{
			name: "empty string",
			src:  `""`,
			want: []Token{{Kind: String, Text: "", Location: at(0, 0)}},
		},
		{
			name: "comment at end of input",
			src:  "x ;trailing",
			want: []Token{
				{Kind: Identifier, Text: "x", Location: at(0, 0)},
				{Kind: Comment, Text: "trailing", Location: at(0, 2)},
			},
		},
		{
			name: "comment keeps markers",
			src:  ";a;b",
			want: []Token{{Kind: Comment, Text: "a;b", Location: at(0, 0)}},
		},
		{
			name: "carriage returns stripped",
			src:  "def\r\nmain\r\n",
			want: []Token{
				{Kind: Identifier, Text: "def", Location: at(0, 0)},
				{Kind: Identifier, Text: "main", Location: at(1, 0)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.src, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenizeSourceName(t *testing.T) {
	got, err := Tokenize("\n  go", "run.bot.lisp")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Location{Line: 1, Column: 2, Source: "run.bot.lisp"}, got[0].Location)
	assert.Equal(t, "run.bot.lisp:2:3", got[0].Location.String())
}

func TestTokenizeUnclosedString(t *testing.T) {
	tests := []struct {
		name string
		src  string
		text string
		loc  Location
	}{
		{"end of input", `type "abc`, "abc", at(0, 9)},
		{"newline", "type \"ab\ntap", "ab", at(0, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.src, "")
			assert.Nil(t, got)

			var lexErr *Error
			require.ErrorAs(t, err, &lexErr)
			assert.ErrorIs(t, err, ErrUnclosedString)
			assert.Equal(t, tt.text, lexErr.Text)
			assert.Equal(t, tt.loc, lexErr.Location)
		})
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	src := "; header\ndef main\n  type \"x\" 5\nend\n"
	first, err := Tokenize(src, "a")
	require.NoError(t, err)
	second, err := Tokenize(src, "a")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Err: ErrUnclosedString, Text: "abc", Location: Location{Line: 2, Column: 4, Source: "f"}}
	assert.Equal(t, `f:3:5: unclosed string: "abc"`, err.Error())

	err = &Error{Err: ErrUninitializedState, Char: 'q', Location: Location{}}
	assert.Equal(t, `1:1: character added to uninitialized state: 'q'`, err.Error())
}

func TestIsTerminal(t *testing.T) {
	for _, c := range []rune{'\n', ' ', '\t', CommentMarker} {
		assert.True(t, IsTerminal(c), "%q", c)
	}
	for _, c := range []rune{'a', '"', '-', '1'} {
		assert.False(t, IsTerminal(c), "%q", c)
	}
}
