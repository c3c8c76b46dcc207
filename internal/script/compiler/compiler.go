package compiler

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dshills/keybot/internal/input/fuzzy"
	"github.com/dshills/keybot/internal/input/key"
	"github.com/dshills/keybot/internal/script/lexer"
	"github.com/dshills/keybot/internal/script/program"
)

// Default timings.
const (
	DefaultTapHold      = 30 * time.Millisecond
	DefaultTypeInterval = 30 * time.Millisecond
)

// Statement keywords.
const (
	kwDef  = "def"
	kwEnd  = "end"
	kwDown = "down"
	kwUp   = "up"
	kwTap  = "tap"
	kwWait = "wait"
	kwType = "type"
)

var keywords = map[string]bool{
	kwDef: true, kwEnd: true, kwDown: true, kwUp: true,
	kwTap: true, kwWait: true, kwType: true,
}

// Options tunes the timings the grammar leaves implicit.
type Options struct {
	// TapHold is how long tap holds a key when no hold is given, and how
	// long each typed character is held.
	TapHold time.Duration

	// TypeInterval separates the strokes of a typed string when no interval
	// is given.
	TypeInterval time.Duration
}

// DefaultOptions returns the default compile options.
func DefaultOptions() Options {
	return Options{
		TapHold:      DefaultTapHold,
		TypeInterval: DefaultTypeInterval,
	}
}

// Compile builds an environment from a token stream. Comments are ignored.
// Method names must be unique; a repeated name fails with ErrDuplicateMethod.
func Compile(tokens []lexer.Token, opts Options) (program.Environment, error) {
	c := &compiler{
		opts: opts,
		env:  make(program.Environment),
	}
	for _, tok := range tokens {
		if tok.Kind == lexer.Comment {
			continue
		}
		c.toks = append(c.toks, tok)
	}
	if n := len(tokens); n > 0 {
		c.eof = tokens[n-1].Location
	}

	for !c.done() {
		if err := c.method(); err != nil {
			return nil, err
		}
	}
	return c.env, nil
}

// CompileSource tokenizes and compiles script text.
func CompileSource(src, source string, opts Options) (program.Environment, error) {
	tokens, err := lexer.Tokenize(src, source)
	if err != nil {
		return nil, err
	}
	return Compile(tokens, opts)
}

type compiler struct {
	opts Options
	toks []lexer.Token
	pos  int
	eof  lexer.Location
	env  program.Environment

	// current method
	ops     []program.Operation
	pending time.Duration
	waitAt  *lexer.Location
}

func (c *compiler) done() bool {
	return c.pos >= len(c.toks)
}

func (c *compiler) peek() (lexer.Token, bool) {
	if c.done() {
		return lexer.Token{}, false
	}
	return c.toks[c.pos], true
}

func (c *compiler) next(what string) (lexer.Token, error) {
	tok, ok := c.peek()
	if !ok {
		return tok, errorf(c.eof, ErrUnexpectedEOF, "expected %s", what)
	}
	c.pos++
	return tok, nil
}

func (c *compiler) identifier(what string) (lexer.Token, error) {
	tok, err := c.next(what)
	if err != nil {
		return tok, err
	}
	if tok.Kind != lexer.Identifier {
		return tok, errorf(tok.Location, ErrUnexpectedToken, "expected %s, got %s %q", what, tok.Kind, tok.Text)
	}
	return tok, nil
}

func (c *compiler) method() error {
	def, err := c.identifier("def")
	if err != nil {
		return err
	}
	if !strings.EqualFold(def.Text, kwDef) {
		return errorf(def.Location, ErrUnexpectedToken, "expected def, got %q", def.Text)
	}

	name, err := c.identifier("method name")
	if err != nil {
		return err
	}
	if keywords[strings.ToLower(name.Text)] {
		return errorf(name.Location, ErrUnexpectedToken, "keyword %q cannot name a method", name.Text)
	}
	if _, exists := c.env[name.Text]; exists {
		return errorf(name.Location, ErrDuplicateMethod, "%q", name.Text)
	}

	c.ops = make([]program.Operation, 0)
	c.pending = 0
	c.waitAt = nil

	for {
		stmt, err := c.identifier("statement or end of method " + strconv.Quote(name.Text))
		if err != nil {
			return err
		}

		switch strings.ToLower(stmt.Text) {
		case kwEnd:
			if c.waitAt != nil {
				return errorf(*c.waitAt, ErrDanglingWait, "method %q", name.Text)
			}
			c.env[name.Text] = c.ops
			return nil
		case kwDef:
			return errorf(stmt.Location, ErrUnexpectedToken, "def inside method %q", name.Text)
		case kwDown:
			err = c.toggle(key.Down)
		case kwUp:
			err = c.toggle(key.Up)
		case kwTap:
			err = c.tap()
		case kwWait:
			err = c.wait(stmt.Location)
		case kwType:
			err = c.typeString()
		default:
			return errorf(stmt.Location, ErrUnexpectedToken, "unknown statement %q", stmt.Text)
		}
		if err != nil {
			return err
		}
	}
}

// emit appends an input, folding in any pending wait.
func (c *compiler) emit(gap time.Duration, k key.Key, t key.Toggle) error {
	total, ok := addDurations(gap, c.pending)
	if !ok {
		return errorf(c.toks[c.pos-1].Location, ErrInvalidDuration, "gap after wait exceeds %s", maxDuration)
	}
	c.ops = append(c.ops, program.Input{Gap: total, Key: k, Toggle: t})
	c.pending = 0
	c.waitAt = nil
	return nil
}

func (c *compiler) toggle(t key.Toggle) error {
	k, err := c.key()
	if err != nil {
		return err
	}
	gap, _, err := c.optionalDuration()
	if err != nil {
		return err
	}
	return c.emit(gap, k, t)
}

func (c *compiler) tap() error {
	k, err := c.key()
	if err != nil {
		return err
	}
	gap, ok, err := c.optionalDuration()
	if err != nil {
		return err
	}
	hold := c.opts.TapHold
	if ok {
		if d, set, err := c.optionalDuration(); err != nil {
			return err
		} else if set {
			hold = d
		}
	}
	if err := c.emit(gap, k, key.Down); err != nil {
		return err
	}
	return c.emit(hold, k, key.Up)
}

func (c *compiler) wait(at lexer.Location) error {
	tok, err := c.identifier("duration")
	if err != nil {
		return err
	}
	d, err := parseDuration(tok)
	if err != nil {
		return err
	}
	pending, ok := addDurations(c.pending, d)
	if !ok {
		return errorf(tok.Location, ErrInvalidDuration, "total wait exceeds %s", maxDuration)
	}
	c.pending = pending
	if c.waitAt == nil {
		c.waitAt = &at
	}
	return nil
}

func (c *compiler) typeString() error {
	tok, err := c.next("string")
	if err != nil {
		return err
	}
	if tok.Kind != lexer.String {
		return errorf(tok.Location, ErrUnexpectedToken, "expected string, got %s %q", tok.Kind, tok.Text)
	}
	interval, ok, err := c.optionalDuration()
	if err != nil {
		return err
	}
	if !ok {
		interval = c.opts.TypeInterval
	}

	strokes := make([]key.Stroke, 0, len(tok.Text))
	for _, r := range tok.Text {
		s, ok := key.StrokeFor(r)
		if !ok {
			return errorf(tok.Location, ErrUnmappableRune, "%q", r)
		}
		strokes = append(strokes, s)
	}

	for i, s := range strokes {
		var gap time.Duration
		if i > 0 {
			gap = interval
		}
		if s.Shift {
			if err := c.emit(gap, key.KeyShift, key.Down); err != nil {
				return err
			}
			gap = 0
		}
		if err := c.emit(gap, s.Key, key.Down); err != nil {
			return err
		}
		if err := c.emit(c.opts.TapHold, s.Key, key.Up); err != nil {
			return err
		}
		if s.Shift {
			if err := c.emit(0, key.KeyShift, key.Up); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *compiler) key() (key.Key, error) {
	tok, err := c.identifier("key")
	if err != nil {
		return key.KeyNone, err
	}
	k := key.FromName(tok.Text)
	if k == key.KeyNone {
		return k, errorf(tok.Location, ErrUnknownKey, "%q%s", tok.Text, didYouMean(tok.Text))
	}
	return k, nil
}

// didYouMean formats close key names as a hint, or returns "".
func didYouMean(name string) string {
	hints := fuzzy.Suggest(name, key.Names(), 3)
	if len(hints) == 0 {
		return ""
	}
	return " (did you mean " + strings.Join(hints, ", ") + "?)"
}

// optionalDuration consumes the next token when it is an identifier
// starting with a digit.
func (c *compiler) optionalDuration() (time.Duration, bool, error) {
	tok, ok := c.peek()
	if !ok || tok.Kind != lexer.Identifier || tok.Text == "" || !unicode.IsDigit([]rune(tok.Text)[0]) {
		return 0, false, nil
	}
	c.pos++
	d, err := parseDuration(tok)
	return d, true, err
}

const maxDuration = time.Duration(math.MaxInt64)

// addDurations returns a+b for non-negative a and b, or false when the sum
// does not fit in a time.Duration.
func addDurations(a, b time.Duration) (time.Duration, bool) {
	if a > maxDuration-b {
		return 0, false
	}
	return a + b, true
}

// parseDuration reads a bare integer as milliseconds, anything else as a
// Go duration.
func parseDuration(tok lexer.Token) (time.Duration, error) {
	var d time.Duration
	if ms, err := strconv.ParseInt(tok.Text, 10, 64); err == nil || errors.Is(err, strconv.ErrRange) {
		if ms < 0 {
			return 0, errorf(tok.Location, ErrInvalidDuration, "%q is negative", tok.Text)
		}
		if err != nil || ms > int64(maxDuration/time.Millisecond) {
			return 0, errorf(tok.Location, ErrInvalidDuration, "%q exceeds %s", tok.Text, maxDuration)
		}
		d = time.Duration(ms) * time.Millisecond
	} else {
		d, err = time.ParseDuration(tok.Text)
		if err != nil {
			return 0, errorf(tok.Location, ErrInvalidDuration, "%q", tok.Text)
		}
	}
	if d < 0 {
		return 0, errorf(tok.Location, ErrInvalidDuration, "%q is negative", tok.Text)
	}
	return d, nil
}
