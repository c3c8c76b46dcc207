// Package lexer turns script text into located tokens.
//
// The lexer is a single left-to-right pass driven by a State accumulator.
// It recognises three token kinds: comments (from ';' to end of line),
// identifiers (runs of non-whitespace) and quoted strings. Every token
// carries the Location where it began, and every error carries the Location
// where it was detected.
//
// Tokenize is pure: the result depends only on the text and source name.
package lexer
