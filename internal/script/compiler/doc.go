// Package compiler turns a token stream into a program.Environment.
//
// A script is a list of methods. Each method is a block of statements:
//
//	; comments run to end of line
//	def main
//	  wait 500ms          ; delay the next input
//	  down right          ; press immediately
//	  tap space 200 80ms  ; press after 200ms, release 80ms later
//	  up right 1s         ; release a second after the previous event
//	  type "gg" 100ms     ; one stroke per character, 100ms apart
//	end
//
// Durations are bare milliseconds or Go duration strings. Every statement
// compiles to Input operations whose gaps are relative to the previous
// event, which is exactly what the timeline consumes.
package compiler
