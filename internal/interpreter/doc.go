// Package interpreter loads keybot scripts and runs their methods.
//
// An Interpreter holds the Environment produced by the compiler and a
// Timeline. Running a method queues its inputs on the timeline and then
// drains the timeline through a dispatcher:
//
//	in := interpreter.New(dispatcher)
//	if err := in.Load("macro.bot.lisp"); err != nil {
//	    return err
//	}
//	if err := in.Main(ctx); err != nil {
//	    return err
//	}
//
// The timeline is not cleared after a drain. Call Reset before running a
// method a second time, otherwise the earlier events are dispatched again.
package interpreter
