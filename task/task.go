// Package task implements parallel function call spawn/join (§4.7,
// supplementing the bytecode minimal opcode set with the "explicit
// opcodes not in the minimal set" the runtime needs to actually run
// parallel calls and join on their results).
package task

import (
	"runtime"

	"github.com/xyproto/synclang/cerr"
)

// Value is the boxed result a spawned function call produces, matching
// the shape interp.Value without importing interp (task sits below it in
// the dependency graph; the interpreter adapts its own Value when
// spawning a task).
type Value struct {
	HasValue bool
	Bits     uint64
}

// Fn is the work a Task runs: it returns a Value plus a runtime error,
// mirroring how a Script call returns from interp.Interpreter.Run.
type Fn func() (Value, cerr.ProgramRuntimeError)

// Task is a handle to a function call running on its own goroutine. The
// caller polls IsDone or blocks on Join — the same "task handle polling
// is_done" contract spec.md describes for host-provided parallel call
// support.
type Task struct {
	done   chan struct{}
	result Value
	rerr   cerr.ProgramRuntimeError
}

// Spawn starts fn on a new goroutine and returns immediately with a
// handle to observe its completion.
func Spawn(fn Fn) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		t.result, t.rerr = fn()
		close(t.done)
	}()
	return t
}

// IsDone reports whether the task has finished, without blocking.
func (t *Task) IsDone() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Join blocks until the task completes and returns its result.
func (t *Task) Join() (Value, cerr.ProgramRuntimeError) {
	<-t.done
	return t.result, t.rerr
}

// Pool bounds how many Fns run concurrently, fanning work out across
// runtime.NumCPU() goroutines by default — the idiomatic replacement
// for the teacher's GetNumCPUCores()-sized raw-clone() thread pool.
type Pool struct {
	sem chan struct{}
}

// NewPool creates a Pool with width workers, or runtime.NumCPU() workers
// if width <= 0.
func NewPool(width int) *Pool {
	if width <= 0 {
		width = runtime.NumCPU()
	}
	return &Pool{sem: make(chan struct{}, width)}
}

// Spawn starts fn once a pool slot is free, returning a Task handle as
// soon as the goroutine is scheduled (not once a slot is acquired —
// acquisition happens inside the goroutine so Spawn itself never blocks
// the caller).
func (p *Pool) Spawn(fn Fn) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		p.sem <- struct{}{}
		defer func() { <-p.sem }()
		t.result, t.rerr = fn()
		close(t.done)
	}()
	return t
}

// JoinAll blocks until every task in ts has completed, returning their
// results in the same order.
func JoinAll(ts []*Task) ([]Value, []cerr.ProgramRuntimeError) {
	values := make([]Value, len(ts))
	errs := make([]cerr.ProgramRuntimeError, len(ts))
	for i, t := range ts {
		values[i], errs[i] = t.Join()
	}
	return values, errs
}
