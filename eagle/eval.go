// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eagle provides an evaluator for Eagle programs and the
// Compilation API that parses, binds and lowers them.
//
// The evaluator executes one lowered body at a time. Control flow is
// an instruction pointer moved by gotos over the flat statement list
// of the body; calls push a new Frame on the Thread.
package eagle // import "go.eaglelang.org/eagle"

import (
	"bufio"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"unsafe"

	"go.eaglelang.org/bind"
	"go.eaglelang.org/bound"
	"go.eaglelang.org/symbol"
	"go.eaglelang.org/syntax"
)

// maxDepth is the maximum depth of the call stack of a thread.
const maxDepth = 10000

// A Thread contains the state of an Eagle evaluation, such as its
// call stack, its global variables and the last value computed.
// The Thread is threaded throughout the evaluator.
type Thread struct {
	// Name is an optional name that describes the thread, for debugging.
	Name string

	// Print is the client-supplied implementation of the Print
	// intrinsic. If nil, fmt.Println(msg) is used instead.
	Print func(thread *Thread, msg string)

	// Input is the client-supplied implementation of the Input
	// intrinsic. If nil, a line is read from the standard input.
	Input func(thread *Thread) (string, error)

	// Fail, if non-nil, is called when an Assert fails, and evaluation
	// continues. If nil, a failed Assert is an evaluation error.
	Fail func(thread *Thread, msg string)

	// Trace, if non-nil, is called on entry to every invocation,
	// after the new frame has been pushed.
	Trace func(thread *Thread, fn symbol.Invokable, args []Value)

	program *bind.Program
	globals Globals
	frame   *Frame
	depth   int
	last    Value // value of the most recently executed statement
	stdin   *bufio.Reader

	// cancelReason is set, at most once, by Cancel.
	cancelReason *string

	// labels caches the label offsets of each executed body.
	labels map[*bound.Block]map[*bound.Label]int

	// locals holds arbitrary "thread-local" values belonging to the client.
	locals map[string]interface{}
}

// SetLocal sets the thread-local value associated with the specified key.
// It must not be called after execution begins.
func (thread *Thread) SetLocal(key string, value interface{}) {
	if thread.locals == nil {
		thread.locals = make(map[string]interface{})
	}
	thread.locals[key] = value
}

// Local returns the thread-local value associated with the specified key.
func (thread *Thread) Local(key string) interface{} {
	return thread.locals[key]
}

// Cancel causes execution of Eagle code in the specified thread to
// promptly fail with an EvalError that includes the specified reason.
// There may be a delay before the interpreter observes the cancellation
// if the thread is currently in a call to an intrinsic.
//
// Cancellation cannot be undone.
//
// Unlike most methods of Thread, it is safe to call Cancel from any
// goroutine, even if the thread is actively executing.
func (thread *Thread) Cancel(reason string) {
	// Atomically set cancelReason, preserving earlier reason if any.
	atomic.CompareAndSwapPointer((*unsafe.Pointer)(unsafe.Pointer(&thread.cancelReason)), nil, unsafe.Pointer(&reason))
}

// cancelled returns the cancellation error, if Cancel has been called.
func (thread *Thread) cancelled() error {
	if reason := atomic.LoadPointer((*unsafe.Pointer)(unsafe.Pointer(&thread.cancelReason))); reason != nil {
		return thread.evalError(fmt.Errorf("Eagle computation cancelled: %s", *(*string)(reason)))
	}
	return nil
}

// CallStackDepth returns the number of frames in the current call stack.
func (thread *Thread) CallStackDepth() int { return thread.depth }

// DebugFrame returns the frame at the specified depth.
// DebugFrame(0) is the innermost frame.
func (thread *Thread) DebugFrame(depth int) *Frame {
	fr := thread.frame
	for ; depth > 0; depth-- {
		fr = fr.parent
	}
	return fr
}

// CallFrame returns a copy of the specified frame of the callstack.
// It should only be used in intrinsics called from Eagle code.
// Depth 0 means the frame of the intrinsic itself, 1 is its caller, and so on.
func (thread *Thread) CallFrame(depth int) CallFrame {
	return thread.DebugFrame(depth).asCallFrame()
}

// CallStack returns a new slice containing the thread's stack of call frames.
func (thread *Thread) CallStack() CallStack {
	stack := make(CallStack, thread.depth)
	i := thread.depth
	for fr := thread.frame; fr != nil; fr = fr.parent {
		i--
		stack[i] = fr.asCallFrame()
	}
	return stack
}

// A Frame records a call to an Eagle function, method, constructor
// or accessor, or to an intrinsic.
type Frame struct {
	thread   *Thread
	parent   *Frame
	fn       symbol.Invokable
	pos      syntax.Position // position of the current expression; invalid in intrinsics
	receiver *Object         // nil for free functions
	locals   map[symbol.Symbol]Value
}

// Function returns the invokable of the frame.
func (fr *Frame) Function() symbol.Invokable { return fr.fn }

// Position returns the source position of the current point of
// execution in this frame.
func (fr *Frame) Position() syntax.Position { return fr.pos }

// Receiver returns the object on which the frame's method,
// constructor or accessor was invoked, or nil.
func (fr *Frame) Receiver() *Object { return fr.receiver }

// Local returns the current value of a parameter or local variable
// of the frame, or nil if it has none yet.
func (fr *Frame) Local(sym symbol.Symbol) Value { return fr.locals[sym] }

func (fr *Frame) asCallFrame() CallFrame {
	return CallFrame{Name: fr.thread.funcName(fr.fn), Pos: fr.pos}
}

// funcName returns the name of fn as shown in a backtrace:
// members are qualified by their type.
func (thread *Thread) funcName(fn symbol.Invokable) string {
	switch fn := fn.(type) {
	case *symbol.ConstructorSymbol:
		return fn.Result().Name() + ".ctor"
	case *symbol.MethodSymbol:
		if thread.program != nil {
			return thread.program.Global.Arena().Owner(fn).Name() + "." + fn.Name()
		}
	}
	return fn.Name()
}

// A CallStack is a stack of call frames, outermost first.
type CallStack []CallFrame

// At returns a copy of the frame at depth i.
// At(0) returns the topmost frame.
func (stack CallStack) At(i int) CallFrame { return stack[len(stack)-1-i] }

// Pop removes and returns the topmost frame.
func (stack *CallStack) Pop() CallFrame {
	last := len(*stack) - 1
	top := (*stack)[last]
	*stack = (*stack)[:last]
	return top
}

// String returns a user-friendly description of the stack.
func (stack CallStack) String() string {
	out := new(strings.Builder)
	if len(stack) > 0 {
		fmt.Fprintf(out, "Traceback (most recent call last):\n")
	}
	for _, fr := range stack {
		if fr.Pos.IsValid() {
			fmt.Fprintf(out, "  %s: in %s\n", fr.Pos, fr.Name)
		} else {
			fmt.Fprintf(out, "  <builtin>: in %s\n", fr.Name)
		}
	}
	return out.String()
}

// A CallFrame represents the function name and current
// position of execution of an enclosing call frame.
type CallFrame struct {
	Name string
	Pos  syntax.Position
}

// An EvalError is an Eagle evaluation error and
// a copy of the thread's stack at the moment of the error.
type EvalError struct {
	Msg       string
	CallStack CallStack
	cause     error
}

func (e *EvalError) Error() string { return e.Msg }

// Backtrace returns a user-friendly error message describing the stack
// of calls that led to this error.
func (e *EvalError) Backtrace() string {
	return fmt.Sprintf("%sError: %s", e.CallStack, e.Msg)
}

func (e *EvalError) Unwrap() error { return e.cause }

// evalError wraps err in an EvalError holding the current call stack.
func (thread *Thread) evalError(err error) *EvalError {
	if e, ok := err.(*EvalError); ok {
		return e
	}
	return &EvalError{Msg: err.Error(), CallStack: thread.CallStack(), cause: err}
}

func (fr *Frame) errorf(pos syntax.Position, format string, args ...interface{}) *EvalError {
	fr.pos = pos
	return fr.thread.evalError(fmt.Errorf(format, args...))
}

// Exec evaluates the entry point of program p, a script function or
// a main function, using globals as the global variable store, and
// returns its result. A program without an entry point yields nil.
// If globals is nil, the global variables live only for this call.
//
// The program must be free of errors. If evaluation fails, Exec
// returns an *EvalError containing a backtrace.
func (thread *Thread) Exec(p *bind.Program, globals Globals) (Value, error) {
	if len(p.Errors) > 0 {
		return nil, p.Errors
	}
	entry := p.Entry()
	if entry == nil {
		return nil, nil
	}
	if thread.frame != nil {
		return nil, fmt.Errorf("eagle: thread %q is already executing", thread.Name)
	}

	if globals == nil {
		globals = make(Globals) // discarded after the call
	}
	thread.program, thread.globals, thread.last = p, globals, nil
	defer func() { thread.program, thread.globals = nil, nil }()
	return thread.call(entry, nil, nil)
}

// Call invokes fn, which must belong to the program currently being
// executed by the thread. It may be called from intrinsics and
// tracing hooks.
func (thread *Thread) Call(fn symbol.Invokable, receiver *Object, args []Value) (Value, error) {
	if thread.program == nil {
		return nil, fmt.Errorf("eagle: Call of %s outside Exec", fn.Name())
	}
	if len(args) != len(fn.Params()) {
		return nil, fmt.Errorf("%s: got %d arguments, want %d", fn.Name(), len(args), len(fn.Params()))
	}
	return thread.call(fn, receiver, args)
}

// call invokes fn in a new frame.
func (thread *Thread) call(fn symbol.Invokable, receiver *Object, args []Value) (Value, error) {
	if thread.depth >= maxDepth {
		return nil, thread.evalError(fmt.Errorf("call stack depth exceeds %d", maxDepth))
	}
	fr := &Frame{thread: thread, parent: thread.frame, fn: fn, receiver: receiver}
	thread.frame = fr
	thread.depth++
	defer func() {
		thread.frame = fr.parent
		thread.depth--
	}()

	if thread.Trace != nil {
		thread.Trace(thread, fn, args)
	}

	if f, ok := fn.(*symbol.FunctionSymbol); ok && f.Extern {
		v, err := callIntrinsic(thread, f, args)
		if err != nil {
			return nil, thread.evalError(err)
		}
		return v, nil
	}

	body, ok := thread.program.Body(fn)
	if !ok {
		log.Fatalf("%s has no body", fn)
		panic("unreachable")
	}
	fr.locals = make(map[symbol.Symbol]Value, len(args))
	for i, p := range fn.Params() {
		fr.locals[p] = args[i]
	}
	if ctor, ok := fn.(*symbol.ConstructorSymbol); ok {
		if err := fr.initFields(ctor.Result()); err != nil {
			return nil, err
		}
	}
	return fr.exec(body)
}

// initFields evaluates the field initializers of the receiver, of
// type t, in declaration order.
func (fr *Frame) initFields(t *symbol.TypeSymbol) error {
	for _, f := range t.Fields() {
		init, ok := fr.thread.program.FieldInit(f)
		if !ok {
			continue
		}
		v, err := fr.eval(init)
		if err != nil {
			return err
		}
		fr.receiver.fields[f] = v
	}
	return nil
}

// labelsOf returns the statement index following each label of body.
func (thread *Thread) labelsOf(body *bound.Block) map[*bound.Label]int {
	if labels, ok := thread.labels[body]; ok {
		return labels
	}
	labels := make(map[*bound.Label]int)
	for i, s := range body.Stmts {
		if l, ok := s.(*bound.LabelStmt); ok {
			labels[l.Label] = i + 1
		}
	}
	if thread.labels == nil {
		thread.labels = make(map[*bound.Block]map[*bound.Label]int)
	}
	thread.labels[body] = labels
	return labels
}

// exec executes a lowered body and returns the invocation's result.
func (fr *Frame) exec(body *bound.Block) (Value, error) {
	thread := fr.thread
	labels := thread.labelsOf(body)
	stmts := body.Stmts
	for ip := 0; ip < len(stmts); {
		if err := thread.cancelled(); err != nil {
			return nil, err
		}
		switch s := stmts[ip].(type) {
		case *bound.VarDecl:
			v, err := fr.eval(s.Init)
			if err != nil {
				return nil, err
			}
			fr.setVar(s.Var, v)
			thread.last = v
			ip++

		case *bound.ExprStmt:
			v, err := fr.eval(s.X)
			if err != nil {
				return nil, err
			}
			thread.last = v
			ip++

		case *bound.LabelStmt:
			ip++

		case *bound.Goto:
			ip = labels[s.Label]

		case *bound.CondGoto:
			cond, err := fr.eval(s.Cond)
			if err != nil {
				return nil, err
			}
			if cond.(bool) == s.JumpIfTrue {
				ip = labels[s.Label]
			} else {
				ip++
			}

		case *bound.Return:
			if s.Result != nil {
				return fr.eval(s.Result)
			}
			return fr.result(), nil

		default:
			log.Fatalf("%s: unexpected statement %T", thread.funcName(fr.fn), s)
			panic("unreachable")
		}
	}
	return fr.result(), nil
}

// result returns the value of an invocation that ends without a
// return value: nothing for a Void function, otherwise the last
// value computed.
func (fr *Frame) result() Value {
	if fr.fn.Result().IsVoid() {
		return nil
	}
	return fr.thread.last
}

func (fr *Frame) getVar(v *symbol.VariableSymbol) (Value, error) {
	var x Value
	var ok bool
	if v.IsGlobal() {
		x, ok = fr.thread.globals[v]
	} else {
		x, ok = fr.locals[v]
	}
	if !ok {
		return nil, fr.errorf(fr.pos, "%s variable %s referenced before assignment", v.Kind(), v.Name())
	}
	return x, nil
}

func (fr *Frame) setVar(v *symbol.VariableSymbol, x Value) {
	if v.IsGlobal() {
		fr.thread.globals[v] = x
	} else {
		fr.locals[v] = x
	}
}

// eval evaluates an expression of a lowered body.
func (fr *Frame) eval(e bound.Expr) (Value, error) {
	thread := fr.thread
	switch e := e.(type) {
	case *bound.Literal:
		return e.Value, nil

	case *bound.VarExpr:
		return fr.getVar(e.Var)

	case *bound.ParamExpr:
		return fr.locals[e.Param], nil

	case *bound.This:
		if fr.receiver == nil {
			return nil, nil
		}
		return fr.receiver, nil

	case *bound.FieldExpr:
		o, err := fr.object(e.X)
		if err != nil {
			return nil, err
		}
		return o.fields[e.Field], nil

	case *bound.PropertyExpr:
		o, err := fr.object(e.X)
		if err != nil {
			return nil, err
		}
		return thread.call(e.Property.Getter, o, nil)

	case *bound.IndexExpr:
		o, err := fr.object(e.X)
		if err != nil {
			return nil, err
		}
		args, err := fr.evalArgs(e.Args)
		if err != nil {
			return nil, err
		}
		return thread.call(e.Indexer.Getter, o, args)

	case *bound.Conversion:
		x, err := fr.eval(e.X)
		if err != nil {
			return nil, err
		}
		v, err := convert(x, e.T)
		if err != nil {
			fr.pos = e.Pos
			return nil, thread.evalError(err)
		}
		return v, nil

	case *bound.Unary:
		x, err := fr.eval(e.X)
		if err != nil {
			return nil, err
		}
		return e.Op.Apply(x), nil

	case *bound.Binary:
		x, err := fr.eval(e.X)
		if err != nil {
			return nil, err
		}
		switch e.Op.Kind {
		case bound.LogicalAnd:
			if !x.(bool) {
				return false, nil
			}
			return fr.eval(e.Y)
		case bound.LogicalOr:
			if x.(bool) {
				return true, nil
			}
			return fr.eval(e.Y)
		}
		y, err := fr.eval(e.Y)
		if err != nil {
			return nil, err
		}
		z, err := e.Op.Apply(x, y)
		if err != nil {
			fr.pos = e.Pos
			return nil, thread.evalError(err)
		}
		return z, nil

	case *bound.Assign:
		return fr.assign(e)

	case *bound.Call:
		args, err := fr.evalArgs(e.Args)
		if err != nil {
			return nil, err
		}
		fr.pos = e.Pos
		return thread.call(e.Fn, nil, args)

	case *bound.MethodCall:
		fr.pos = e.Pos
		recv := fr.receiver
		if e.Receiver != nil {
			o, err := fr.object(e.Receiver)
			if err != nil {
				return nil, err
			}
			recv = o
		}
		args, err := fr.evalArgs(e.Args)
		if err != nil {
			return nil, err
		}
		fr.pos = e.Pos
		return thread.call(e.Method, recv, args)

	case *bound.New:
		args, err := fr.evalArgs(e.Args)
		if err != nil {
			return nil, err
		}
		fr.pos = e.Pos
		o := newObject(e.Ctor.Result())
		if _, err := thread.call(e.Ctor, o, args); err != nil {
			return nil, err
		}
		return o, nil
	}
	log.Fatalf("%s: unexpected expression %T", thread.funcName(fr.fn), e)
	panic("unreachable")
}

// object evaluates an expression of object type.
func (fr *Frame) object(e bound.Expr) (*Object, error) {
	x, err := fr.eval(e)
	if err != nil {
		return nil, err
	}
	o, _ := x.(*Object)
	if o == nil {
		return nil, fr.errorf(fr.pos, "cannot access a member of a nil %s", e.Type())
	}
	return o, nil
}

func (fr *Frame) evalArgs(exprs []bound.Expr) ([]Value, error) {
	args := make([]Value, len(exprs))
	for i, e := range exprs {
		v, err := fr.eval(e)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// assign evaluates an assignment: first the object of a member
// target, then any indexer arguments, then the value.
func (fr *Frame) assign(e *bound.Assign) (Value, error) {
	thread := fr.thread
	switch t := e.Target.(type) {
	case *bound.VarExpr:
		v, err := fr.eval(e.Value)
		if err != nil {
			return nil, err
		}
		fr.setVar(t.Var, v)
		return v, nil

	case *bound.FieldExpr:
		o, err := fr.object(t.X)
		if err != nil {
			return nil, err
		}
		v, err := fr.eval(e.Value)
		if err != nil {
			return nil, err
		}
		o.fields[t.Field] = v
		return v, nil

	case *bound.PropertyExpr:
		o, err := fr.object(t.X)
		if err != nil {
			return nil, err
		}
		v, err := fr.eval(e.Value)
		if err != nil {
			return nil, err
		}
		if _, err := thread.call(t.Property.Setter, o, []Value{v}); err != nil {
			return nil, err
		}
		return v, nil

	case *bound.IndexExpr:
		o, err := fr.object(t.X)
		if err != nil {
			return nil, err
		}
		args, err := fr.evalArgs(t.Args)
		if err != nil {
			return nil, err
		}
		v, err := fr.eval(e.Value)
		if err != nil {
			return nil, err
		}
		if _, err := thread.call(t.Indexer.Setter, o, append(args, v)); err != nil {
			return nil, err
		}
		return v, nil
	}
	log.Fatalf("unexpected assignment target %T", e.Target)
	panic("unreachable")
}
