// Package pipeline defines the execution contracts satisfied by generated
// dispatch code, plus helpers for running whole pipelines of operations.
//
// An operation type generated by pipeline-generator implements exactly one
// of the three contracts:
//   - Executor: the handler takes no auxiliary argument
//   - ExecutorWith: the handler additionally receives a read-only argument
//   - ExecutorWithMut: the handler additionally receives a mutable argument
//
// Running a pipeline executes every element in order, exactly once each.
// For ExecutorWith the argument is passed by value, so handlers observe the
// same value and cannot mutate caller-visible state. For ExecutorWithMut
// the argument is a pointer and each handler observes the mutations made by
// the handlers before it.
package pipeline

import "iter"

// Executor is implemented by operations whose handlers take no auxiliary
// argument.
type Executor interface {
	// Execute invokes the handler wired to this operation.
	Execute()
}

// ExecutorWith is implemented by operations whose handlers receive a
// read-only auxiliary argument of type A.
type ExecutorWith[A any] interface {
	// ExecuteWith invokes the handler wired to this operation, passing arg.
	ExecuteWith(arg A)
}

// ExecutorWithMut is implemented by operations whose handlers receive a
// mutable auxiliary argument of type A.
type ExecutorWithMut[A any] interface {
	// ExecuteWithMut invokes the handler wired to this operation, passing arg.
	ExecuteWithMut(arg *A)
}

// Run executes every operation in ops, in order.
func Run[E Executor](ops []E) {
	for _, op := range ops {
		op.Execute()
	}
}

// RunWith executes every operation in ops, in order, passing arg to each.
func RunWith[A any, E ExecutorWith[A]](ops []E, arg A) {
	for _, op := range ops {
		op.ExecuteWith(arg)
	}
}

// RunWithMut executes every operation in ops, in order, passing arg to each.
// Handlers may mutate through arg; later operations observe earlier
// mutations.
func RunWithMut[A any, E ExecutorWithMut[A]](ops []E, arg *A) {
	for _, op := range ops {
		op.ExecuteWithMut(arg)
	}
}

// RunSeq executes every operation yielded by seq, in yield order. It allows
// running pipelines held in any ordered collection that exposes an iterator.
func RunSeq[E Executor](seq iter.Seq[E]) {
	for op := range seq {
		op.Execute()
	}
}

// RunSeqWith executes every operation yielded by seq, passing arg to each.
func RunSeqWith[A any, E ExecutorWith[A]](seq iter.Seq[E], arg A) {
	for op := range seq {
		op.ExecuteWith(arg)
	}
}

// RunSeqWithMut executes every operation yielded by seq, passing arg to each.
func RunSeqWithMut[A any, E ExecutorWithMut[A]](seq iter.Seq[E], arg *A) {
	for op := range seq {
		op.ExecuteWithMut(arg)
	}
}
