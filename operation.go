package tuteliq

import (
	"context"
	"errors"
	"sync"
)

// State is the observable status of one Operation. Exactly one of the three
// shapes is ever published: {nil, true, nil} while a call is in flight,
// {data, false, nil} after a success, {nil, false, err} after a failure, and
// the zero value {nil, false, nil} initially and after Reset.
type State[Out any] struct {
	// Data is the last successful result, or nil.
	Data *Out
	// Loading is true from the moment Execute is entered until the remote
	// call settles.
	Loading bool
	// Err is the last failure, or nil. Always an error carrying the SDK
	// taxonomy (see Error), never a raw transport value.
	Err error
}

// Operation adapts one single-shot remote call into an observable state
// triple plus an execute/reset pair. Every catalog entry (see the
// New*Operation constructors) is an instantiation of this type; none of them
// add behavior beyond it.
//
// Concurrency: state transitions are serialized by a mutex, but overlapping
// Execute calls on the same Operation have no ordering guarantee between
// them. The state observed after both settle belongs to whichever call
// settled last in wall-clock terms, not invocation order. Callers that need
// mutual exclusion must serialize Execute calls themselves.
type Operation[In, Out any] struct {
	mu      sync.Mutex
	call    func(context.Context, In) (*Out, error)
	state   State[Out]
	subs    map[int]func(State[Out])
	nextSub int
}

// NewOperation wraps a remote call in a fresh adapter with zero-value state.
// Most users want the typed constructors in this package instead; this is
// exported so applications can adapt their own calls to the same contract.
func NewOperation[In, Out any](call func(context.Context, In) (*Out, error)) *Operation[In, Out] {
	return &Operation[In, Out]{call: call}
}

// Execute runs the wrapped call. The loading state is published synchronously
// before the call is made, so observers see it on the current tick. On
// success the result is both published and returned; on failure the error is
// normalized into the taxonomy, then both published and returned, so callers
// may consume either channel.
//
// Execute performs no retries; any retry policy belongs to the underlying
// client's transport.
func (o *Operation[In, Out]) Execute(ctx context.Context, in In) (*Out, error) {
	o.publish(State[Out]{Loading: true})

	out, err := o.call(ctx, in)
	if err != nil {
		err = o.normalize(err)
		o.publish(State[Out]{Err: err})
		return nil, err
	}

	o.publish(State[Out]{Data: out})
	return out, nil
}

// Reset unconditionally returns the state to its zero value. It is
// idempotent and does not cancel an in-flight Execute: a call that settles
// later will overwrite the reset state.
func (o *Operation[In, Out]) Reset() {
	o.publish(State[Out]{})
}

// State returns a snapshot of the current state.
func (o *Operation[In, Out]) State() State[Out] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe registers an observer invoked on every state publication,
// including the synchronous loading transition at the start of Execute. The
// returned function cancels the subscription. Observers run on the goroutine
// that caused the transition and must not call back into the Operation.
func (o *Operation[In, Out]) Subscribe(fn func(State[Out])) (cancel func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.subs == nil {
		o.subs = make(map[int]func(State[Out]))
	}
	id := o.nextSub
	o.nextSub++
	o.subs[id] = fn

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subs, id)
	}
}

// normalize guarantees the published error is a taxonomy value: anything
// already carrying an *Error (or the session sentinel) passes through,
// everything else is wrapped preserving its string form.
func (o *Operation[In, Out]) normalize(err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return err
	}
	return wrapRaw(err)
}

// publish commits a state transition and notifies subscribers. Last writer
// wins; there is no generation tracking across overlapping Executes.
func (o *Operation[In, Out]) publish(state State[Out]) {
	o.mu.Lock()
	o.state = state
	observers := make([]func(State[Out]), 0, len(o.subs))
	for _, fn := range o.subs {
		observers = append(observers, fn)
	}
	o.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}
