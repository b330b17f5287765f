package loader

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-flock/engine/model"
)

// Future is the pending result of an asynchronous template load.
// It completes exactly once; later completions are ignored.
type Future struct {
	mu        *sync.Mutex
	done      chan struct{}
	model     model.Model
	err       error
	callbacks []func(model.Model, error)
}

// NewFuture creates an unresolved Future.
func NewFuture() *Future {
	return &Future{
		mu:   &sync.Mutex{},
		done: make(chan struct{}),
	}
}

// Resolved creates a Future that is already complete.
func Resolved(m model.Model, err error) *Future {
	f := NewFuture()
	f.Complete(m, err)
	return f
}

// Complete resolves the Future and runs any registered callbacks on the calling goroutine.
//
// Parameters:
//   - m: the loaded model, nil on failure
//   - err: the load error, nil on success
//
// Returns:
//   - bool: false if the Future had already been completed
func (f *Future) Complete(m model.Model, err error) bool {
	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		return false
	default:
	}
	f.model, f.err = m, err
	close(f.done)
	callbacks := f.callbacks
	f.callbacks = nil
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(m, err)
	}
	return true
}

// Done returns a channel that is closed once the Future completes.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the Future has completed.
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the outcome of a completed Future. Before completion both values are nil.
func (f *Future) Result() (model.Model, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.model, f.err
}

// Then registers cb to run once the Future completes. If it already has, cb runs immediately
// on the calling goroutine; otherwise it runs on the goroutine that completes the Future.
func (f *Future) Then(cb func(model.Model, error)) {
	f.mu.Lock()
	select {
	case <-f.done:
		m, err := f.model, f.err
		f.mu.Unlock()
		cb(m, err)
		return
	default:
	}
	f.callbacks = append(f.callbacks, cb)
	f.mu.Unlock()
}
