package flight

import (
	"sync"
)

// Group coalesces calls by key for the lifetime of one aggregation.
// Concurrent callers of the same key wait for a single execution and
// successful results are memoized; failures are not, so a later caller
// runs the work again. A Group is meant to be dropped with its request.
type Group[K comparable, V any] struct {
	finished map[K]V
	pending  map[K]*job[V]
	mu       sync.Mutex

	work func(K) (V, error)
}

type job[V any] struct {
	val  V
	err  error
	done chan struct{}
}

func NewGroup[K comparable, V any](work func(K) (V, error)) *Group[K, V] {
	return &Group[K, V]{
		finished: make(map[K]V),
		pending:  make(map[K]*job[V]),
		work:     work,
	}
}

// Get returns the memoized value for k, joins an in-flight call for k, or
// runs the work.
func (g *Group[K, V]) Get(k K) (V, error) {
	g.mu.Lock()
	if v, ok := g.finished[k]; ok {
		g.mu.Unlock()
		return v, nil
	}

	if pending, ok := g.pending[k]; ok {
		g.mu.Unlock()
		<-pending.done
		return pending.val, pending.err
	}

	j := &job[V]{done: make(chan struct{})}
	g.pending[k] = j
	g.mu.Unlock()

	j.val, j.err = g.work(k)

	g.mu.Lock()
	if j.err == nil {
		g.finished[k] = j.val
	}
	delete(g.pending, k)
	close(j.done)
	g.mu.Unlock()

	return j.val, j.err
}

// Seed stores v under k without running the work, unless k already
// has a value.
func (g *Group[K, V]) Seed(k K, v V) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.finished[k]; !ok {
		g.finished[k] = v
	}
}

// Len reports the number of memoized keys.
func (g *Group[K, V]) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.finished)
}
