package resilience

import "sync"

type flightCall struct {
	wg  sync.WaitGroup
	val any
	err error
}

// Flight collapses concurrent duplicate calls: callers sharing a key wait on
// one in-flight execution and receive its result. Used so overlapping refresh
// runs do not hammer an upstream with identical requests.
type Flight struct {
	mu    sync.Mutex
	calls map[string]*flightCall
}

// NewFlight builds an empty Flight group.
func NewFlight() *Flight {
	return &Flight{calls: make(map[string]*flightCall)}
}

// Do executes fn for key, ensuring only one execution runs at a time per key.
// Duplicate callers block and receive the leader's result. The second return
// reports whether the result was shared from another caller.
func (f *Flight) Do(key string, fn func() (any, error)) (any, bool, error) {
	f.mu.Lock()
	if c, ok := f.calls[key]; ok {
		f.mu.Unlock()
		c.wg.Wait()
		return c.val, true, c.err
	}

	c := &flightCall{}
	c.wg.Add(1)
	f.calls[key] = c
	f.mu.Unlock()

	c.val, c.err = fn()
	c.wg.Done()

	f.mu.Lock()
	delete(f.calls, key)
	f.mu.Unlock()

	return c.val, false, c.err
}
