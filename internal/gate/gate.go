// Package gate implements a single slot suspension point.
//
// A long-running operation opens a gate when it needs interactive help (accept
// terms, log in...) and waits until whoever presents the interactive flow
// resolves or rejects it. The gate does not know what runs the flow, it only
// exposes whether a request is pending so a presentation layer can react.
package gate

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
)

// Config is the configuration of a gate.
type Config struct {
	// Name identifies the gate in logs and errors.
	Name string
	// OnCreated is called synchronously every time a new request is installed,
	// before observers are notified.
	OnCreated func()
	Logger    log.Logger
}

func (c *Config) defaults() {
	if c.Name == "" {
		c.Name = "gate"
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "gate.Gate", "gate": c.Name})
}

type request[T any] struct {
	resolve func(T)
	reject  func(error)
}

// Gate holds at most one pending request of type T.
type Gate[T any] struct {
	name      string
	onCreated func()
	logger    log.Logger

	mu      sync.Mutex
	pending *request[T]
	subs    map[int]func(exists bool)
	nextSub int
}

// New returns a new gate without pending requests.
func New[T any](cfg Config) *Gate[T] {
	cfg.defaults()
	return &Gate[T]{
		name:      cfg.Name,
		onCreated: cfg.OnCreated,
		logger:    cfg.Logger,
		subs:      map[int]func(bool){},
	}
}

// Request installs a pending request. The continuations are called at most once.
//
// If a request was already pending it is replaced and its reject continuation
// receives model.ErrSuperseded.
func (g *Gate[T]) Request(onResolve func(T), onReject func(error)) {
	g.install(onResolve, onReject)
}

func (g *Gate[T]) install(onResolve func(T), onReject func(error)) *request[T] {
	if g.onCreated != nil {
		g.onCreated()
	}

	req := &request[T]{resolve: onResolve, reject: onReject}

	g.mu.Lock()
	old := g.pending
	g.pending = req
	g.mu.Unlock()

	if old != nil {
		g.logger.Warningf("Pending request replaced by a new one")
		if old.reject != nil {
			old.reject(fmt.Errorf("%s request: %w", g.name, model.ErrSuperseded))
		}
	}

	g.logger.Debugf("Request installed")
	g.notify(true)

	return req
}

// Resolve settles the pending request with v. It's a no-op without a pending request.
func (g *Gate[T]) Resolve(v T) {
	req := g.take(nil)
	if req == nil {
		return
	}

	g.logger.Debugf("Request resolved")
	if req.resolve != nil {
		req.resolve(v)
	}
	g.notify(false)
}

// Reject settles the pending request with err. It's a no-op without a pending request.
func (g *Gate[T]) Reject(err error) {
	req := g.take(nil)
	if req == nil {
		return
	}

	g.logger.Debugf("Request rejected: %s", err)
	if req.reject != nil {
		req.reject(err)
	}
	g.notify(false)
}

// Await installs a request and blocks until it's settled or the context is done.
// On context cancellation the request is withdrawn if still pending.
func (g *Gate[T]) Await(ctx context.Context) (T, error) {
	type result struct {
		v   T
		err error
	}

	// Buffered so a late settle never blocks the resolver.
	resC := make(chan result, 1)
	req := g.install(
		func(v T) { resC <- result{v: v} },
		func(err error) { resC <- result{err: err} },
	)

	select {
	case res := <-resC:
		return res.v, res.err
	case <-ctx.Done():
		if g.take(req) != nil {
			g.notify(false)
		}
		var zero T
		return zero, ctx.Err()
	}
}

// Exists returns true if there is a pending request.
func (g *Gate[T]) Exists() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending != nil
}

// Subscribe registers fn to be called every time the pending request existence
// changes. The returned function removes the subscription.
func (g *Gate[T]) Subscribe(fn func(exists bool)) (unsubscribe func()) {
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}
}

// take clears and returns the pending request. When only is not nil the request
// is only taken if it's that one.
func (g *Gate[T]) take(only *request[T]) *request[T] {
	g.mu.Lock()
	defer g.mu.Unlock()

	req := g.pending
	if req == nil || (only != nil && req != only) {
		return nil
	}
	g.pending = nil

	return req
}

func (g *Gate[T]) notify(exists bool) {
	g.mu.Lock()
	subs := make([]func(bool), 0, len(g.subs))
	for i := 0; i < g.nextSub; i++ {
		if fn, ok := g.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	g.mu.Unlock()

	for _, fn := range subs {
		fn(exists)
	}
}
