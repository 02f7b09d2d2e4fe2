// Package sendstate keeps the observable state of the submissions of every
// destination and the file currently targeted by the user.
package sendstate

import (
	"fmt"
	"sync"
	"time"

	"github.com/slok/sendtovrc/internal/log"
	"github.com/slok/sendtovrc/internal/model"
)

// StoreConfig is the configuration of the store.
type StoreConfig struct {
	// Now returns the current time, used for the file to send request timestamps.
	Now    func() time.Time
	Logger log.Logger
}

func (c *StoreConfig) defaults() {
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "sendstate.Store"})
}

// Store holds the last SendState of each destination. Every submission starts
// a new generation and only the states of the latest generation are published,
// a stale submission finishing late can't overwrite a newer one.
type Store struct {
	now    func() time.Time
	logger log.Logger

	mu          sync.Mutex
	states      map[model.Destination]model.SendState
	generations map[model.Destination]uint64
	file        *model.FileToSend
	lastReqAt   int64
	subs        map[int]func(model.SendState)
	nextSub     int
}

// NewStore returns an empty store.
func NewStore(cfg StoreConfig) *Store {
	cfg.defaults()
	return &Store{
		now:         cfg.Now,
		logger:      cfg.Logger,
		states:      map[model.Destination]model.SendState{},
		generations: map[model.Destination]uint64{},
		subs:        map[int]func(model.SendState){},
	}
}

// Begin starts a new submission generation for d.
func (s *Store) Begin(d model.Destination) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generations[d]++
	return s.generations[d]
}

// Publish sets the state of its destination if gen is the latest generation,
// it returns false when the state has been discarded.
func (s *Store) Publish(gen uint64, st model.SendState) bool {
	s.mu.Lock()
	if s.generations[st.Destination] != gen {
		s.mu.Unlock()
		s.logger.Warningf("Discarding stale %s state of %s (generation %d)", st.Status, st.Destination, gen)
		return false
	}
	s.states[st.Destination] = st
	subs := s.subscribers()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}

	return true
}

// Get returns the last state of d.
func (s *Store) Get(d model.Destination) (model.SendState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[d]
	return st, ok
}

// Uploading returns true if any destination has a submission in flight.
func (s *Store) Uploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.uploading()
}

func (s *Store) uploading() bool {
	for _, st := range s.states {
		if st.Status == model.SendStatusUploading {
			return true
		}
	}
	return false
}

// SetFileToSend targets a new file and clears the previous states. It's refused
// while a submission is in flight.
func (s *Store) SetFileToSend(path string) (model.FileToSend, error) {
	if path == "" {
		return model.FileToSend{}, fmt.Errorf("file path is required: %w", model.ErrNotValid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Checked in the same critical section as the reset, an uploading state
	// published in between would be lost.
	if s.uploading() {
		return model.FileToSend{}, fmt.Errorf("a submission is in progress: %w", model.ErrNotValid)
	}

	reqAt := s.now().UnixMilli()
	if reqAt <= s.lastReqAt {
		reqAt = s.lastReqAt + 1
	}
	s.lastReqAt = reqAt

	f := model.FileToSend{FilePath: path, RequestedAt: reqAt}
	s.file = &f
	s.states = map[model.Destination]model.SendState{}

	return f, nil
}

// FileToSend returns the currently targeted file.
func (s *Store) FileToSend() (model.FileToSend, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return model.FileToSend{}, false
	}
	return *s.file, true
}

// Subscribe registers fn to be called with every published state.
func (s *Store) Subscribe(fn func(model.SendState)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// subscribers must be called with the lock held.
func (s *Store) subscribers() []func(model.SendState) {
	subs := make([]func(model.SendState), 0, len(s.subs))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}
