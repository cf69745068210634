package authdash

import (
	"errors"
	"sync"
)

// ErrInFlight is returned when a form of the same session is already being
// submitted
var ErrInFlight = errors.New("A request is already in progress")

type inflightKey struct {
	sid  string
	form string
}

// InFlight tracks which (session, form) pairs have a request outstanding
type InFlight struct {
	mu   sync.Mutex
	busy map[inflightKey]struct{}
}

// NewInFlight creates an empty tracker
func NewInFlight() *InFlight {
	return &InFlight{busy: map[inflightKey]struct{}{}}
}

// Acquire marks form as busy for sid. The returned release must be called
// once the request is done. ErrInFlight is returned if it is already busy.
func (f *InFlight) Acquire(sid, form string) (release func(), err error) {
	key := inflightKey{sid, form}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy == nil {
		f.busy = map[inflightKey]struct{}{}
	}
	if _, ok := f.busy[key]; ok {
		return nil, ErrInFlight
	}
	f.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.busy, key)
			f.mu.Unlock()
		})
	}, nil
}

// Busy reports whether form has a request outstanding for sid
func (f *InFlight) Busy(sid, form string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.busy[inflightKey{sid, form}]
	return ok
}
