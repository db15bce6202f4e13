// Package jobs keeps track of background operations that are in flight so
// identical work is never started twice at the same time.
package jobs

import (
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ID identifies a background operation. Equal commands hash to equal IDs.
type ID uint64

// IDFor derives the identifier of the operation described by parts, usually
// the shell command that performs it.
func IDFor(parts ...string) ID {
	return ID(xxhash.Sum64String(strings.Join(parts, "\x00")))
}

// Registry is a set of reserved job IDs. The zero value is ready to use and
// safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	inFlight map[ID]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{inFlight: make(map[ID]struct{})}
}

// Reserve marks id as in flight. When id is already reserved it returns
// false and a nil release. Otherwise the caller owns the reservation until
// it calls release; calling release more than once is harmless.
func (r *Registry) Reserve(id ID) (func(), bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inFlight == nil {
		r.inFlight = make(map[ID]struct{})
	}
	if _, busy := r.inFlight[id]; busy {
		return nil, false
	}
	r.inFlight[id] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() { r.unreserve(id) })
	}, true
}

// InFlight reports whether id is currently reserved.
func (r *Registry) InFlight(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, busy := r.inFlight[id]
	return busy
}

func (r *Registry) unreserve(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.inFlight, id)
}
