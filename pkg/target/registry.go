package target

import (
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Env carries the session state providers resolve lines against.
type Env struct {
	// Cwd is the directory relative paths are joined with.
	Cwd string

	// StartBufferPath is the file open when the finder started. Providers
	// that list lines of one buffer resolve to it.
	StartBufferPath string

	// Runtimepath is the editor runtimepath searched for help files.
	Runtimepath string

	// Icons is true when result lines carry a leading file-type glyph.
	Icons bool
}

// Resolved is a target plus the line text seen in the search result, when
// the provider reports one.
type Resolved struct {
	Target Target

	// ObservedLine is the matched line as the search index saw it. It is
	// nil for providers whose lines carry no content.
	ObservedLine *string
}

// ResolveFunc turns a raw line into a target. It reports false when the
// line does not have the provider's format.
type ResolveFunc func(line string, env Env) (Resolved, bool)

// Registry maps provider ids to resolvers. Ids missing from the registry
// always fail to resolve. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]ResolveFunc
}

// NewRegistry returns a registry with no providers.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]ResolveFunc)}
}

// DefaultRegistry returns a registry with every built-in provider.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	registerBuiltins(reg)
	return reg
}

// Register adds or replaces the resolver for one or more provider ids.
func (r *Registry) Register(fn ResolveFunc, providers ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range providers {
		r.resolvers[id] = fn
	}
}

// Has reports whether provider has a resolver.
func (r *Registry) Has(provider string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.resolvers[provider]
	return ok
}

// Providers returns the registered provider ids in sorted order.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	ids := lo.Keys(r.resolvers)
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Resolve parses line with the resolver registered for provider. Failures
// are always a *ParseError naming both the provider and the line.
func (r *Registry) Resolve(provider, line string, env Env) (Resolved, error) {
	r.mu.RLock()
	fn, ok := r.resolvers[provider]
	r.mu.RUnlock()

	if !ok {
		return Resolved{}, &ParseError{Provider: provider, Line: line, Err: fmt.Errorf("%w: %s", ErrUnknownProvider, provider)}
	}

	raw := line
	if env.Icons {
		raw = StripIcon(raw)
	}

	resolved, ok := fn(raw, env)
	if !ok {
		return Resolved{}, &ParseError{Provider: provider, Line: line, Err: ErrNoMatch}
	}
	if !resolved.Target.IsValid() {
		return Resolved{}, &ParseError{Provider: provider, Line: line, Err: ErrNoPath}
	}

	return resolved, nil
}
