// Package grammar maps file extensions to tree-sitter grammars and the
// queries peek runs against them.
package grammar

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// Spec describes one tree-sitter language.
type Spec struct {
	// Name is the language name, for example "go".
	Name string

	// Language is the compiled grammar.
	Language *sitter.Language

	// ContextQuery captures structural elements such as functions and
	// types. It must use @context for the element and may use @name for its
	// identifier.
	ContextQuery string

	// Extensions lists file extensions without the leading dot.
	Extensions []string
}

// Registry maps extensions to language specs. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byExt map[string]*Spec
	names map[string]*Spec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt: make(map[string]*Spec),
		names: make(map[string]*Spec),
	}
}

// Register adds spec under its name and extensions.
func (r *Registry) Register(spec *Spec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.names[spec.Name] = spec
	for _, ext := range spec.Extensions {
		r.byExt[ext] = spec
	}
}

// ForExtension returns the spec registered for ext (without dot).
func (r *Registry) ForExtension(ext string) (*Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.byExt[strings.ToLower(ext)]
	return spec, ok
}

// ForPath returns the spec for the extension of path.
func (r *Registry) ForPath(path string) (*Spec, bool) {
	return r.ForExtension(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Names returns the registered language names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

//nolint:gochecknoglobals // Built once on first use.
var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the registry holding every built-in grammar.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		registerGo(defaultRegistry)
		registerPython(defaultRegistry)
		registerJavaScript(defaultRegistry)
		registerTypeScript(defaultRegistry)
		registerRust(defaultRegistry)
	})
	return defaultRegistry
}
