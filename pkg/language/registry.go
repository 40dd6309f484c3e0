package language

import (
	"cmp"
	"slices"
	"strings"
	"sync"
)

// Registry holds compiled languages keyed by ID, with alias and extension
// lookup.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]*Language
	aliases map[string]string // alias -> canonical ID
	byExt   map[string]string // ".ts" -> canonical ID
}

// NewRegistry creates an empty language registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]*Language),
		aliases: make(map[string]string),
		byExt:   make(map[string]string),
	}
}

// Register adds a language. An existing language with the same ID is
// replaced; its aliases and extensions are re-pointed.
func (r *Registry) Register(lang *Language) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := lang.ID()
	r.byID[id] = lang
	for _, a := range lang.Aliases() {
		r.aliases[strings.ToLower(a)] = id
	}
	for _, ext := range lang.Extensions() {
		r.byExt[strings.ToLower(ext)] = id
	}
}

// Clone returns an independent copy of the registry. Languages are
// immutable once compiled, so the copy shares them.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := NewRegistry()
	for id, lang := range r.byID {
		out.byID[id] = lang
	}
	for alias, id := range r.aliases {
		out.aliases[alias] = id
	}
	for ext, id := range r.byExt {
		out.byExt[ext] = id
	}
	return out
}

// Lookup resolves a key (ID or alias, case-insensitive) to a language.
func (r *Registry) Lookup(key string) (*Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	k := strings.ToLower(key)
	if lang, ok := r.byID[k]; ok {
		return lang, true
	}
	if id, ok := r.aliases[k]; ok {
		if lang, ok := r.byID[id]; ok {
			return lang, true
		}
	}
	return nil, false
}

// LookupExtension resolves a file extension (with or without the leading
// dot) to a language.
func (r *Registry) LookupExtension(ext string) (*Language, bool) {
	if ext == "" {
		return nil, false
	}
	if ext[0] != '.' {
		ext = "." + ext
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.byExt[strings.ToLower(ext)]; ok {
		if lang, ok := r.byID[id]; ok {
			return lang, true
		}
	}
	return nil, false
}

// Languages returns all registered languages sorted by ID.
func (r *Registry) Languages() []*Language {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Language, 0, len(r.byID))
	for _, lang := range r.byID {
		out = append(out, lang)
	}
	slices.SortFunc(out, func(a, b *Language) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return out
}

// IDs returns all registered language IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byID))
	for id := range r.byID {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Extensions returns every extension claimed by any registered language,
// sorted, without duplicates.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

// DefaultRegistry is the global registry for built-in languages.
// Builtins register themselves during init().
//
//nolint:gochecknoglobals // Global registry is intentional for language registration
var DefaultRegistry = NewRegistry()
