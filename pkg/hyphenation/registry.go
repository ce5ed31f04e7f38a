package hyphenation

import "sync"

// Registry caches loaded corpora. Failed loads are not cached.
type Registry struct {
	loader *Loader
	mu     sync.Mutex
	dicts  map[Language]*Standard
}

// NewRegistry creates a registry on top of loader.
func NewRegistry(loader *Loader) *Registry {
	if loader == nil {
		loader = defaultLoader
	}
	return &Registry{
		loader: loader,
		dicts:  make(map[Language]*Standard),
	}
}

// Get returns the corpus for lang, loading it on first use.
func (r *Registry) Get(lang Language) (*Standard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if dict, ok := r.dicts[lang]; ok {
		return dict, nil
	}
	dict, err := r.loader.Load(lang)
	if err != nil {
		return nil, err
	}
	r.dicts[lang] = dict
	return dict, nil
}

// Loader returns the underlying loader.
func (r *Registry) Loader() *Loader {
	return r.loader
}

// Len returns the number of cached corpora.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dicts)
}
