package monopanel

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Registry selects panel profiles by name at runtime.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewRegistry returns a Registry holding profiles.
func NewRegistry(profiles ...*Profile) (*Registry, error) {
	r := &Registry{profiles: map[string]*Profile{}}
	for _, p := range profiles {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds p after validating it.
func (r *Registry) Register(p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.Name]; ok {
		return errors.Errorf("monopanel: profile %q already registered", p.Name)
	}
	r.profiles[p.Name] = p
	return nil
}

// Lookup returns the profile registered as name.
func (r *Registry) Lookup(name string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[name]
	if !ok {
		return nil, errors.Errorf("monopanel: unknown profile %q", name)
	}
	return p, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.profiles)
	sort.Strings(names)
	return names
}
