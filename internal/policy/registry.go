package policy

import (
	"fmt"
	"sort"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// Registry holds all protection profiles.
type Registry struct {
	profiles map[string]ProtectionProfile
}

// NewRegistry creates a registry with all default profiles.
func NewRegistry() *Registry {
	r := &Registry{
		profiles: make(map[string]ProtectionProfile),
	}

	// Register default profiles
	r.Register(NewExamProfile())
	r.Register(NewPracticeProfile())

	return r
}

// NewRegistryWithProfiles creates a registry with custom profiles (for testing).
func NewRegistryWithProfiles(profiles ...ProtectionProfile) *Registry {
	r := &Registry{
		profiles: make(map[string]ProtectionProfile),
	}
	for _, p := range profiles {
		r.Register(p)
	}
	return r
}

// Register adds a profile to the registry.
func (r *Registry) Register(p ProtectionProfile) {
	r.profiles[p.ID()] = p
}

// Get returns a profile by ID.
func (r *Registry) Get(id string) (ProtectionProfile, bool) {
	p, ok := r.profiles[id]
	return p, ok
}

// GetAll returns all registered profiles sorted by ID.
func (r *Registry) GetAll() []ProtectionProfile {
	result := make([]ProtectionProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}

// List returns all profile IDs, sorted.
func (r *Registry) List() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve returns the domain profile for id.
func (r *Registry) Resolve(id string) (domain.Profile, error) {
	p, ok := r.Get(id)
	if !ok {
		return domain.Profile{}, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, id)
	}
	return ToProfile(p), nil
}
