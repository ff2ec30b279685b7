package providers

import (
	"sync"

	"github.com/SscSPs/fx_engine/internal/core/domain"
)

// Registry holds the default provider plus optional per-source providers.
// It is meant to be populated once at start-up and then only read.
type Registry struct {
	mu       sync.RWMutex
	fallback RateProvider
	bySource map[domain.RateSource]RateProvider
}

// NewRegistry creates a registry whose default is def (which may be nil).
func NewRegistry(def RateProvider) *Registry {
	return &Registry{fallback: def, bySource: make(map[domain.RateSource]RateProvider)}
}

// SetDefault replaces the default provider.
func (r *Registry) SetDefault(p RateProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = p
}

// Default returns the default provider, if any.
func (r *Registry) Default() (RateProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback, r.fallback != nil
}

// Register binds p to source for entities that prefer that source.
func (r *Registry) Register(source domain.RateSource, p RateProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySource[source] = p
}

// ForSource returns the provider registered for source, falling back to the
// default provider.
func (r *Registry) ForSource(source domain.RateSource) (RateProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.bySource[source]; ok && source != "" {
		return p, true
	}
	return r.fallback, r.fallback != nil
}

// Resolve picks the provider for opts: explicit provider, then source, then default.
func (r *Registry) Resolve(opts LookupOptions) (RateProvider, bool) {
	if opts.Provider != nil {
		return opts.Provider, true
	}
	if r == nil {
		return nil, false
	}
	return r.ForSource(opts.Source)
}

var globalRegistry = NewRegistry(nil)

// SetDefaultProvider registers p as the process-wide default. Call it once
// during start-up, before any lookups run.
func SetDefaultProvider(p RateProvider) {
	globalRegistry.SetDefault(p)
}

// DefaultProvider returns the process-wide default provider, if registered.
func DefaultProvider() (RateProvider, bool) {
	return globalRegistry.Default()
}

// GlobalRegistry returns the process-wide registry.
func GlobalRegistry() *Registry {
	return globalRegistry
}
