package service

import (
	"fmt"
	"sort"
	"sync"

	"github.com/olusolaa/helm-guard/internal/core/ports"
	"github.com/olusolaa/helm-guard/internal/errors"
)

type ComponentRegistry struct {
	mu               sync.RWMutex
	desiredProviders map[string]ports.DesiredStateProvider
	liveProviders    map[string]ports.LiveStateProvider
	reporters        map[string]ports.Reporter
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		desiredProviders: make(map[string]ports.DesiredStateProvider),
		liveProviders:    make(map[string]ports.LiveStateProvider),
		reporters:        make(map[string]ports.Reporter),
	}
}

func (r *ComponentRegistry) RegisterDesiredProvider(provider ports.DesiredStateProvider) error {
	if provider == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil desired state provider")
	}
	providerType := provider.Type()
	if providerType == "" {
		return errors.New(errors.CodeInternal, "desired state provider type cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.desiredProviders[providerType]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("desired state provider type '%s' already registered", providerType))
	}
	r.desiredProviders[providerType] = provider
	return nil
}

func (r *ComponentRegistry) GetDesiredProvider(providerType string) (ports.DesiredStateProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.desiredProviders[providerType]
	if !exists {
		return nil, errors.New(errors.CodeConfigValidation, fmt.Sprintf("desired state provider type '%s' not found", providerType))
	}
	return provider, nil
}

func (r *ComponentRegistry) RegisterLiveProvider(provider ports.LiveStateProvider) error {
	if provider == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil live state provider")
	}
	providerType := provider.Type()
	if providerType == "" {
		return errors.New(errors.CodeInternal, "live state provider type cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.liveProviders[providerType]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("live state provider type '%s' already registered", providerType))
	}
	r.liveProviders[providerType] = provider
	return nil
}

func (r *ComponentRegistry) GetLiveProvider(providerType string) (ports.LiveStateProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.liveProviders[providerType]
	if !exists {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("live state provider type '%s' not found", providerType),
			"Use --live-provider oc or --live-provider kube.")
	}
	return provider, nil
}

func (r *ComponentRegistry) RegisterReporter(reporter ports.Reporter) error {
	if reporter == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil reporter")
	}
	reporterType := reporter.Type()
	if reporterType == "" {
		return errors.New(errors.CodeInternal, "reporter type cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reporters[reporterType]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("reporter type '%s' already registered", reporterType))
	}
	r.reporters[reporterType] = reporter
	return nil
}

// Reporters returns every registered reporter ordered by type.
func (r *ComponentRegistry) Reporters() []ports.Reporter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.reporters))
	for t := range r.reporters {
		types = append(types, t)
	}
	sort.Strings(types)

	out := make([]ports.Reporter, 0, len(types))
	for _, t := range types {
		out = append(out, r.reporters[t])
	}
	return out
}
