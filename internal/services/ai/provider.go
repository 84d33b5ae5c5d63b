package ai

import (
	"context"
	"time"

	"github.com/planwise/planwise/internal/models"
)

// AgendaSuggester is the interface for agenda suggestion providers
type AgendaSuggester interface {
	// SuggestAgenda produces a daily agenda summary for the given work
	// items, bucketing each into an urgency/importance quadrant.
	SuggestAgenda(ctx context.Context, items []models.WorkItem, date time.Time) (*models.Agenda, error)
}

// ProviderFactory creates an agenda suggester based on the provider type
type ProviderFactory func(config map[string]string) (AgendaSuggester, error)

// ProviderRegistry stores available agenda suggestion providers
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ProviderFactory),
	}
}

// Register registers a provider factory
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// GetProvider gets a provider by name
func (r *ProviderRegistry) GetProvider(name string, config map[string]string) (AgendaSuggester, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}

	return factory(config)
}

// ErrProviderNotFound is returned when a provider is not found
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "agenda provider not found: " + e.Name
}
