package indicator

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mohamedkhairy/stock-analyst/internal/models"
)

// CalculatorFactory creates a fresh calculator for one computation
type CalculatorFactory func() (Calculator, error)

// Registry maps indicator ids to calculator factories
type Registry struct {
	mu        sync.RWMutex
	factories map[models.IndicatorID]CalculatorFactory
}

// NewRegistry creates an empty indicator registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[models.IndicatorID]CalculatorFactory),
	}
}

// DefaultRegistry returns a registry holding the full indicator vocabulary
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(models.IndicatorSMA20, func() (Calculator, error) {
		return NewSMA(models.DefaultWindow)
	})
	_ = r.Register(models.IndicatorEMA20, func() (Calculator, error) {
		return NewEMA(models.DefaultWindow)
	})
	_ = r.Register(models.IndicatorBollinger20, func() (Calculator, error) {
		return NewBollinger(models.DefaultWindow, 2.0)
	})
	_ = r.Register(models.IndicatorVWAP, func() (Calculator, error) {
		return NewVWAP(), nil
	})
	return r
}

// Register registers a factory for an indicator id
func (r *Registry) Register(id models.IndicatorID, factory CalculatorFactory) error {
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}
	if id == "" {
		return fmt.Errorf("indicator id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[id]; exists {
		return fmt.Errorf("indicator %q already registered", id)
	}

	r.factories[id] = factory
	return nil
}

// Create builds a new calculator for id
func (r *Registry) Create(id models.IndicatorID) (Calculator, error) {
	r.mu.RLock()
	factory, exists := r.factories[id]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownIndicator, id)
	}
	return factory()
}

// Has reports whether id is registered
func (r *Registry) Has(id models.IndicatorID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[id]
	return exists
}

// List returns all registered ids, sorted
func (r *Registry) List() []models.IndicatorID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]models.IndicatorID, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Unregister removes an indicator from the registry
func (r *Registry) Unregister(id models.IndicatorID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[id]; !exists {
		return fmt.Errorf("%w: %q", models.ErrUnknownIndicator, id)
	}

	delete(r.factories, id)
	return nil
}
