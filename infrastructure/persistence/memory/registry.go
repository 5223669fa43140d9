// Package memory provides the in-process registry of live complexes.
package memory

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"inquiry-backend/domain/core/aggregates"
	"inquiry-backend/domain/core/valueobjects"
	pkgerrors "inquiry-backend/pkg/errors"
)

// ComplexRegistry implements ports.ComplexRegistry with a mutex-guarded map.
// The registry holds live aggregates, not snapshots; durability is the
// store's job.
type ComplexRegistry struct {
	mu        sync.RWMutex
	complexes map[valueobjects.ComplexID]*aggregates.Complex
	logger    *zap.Logger
}

// NewComplexRegistry creates an empty registry
func NewComplexRegistry(logger *zap.Logger) *ComplexRegistry {
	return &ComplexRegistry{
		complexes: make(map[valueobjects.ComplexID]*aggregates.Complex),
		logger:    logger,
	}
}

// Put registers a complex, replacing any previous entry with the same id
func (r *ComplexRegistry) Put(complex *aggregates.Complex) error {
	if complex == nil {
		return pkgerrors.NewValidationError("complex cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.complexes[complex.ID()] = complex
	return nil
}

// Get returns the complex with the given id
func (r *ComplexRegistry) Get(id valueobjects.ComplexID) (*aggregates.Complex, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	complex, ok := r.complexes[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("complex")
	}
	return complex, nil
}

// List returns all registered complexes, ordered by id for stable output
func (r *ComplexRegistry) List() []*aggregates.Complex {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*aggregates.Complex, 0, len(r.complexes))
	for _, complex := range r.complexes {
		result = append(result, complex)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID().String() < result[j].ID().String()
	})
	return result
}

// Delete removes a complex from the registry
func (r *ComplexRegistry) Delete(id valueobjects.ComplexID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.complexes[id]; !ok {
		return pkgerrors.NewNotFoundError("complex")
	}
	delete(r.complexes, id)
	return nil
}
