package ports

import (
	"context"

	"inquiry-backend/domain/core/aggregates"
	"inquiry-backend/domain/core/valueobjects"
)

// ComplexRegistry is the process-lifetime store of active complexes.
// It is not durable: durability is delegated to the ComplexStore via the
// serialized snapshot form.
type ComplexRegistry interface {
	Put(complex *aggregates.Complex) error
	Get(id valueobjects.ComplexID) (*aggregates.Complex, error)
	List() []*aggregates.Complex
	Delete(id valueobjects.ComplexID) error
}

// ComplexStore is the external persistence collaborator. Only the serialized
// snapshot form ever crosses this boundary.
type ComplexStore interface {
	Save(ctx context.Context, snapshot *aggregates.ComplexSnapshot) error
	Load(ctx context.Context, complexID string) (*aggregates.ComplexSnapshot, error)
}
