package services

import (
	"context"

	"go.uber.org/zap"

	"inquiry-backend/application/ports"
	"inquiry-backend/domain/core/aggregates"
	"inquiry-backend/domain/core/entities"
	"inquiry-backend/domain/core/valueobjects"
	pkgerrors "inquiry-backend/pkg/errors"
)

// ComplexService manages the lifecycle of inquiry complexes: creation,
// registry access, snapshot import/export and pushing snapshots to the
// durable store. Mutating services (expansion, planner) never persist;
// this service is the caller responsible for durability.
type ComplexService struct {
	registry  ports.ComplexRegistry
	store     ports.ComplexStore
	generator ports.ContentGenerator
	genParams ports.GenerationParams
	logger    *zap.Logger
}

// NewComplexService creates a new complex service
func NewComplexService(
	registry ports.ComplexRegistry,
	store ports.ComplexStore,
	generator ports.ContentGenerator,
	genParams ports.GenerationParams,
	logger *zap.Logger,
) *ComplexService {
	return &ComplexService{
		registry:  registry,
		store:     store,
		generator: generator,
		genParams: genParams,
		logger:    logger,
	}
}

// CreateComplex creates a new complex seeded with the central question.
// When centralContent is empty the generator is asked to state the opening
// position; otherwise the provided content is used as-is.
func (s *ComplexService) CreateComplex(ctx context.Context, question, centralContent string) (*aggregates.Complex, error) {
	metadata := entities.Metadata{}

	if centralContent == "" {
		raw, err := s.generator.Generate(ctx, centralPointPrompt(question), s.genParams)
		if err != nil {
			return nil, err
		}

		var item generatedNode
		if err := decodeGeneratorResponse(raw, &item); err != nil {
			return nil, err
		}
		if item.Content == "" {
			return nil, pkgerrors.NewGenerationContentError("central point response has no content")
		}

		centralContent = item.Content
		metadata = item.metadata()
	}

	complex, err := aggregates.NewComplex(question, centralContent, metadata)
	if err != nil {
		return nil, err
	}

	if err := s.registry.Put(complex); err != nil {
		return nil, err
	}

	s.logger.Info("Created complex",
		zap.String("complexID", complex.ID().String()),
		zap.String("question", question),
	)

	return complex, nil
}

// GetComplex retrieves a complex by id
func (s *ComplexService) GetComplex(id valueobjects.ComplexID) (*aggregates.Complex, error) {
	return s.registry.Get(id)
}

// ListComplexes returns all active complexes
func (s *ComplexService) ListComplexes() []*aggregates.Complex {
	return s.registry.List()
}

// DeleteComplex removes a complex from the registry. Node-level deletion
// does not exist; the whole complex goes at once.
func (s *ComplexService) DeleteComplex(id valueobjects.ComplexID) error {
	if err := s.registry.Delete(id); err != nil {
		return err
	}
	s.logger.Info("Deleted complex", zap.String("complexID", id.String()))
	return nil
}

// Export serializes a registered complex into its snapshot form
func (s *ComplexService) Export(id valueobjects.ComplexID) (*aggregates.ComplexSnapshot, error) {
	complex, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return complex.Snapshot(), nil
}

// Import reconstructs a complex from its snapshot form and registers it
func (s *ComplexService) Import(snapshot *aggregates.ComplexSnapshot) (*aggregates.Complex, error) {
	complex, err := aggregates.ReconstructComplex(snapshot)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Put(complex); err != nil {
		return nil, err
	}
	s.logger.Info("Imported complex",
		zap.String("complexID", complex.ID().String()),
		zap.Int("nodeCount", complex.NodeCount()),
	)
	return complex, nil
}

// SaveSnapshot pushes the current serialized form of a complex to the
// durable store
func (s *ComplexService) SaveSnapshot(ctx context.Context, id valueobjects.ComplexID) error {
	snapshot, err := s.Export(id)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, snapshot); err != nil {
		return pkgerrors.Wrap(err, "failed to save complex snapshot")
	}
	s.logger.Info("Saved complex snapshot",
		zap.String("complexID", id.String()),
		zap.Int("nodeCount", len(snapshot.Nodes)),
	)
	return nil
}

// RestoreSnapshot loads a snapshot from the durable store and registers the
// reconstructed complex
func (s *ComplexService) RestoreSnapshot(ctx context.Context, complexID string) (*aggregates.Complex, error) {
	snapshot, err := s.store.Load(ctx, complexID)
	if err != nil {
		return nil, err
	}
	return s.Import(snapshot)
}
