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

// ExpansionType selects which expansion operation to run against a node
type ExpansionType string

const (
	ExpandObjections ExpansionType = "objections"
	ExpandRefutation ExpansionType = "refutation"
	ExpandSynthesis  ExpansionType = "synthesis"
)

// ParseExpansionType converts a string into an ExpansionType
func ParseExpansionType(s string) (ExpansionType, error) {
	switch ExpansionType(s) {
	case ExpandObjections, ExpandRefutation, ExpandSynthesis:
		return ExpansionType(s), nil
	}
	return "", pkgerrors.NewValidationError("unknown expansion type: " + s)
}

// ExpansionService grows a complex by requesting structured content from the
// external generator and attaching the validated results as child nodes.
// All graph mutation goes through the aggregate; this service never performs
// persistence and never retries a failed generation.
type ExpansionService struct {
	registry  ports.ComplexRegistry
	generator ports.ContentGenerator
	genParams ports.GenerationParams
	logger    *zap.Logger
}

// NewExpansionService creates a new expansion service
func NewExpansionService(
	registry ports.ComplexRegistry,
	generator ports.ContentGenerator,
	genParams ports.GenerationParams,
	logger *zap.Logger,
) *ExpansionService {
	return &ExpansionService{
		registry:  registry,
		generator: generator,
		genParams: genParams,
		logger:    logger,
	}
}

// objectionsResponse is the expected generator shape for objection requests
type objectionsResponse struct {
	Objections []generatedNode `json:"objections"`
}

// ExpandNode runs one expansion operation against the given node and returns
// the ids of the newly inserted children. A node already mid-expansion is
// rejected with a conflict error rather than queued or merged. For explicit
// synthesis between two branches, targetID names the second node; when nil,
// synthesis is implicit against the point's strongest objection.
func (s *ExpansionService) ExpandNode(
	ctx context.Context,
	complexID valueobjects.ComplexID,
	nodeID valueobjects.NodeID,
	expansionType ExpansionType,
	targetID *valueobjects.NodeID,
) ([]valueobjects.NodeID, error) {
	complex, err := s.registry.Get(complexID)
	if err != nil {
		return nil, err
	}

	if err := complex.BeginExpansion(nodeID); err != nil {
		return nil, err
	}
	defer complex.EndExpansion(nodeID)

	var newIDs []valueobjects.NodeID
	switch expansionType {
	case ExpandObjections:
		newIDs, err = s.expandObjections(ctx, complex, nodeID)
	case ExpandRefutation:
		newIDs, err = s.expandRefutation(ctx, complex, nodeID)
	case ExpandSynthesis:
		newIDs, err = s.expandSynthesis(ctx, complex, nodeID, targetID)
	default:
		return nil, pkgerrors.NewValidationError("unknown expansion type: " + string(expansionType))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Expanded node",
		zap.String("complexID", complexID.String()),
		zap.String("nodeID", nodeID.String()),
		zap.String("expansionType", string(expansionType)),
		zap.Int("newNodes", len(newIDs)),
	)

	return newIDs, nil
}

// expandObjections requests one or more objections to a point; each becomes
// an objection child
func (s *ExpansionService) expandObjections(ctx context.Context, complex *aggregates.Complex, nodeID valueobjects.NodeID) ([]valueobjects.NodeID, error) {
	node, err := complex.GetNode(nodeID)
	if err != nil {
		return nil, err
	}
	if node.Type() != entities.TypePoint {
		return nil, pkgerrors.NewValidationError("objections can only be generated against a point")
	}

	path, err := complex.PathToNode(nodeID)
	if err != nil {
		return nil, err
	}

	raw, err := s.generator.Generate(ctx, objectionsPrompt(complex.CentralQuestion(), path, node), s.genParams)
	if err != nil {
		return nil, err
	}

	var resp objectionsResponse
	if err := decodeGeneratorResponse(raw, &resp); err != nil {
		return nil, err
	}
	if len(resp.Objections) == 0 {
		return nil, pkgerrors.NewGenerationContentError("generator returned no objections")
	}

	// Validate the whole batch before touching the graph; a bad item must not
	// leave earlier siblings behind.
	for _, item := range resp.Objections {
		if item.Content == "" {
			return nil, pkgerrors.NewGenerationContentError("objection item has no content")
		}
	}

	newIDs := make([]valueobjects.NodeID, 0, len(resp.Objections))
	for _, item := range resp.Objections {
		id, err := complex.AddNode(nodeID, entities.TypeObjection, item.Content, item.metadata())
		if err != nil {
			return newIDs, err
		}
		newIDs = append(newIDs, id)
	}
	return newIDs, nil
}

// expandRefutation requests a single refutation to an objection, giving the
// generator both the objection and its parent point for context
func (s *ExpansionService) expandRefutation(ctx context.Context, complex *aggregates.Complex, nodeID valueobjects.NodeID) ([]valueobjects.NodeID, error) {
	node, err := complex.GetNode(nodeID)
	if err != nil {
		return nil, err
	}
	if node.Type() != entities.TypeObjection {
		return nil, pkgerrors.NewValidationError("refutations can only be generated against an objection")
	}

	path, err := complex.PathToNode(nodeID)
	if err != nil {
		return nil, err
	}
	parentPoint := path[len(path)-2]

	raw, err := s.generator.Generate(ctx, refutationPrompt(complex.CentralQuestion(), path, node, parentPoint), s.genParams)
	if err != nil {
		return nil, err
	}

	var item generatedNode
	if err := decodeGeneratorResponse(raw, &item); err != nil {
		return nil, err
	}
	if item.Content == "" {
		return nil, pkgerrors.NewGenerationContentError("refutation response has no content")
	}

	id, err := complex.AddNode(nodeID, entities.TypeRefutation, item.Content, item.metadata())
	if err != nil {
		return nil, err
	}
	return []valueobjects.NodeID{id}, nil
}

// expandSynthesis produces one synthesis node. Explicit mode reconciles the
// node with targetID and places the result under their common parent;
// implicit mode reconciles a point with its strongest objection child and
// places the result directly under the point.
func (s *ExpansionService) expandSynthesis(ctx context.Context, complex *aggregates.Complex, nodeID valueobjects.NodeID, targetID *valueobjects.NodeID) ([]valueobjects.NodeID, error) {
	nodeA, err := complex.GetNode(nodeID)
	if err != nil {
		return nil, err
	}

	var nodeB *entities.Node
	var parentID valueobjects.NodeID

	if targetID != nil {
		nodeB, err = complex.GetNode(*targetID)
		if err != nil {
			return nil, err
		}
		parentID, err = complex.CommonParent(nodeID, *targetID)
		if err != nil {
			return nil, err
		}
	} else {
		if nodeA.Type() != entities.TypePoint {
			return nil, pkgerrors.NewValidationError("implicit synthesis can only start from a point")
		}
		nodeB, err = complex.StrongestObjection(nodeID)
		if err != nil {
			return nil, err
		}
		parentID = nodeID
	}

	raw, err := s.generator.Generate(ctx, synthesisPrompt(complex.CentralQuestion(), nodeA, nodeB), s.genParams)
	if err != nil {
		return nil, err
	}

	var item generatedNode
	if err := decodeGeneratorResponse(raw, &item); err != nil {
		return nil, err
	}
	if item.Content == "" {
		return nil, pkgerrors.NewGenerationContentError("synthesis response has no content")
	}

	id, err := complex.AddNode(parentID, entities.TypeSynthesis, item.Content, item.metadata())
	if err != nil {
		return nil, err
	}
	return []valueobjects.NodeID{id}, nil
}
