package validators

import (
	"fmt"

	"inquiry-backend/domain/core/entities"
	pkgerrors "inquiry-backend/pkg/errors"
)

// legalTransitions is the closed set of permitted (parent, child) type pairs.
// Objections challenge points, refutations answer objections, and syntheses
// reconcile under either a point or an objection.
var legalTransitions = map[entities.NodeType]map[entities.NodeType]bool{
	entities.TypePoint: {
		entities.TypeObjection: true,
		entities.TypeSynthesis: true,
	},
	entities.TypeObjection: {
		entities.TypeRefutation: true,
		entities.TypeSynthesis:  true,
	},
}

// CanAttach reports whether a child of the given type may be attached to a
// parent of the given type
func CanAttach(parentType, childType entities.NodeType) bool {
	return legalTransitions[parentType][childType]
}

// ValidateTransition returns a validation error for an illegal
// (parent, child) type combination
func ValidateTransition(parentType, childType entities.NodeType) error {
	if !CanAttach(parentType, childType) {
		return pkgerrors.NewValidationError(
			fmt.Sprintf("cannot attach %s node to %s parent", childType, parentType),
		)
	}
	return nil
}
