package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inquiry-backend/domain/core/entities"
	pkgerrors "inquiry-backend/pkg/errors"
)

func TestCanAttach(t *testing.T) {
	tests := []struct {
		name   string
		parent entities.NodeType
		child  entities.NodeType
		want   bool
	}{
		{"objection under point", entities.TypePoint, entities.TypeObjection, true},
		{"synthesis under point", entities.TypePoint, entities.TypeSynthesis, true},
		{"refutation under objection", entities.TypeObjection, entities.TypeRefutation, true},
		{"synthesis under objection", entities.TypeObjection, entities.TypeSynthesis, true},
		{"point under point", entities.TypePoint, entities.TypePoint, false},
		{"refutation under point", entities.TypePoint, entities.TypeRefutation, false},
		{"objection under objection", entities.TypeObjection, entities.TypeObjection, false},
		{"anything under refutation", entities.TypeRefutation, entities.TypeSynthesis, false},
		{"anything under synthesis", entities.TypeSynthesis, entities.TypeObjection, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAttach(tt.parent, tt.child))
		})
	}
}

func TestValidateTransition_IllegalIsValidationError(t *testing.T) {
	err := ValidateTransition(entities.TypeRefutation, entities.TypeObjection)

	assert.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestValidateTransition_LegalReturnsNil(t *testing.T) {
	assert.NoError(t, ValidateTransition(entities.TypePoint, entities.TypeObjection))
	assert.NoError(t, ValidateTransition(entities.TypeObjection, entities.TypeSynthesis))
}
