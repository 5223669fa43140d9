package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inquiry-backend/application/ports"
	"inquiry-backend/domain/core/aggregates"
	"inquiry-backend/domain/core/entities"
	"inquiry-backend/infrastructure/persistence/memory"
	pkgerrors "inquiry-backend/pkg/errors"
)

func newExpansionFixture(t *testing.T, gen *stubGenerator) (*ExpansionService, ports.ComplexRegistry, *aggregates.Complex) {
	t.Helper()
	logger := zap.NewNop()
	registry := memory.NewComplexRegistry(logger)

	complex, err := aggregates.NewComplex("Is X true?", "X is true.", entities.Metadata{Strength: 0.8})
	require.NoError(t, err)
	require.NoError(t, registry.Put(complex))

	return NewExpansionService(registry, gen, testGenParams, logger), registry, complex
}

func TestExpansionService_ExpandObjections(t *testing.T) {
	// Arrange
	gen := &stubGenerator{responses: []string{
		`{"objections": [{"content": "But Y", "strength": 0.5}, {"content": "Also Z", "strength": 0.6}]}`,
	}}
	svc, _, complex := newExpansionFixture(t, gen)

	// Act
	newIDs, err := svc.ExpandNode(context.Background(), complex.ID(), complex.CentralPointID(), ExpandObjections, nil)

	// Assert
	require.NoError(t, err)
	require.Len(t, newIDs, 2)
	assert.Equal(t, 3, complex.NodeCount())
	assert.Equal(t, 1, complex.MaxDepth())

	first, err := complex.GetNode(newIDs[0])
	require.NoError(t, err)
	assert.Equal(t, entities.TypeObjection, first.Type())
	assert.Equal(t, "But Y", first.Content())
	assert.Equal(t, 0.5, first.Strength())
	assert.Equal(t, 1, first.Depth())

	// The expansion flag must be released.
	assert.NoError(t, complex.BeginExpansion(complex.CentralPointID()))
}

func TestExpansionService_ExpandObjections_WrongNodeType(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`{"objections": [{"content": "But Y", "strength": 0.5}]}`,
	}}
	svc, _, complex := newExpansionFixture(t, gen)

	objID, err := complex.AddNode(complex.CentralPointID(), entities.TypeObjection, "but", entities.Metadata{})
	require.NoError(t, err)

	_, err = svc.ExpandNode(context.Background(), complex.ID(), objID, ExpandObjections, nil)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	// The generator must not have been called for an ineligible node.
	assert.Equal(t, 0, gen.callCount())
}

func TestExpansionService_ExpandObjections_EmptyList(t *testing.T) {
	gen := &stubGenerator{responses: []string{`{"objections": []}`}}
	svc, _, complex := newExpansionFixture(t, gen)

	_, err := svc.ExpandNode(context.Background(), complex.ID(), complex.CentralPointID(), ExpandObjections, nil)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsGenerationContent(err))
	assert.Equal(t, 1, complex.NodeCount())
}

func TestExpansionService_ExpandObjections_EmptyItemLeavesGraphUntouched(t *testing.T) {
	// A valid first item must not be inserted when a later item is bad; the
	// batch is all-or-nothing.
	gen := &stubGenerator{responses: []string{
		`{"objections": [{"content": "But Y", "strength": 0.5}, {"content": "", "strength": 0.6}]}`,
	}}
	svc, _, complex := newExpansionFixture(t, gen)

	_, err := svc.ExpandNode(context.Background(), complex.ID(), complex.CentralPointID(), ExpandObjections, nil)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsGenerationContent(err))
	assert.Equal(t, 1, complex.NodeCount())

	central, err := complex.GetNode(complex.CentralPointID())
	require.NoError(t, err)
	assert.False(t, central.HasChildren())

	// The node is expandable again after the rejection.
	assert.NoError(t, complex.BeginExpansion(complex.CentralPointID()))
}

func TestExpansionService_ExpandRefutation(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`{"content": "Y fails because of W.", "strength": 0.7, "reasoning": "W undercuts Y"}`,
	}}
	svc, _, complex := newExpansionFixture(t, gen)

	objID, err := complex.AddNode(complex.CentralPointID(), entities.TypeObjection, "But Y", entities.Metadata{Strength: 0.5})
	require.NoError(t, err)

	newIDs, err := svc.ExpandNode(context.Background(), complex.ID(), objID, ExpandRefutation, nil)

	require.NoError(t, err)
	require.Len(t, newIDs, 1)

	ref, err := complex.GetNode(newIDs[0])
	require.NoError(t, err)
	assert.Equal(t, entities.TypeRefutation, ref.Type())
	assert.True(t, ref.ParentID().Equals(objID))
	assert.Equal(t, 2, ref.Depth())
	assert.Equal(t, "W undercuts Y", ref.Extra()["reasoning"])
}

func TestExpansionService_ExpandRefutation_OnPointRejected(t *testing.T) {
	gen := &stubGenerator{}
	svc, _, complex := newExpansionFixture(t, gen)

	_, err := svc.ExpandNode(context.Background(), complex.ID(), complex.CentralPointID(), ExpandRefutation, nil)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestExpansionService_ImplicitSynthesis_UsesStrongestObjection(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`{"content": "Both sides capture part of it.", "strength": 0.9, "newInsight": "scope split"}`,
	}}
	svc, _, complex := newExpansionFixture(t, gen)

	_, err := complex.AddNode(complex.CentralPointID(), entities.TypeObjection, "weak objection", entities.Metadata{Strength: 0.2})
	require.NoError(t, err)
	_, err = complex.AddNode(complex.CentralPointID(), entities.TypeObjection, "strong objection", entities.Metadata{Strength: 0.9})
	require.NoError(t, err)

	newIDs, err := svc.ExpandNode(context.Background(), complex.ID(), complex.CentralPointID(), ExpandSynthesis, nil)

	require.NoError(t, err)
	require.Len(t, newIDs, 1)

	syn, err := complex.GetNode(newIDs[0])
	require.NoError(t, err)
	assert.Equal(t, entities.TypeSynthesis, syn.Type())
	// Implicit synthesis hangs off the point itself.
	assert.True(t, syn.ParentID().Equals(complex.CentralPointID()))

	// The strongest objection's content reaches the generator prompt.
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "strong objection")
	assert.NotContains(t, gen.prompts[0], "weak objection")
}

func TestExpansionService_ImplicitSynthesis_NoObjections(t *testing.T) {
	gen := &stubGenerator{}
	svc, _, complex := newExpansionFixture(t, gen)

	_, err := svc.ExpandNode(context.Background(), complex.ID(), complex.CentralPointID(), ExpandSynthesis, nil)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestExpansionService_ExplicitSynthesis_PlacedUnderCommonParent(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`{"content": "reconciled", "strength": 0.8}`,
	}}
	svc, _, complex := newExpansionFixture(t, gen)

	objID, err := complex.AddNode(complex.CentralPointID(), entities.TypeObjection, "But Y", entities.Metadata{Strength: 0.5})
	require.NoError(t, err)
	refID, err := complex.AddNode(objID, entities.TypeRefutation, "Y fails", entities.Metadata{Strength: 0.6})
	require.NoError(t, err)

	// Reconcile the refutation with its objection: common parent is the objection.
	newIDs, err := svc.ExpandNode(context.Background(), complex.ID(), refID, ExpandSynthesis, &objID)

	require.NoError(t, err)
	require.Len(t, newIDs, 1)

	syn, err := complex.GetNode(newIDs[0])
	require.NoError(t, err)
	assert.True(t, syn.ParentID().Equals(objID))
	assert.Equal(t, 2, syn.Depth())
}

func TestExpansionService_ConcurrentExpansionRejected(t *testing.T) {
	gen := &stubGenerator{responses: []string{
		`{"objections": [{"content": "But Y", "strength": 0.5}]}`,
	}}
	svc, _, complex := newExpansionFixture(t, gen)

	// Simulate an in-flight expansion of the same node.
	require.NoError(t, complex.BeginExpansion(complex.CentralPointID()))

	_, err := svc.ExpandNode(context.Background(), complex.ID(), complex.CentralPointID(), ExpandObjections, nil)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, 0, gen.callCount())
}

func TestExpansionService_ParseFailureLeavesGraphUntouched(t *testing.T) {
	gen := &stubGenerator{responses: []string{"not json at all"}}
	svc, _, complex := newExpansionFixture(t, gen)

	_, err := svc.ExpandNode(context.Background(), complex.ID(), complex.CentralPointID(), ExpandObjections, nil)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsGenerationParse(err))
	assert.Equal(t, 1, complex.NodeCount())

	// The node is expandable again after the failure.
	assert.NoError(t, complex.BeginExpansion(complex.CentralPointID()))
}

func TestExpansionService_UnknownComplex(t *testing.T) {
	gen := &stubGenerator{}
	svc, _, complex := newExpansionFixture(t, gen)
	_ = complex

	other, err := aggregates.NewComplex("Other?", "other", entities.Metadata{})
	require.NoError(t, err)

	_, err = svc.ExpandNode(context.Background(), other.ID(), other.CentralPointID(), ExpandObjections, nil)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestParseExpansionType(t *testing.T) {
	for _, valid := range []string{"objections", "refutation", "synthesis"} {
		_, err := ParseExpansionType(valid)
		assert.NoError(t, err)
	}

	_, err := ParseExpansionType("rebuttal")
	assert.True(t, pkgerrors.IsValidation(err))
}
