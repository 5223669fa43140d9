package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inquiry-backend/domain/core/valueobjects"
	pkgerrors "inquiry-backend/pkg/errors"
)

func TestNewNode(t *testing.T) {
	node, err := NewNode(TypePoint, valueobjects.NodeID{}, "a position", 0, Metadata{Strength: 0.8, Tags: []string{"opening"}})

	require.NoError(t, err)
	assert.Equal(t, TypePoint, node.Type())
	assert.True(t, node.IsRoot())
	assert.Equal(t, "a position", node.Content())
	assert.Equal(t, 0.8, node.Strength())
	assert.Equal(t, []string{"opening"}, node.Tags())
	assert.False(t, node.HasChildren())
	assert.False(t, node.IsExpanding())
}

func TestNewNode_EmptyContent(t *testing.T) {
	_, err := NewNode(TypePoint, valueobjects.NodeID{}, "", 0, Metadata{})

	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNewNode_NegativeDepth(t *testing.T) {
	_, err := NewNode(TypeObjection, valueobjects.NewNodeID(), "content", -1, Metadata{})

	assert.True(t, pkgerrors.IsValidation(err))
}

func TestParseNodeType(t *testing.T) {
	for _, valid := range []string{"point", "objection", "refutation", "synthesis"} {
		nodeType, err := ParseNodeType(valid)
		require.NoError(t, err)
		assert.Equal(t, NodeType(valid), nodeType)
	}

	_, err := ParseNodeType("rebuttal")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNode_ExtraCopy(t *testing.T) {
	node, err := NewNode(TypePoint, valueobjects.NodeID{}, "content", 0, Metadata{
		Extra: map[string]interface{}{"reasoning": "original", "strategy": "steelman"},
	})
	require.NoError(t, err)

	// Extra returns a copy; mutating it must not touch the node.
	extra := node.Extra()
	extra["strategy"] = "mutated"
	assert.Equal(t, "steelman", node.Extra()["strategy"])
	assert.Equal(t, "original", node.Extra()["reasoning"])
}

func TestNode_ExpansionFlag(t *testing.T) {
	node, err := NewNode(TypePoint, valueobjects.NodeID{}, "content", 0, Metadata{})
	require.NoError(t, err)

	require.NoError(t, node.BeginExpansion())
	assert.True(t, node.IsExpanding())

	err = node.BeginExpansion()
	assert.True(t, pkgerrors.IsConflict(err))

	node.EndExpansion()
	assert.False(t, node.IsExpanding())
	assert.NoError(t, node.BeginExpansion())
}

func TestNode_ChildIDsCopy(t *testing.T) {
	node, err := NewNode(TypePoint, valueobjects.NodeID{}, "content", 0, Metadata{})
	require.NoError(t, err)

	childID := valueobjects.NewNodeID()
	node.AppendChild(childID)

	ids := node.ChildIDs()
	require.Len(t, ids, 1)
	ids[0] = valueobjects.NewNodeID()

	assert.True(t, node.ChildIDs()[0].Equals(childID))
	assert.Equal(t, 1, node.ChildCount())
}
