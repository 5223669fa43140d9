package entities

import (
	"time"

	"inquiry-backend/domain/core/valueobjects"
	pkgerrors "inquiry-backend/pkg/errors"
)

// NodeType classifies the dialectical role of a node
type NodeType string

const (
	TypePoint      NodeType = "point"
	TypeObjection  NodeType = "objection"
	TypeRefutation NodeType = "refutation"
	TypeSynthesis  NodeType = "synthesis"
)

// ParseNodeType converts a string into a NodeType
func ParseNodeType(s string) (NodeType, error) {
	switch NodeType(s) {
	case TypePoint, TypeObjection, TypeRefutation, TypeSynthesis:
		return NodeType(s), nil
	}
	return "", pkgerrors.NewValidationError("unknown node type: " + s)
}

// Metadata contains generator-supplied node information.
// Extra holds free-form fields like reasoning, strategy and newInsight.
type Metadata struct {
	Strength float64
	Tags     []string
	Extra    map[string]interface{}
}

// Node is a typed unit of argument within an inquiry complex.
// Everything but the child list and the transient expansion flag is
// immutable after creation.
type Node struct {
	id        valueobjects.NodeID
	nodeType  NodeType
	parentID  valueobjects.NodeID // zero for the central point
	childIDs  []valueobjects.NodeID
	content   string
	depth     int
	metadata  Metadata
	createdAt time.Time

	// Transient, never serialized. Guards against concurrent expansion
	// requests targeting the same node.
	expanding bool
}

// NewNode creates a new node with the given structural position
func NewNode(nodeType NodeType, parentID valueobjects.NodeID, content string, depth int, metadata Metadata) (*Node, error) {
	if content == "" {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}
	if depth < 0 {
		return nil, pkgerrors.NewValidationError("depth cannot be negative")
	}
	if metadata.Extra == nil {
		metadata.Extra = make(map[string]interface{})
	}

	return &Node{
		id:        valueobjects.NewNodeID(),
		nodeType:  nodeType,
		parentID:  parentID,
		childIDs:  []valueobjects.NodeID{},
		content:   content,
		depth:     depth,
		metadata:  metadata,
		createdAt: time.Now(),
	}, nil
}

// ReconstructNode reconstructs a node from persisted data
func ReconstructNode(
	id valueobjects.NodeID,
	nodeType NodeType,
	parentID valueobjects.NodeID,
	childIDs []valueobjects.NodeID,
	content string,
	depth int,
	metadata Metadata,
	createdAt time.Time,
) (*Node, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("node ID required for reconstruction")
	}
	if content == "" {
		return nil, pkgerrors.NewValidationError("content cannot be empty")
	}
	if metadata.Extra == nil {
		metadata.Extra = make(map[string]interface{})
	}
	if childIDs == nil {
		childIDs = []valueobjects.NodeID{}
	}

	return &Node{
		id:        id,
		nodeType:  nodeType,
		parentID:  parentID,
		childIDs:  childIDs,
		content:   content,
		depth:     depth,
		metadata:  metadata,
		createdAt: createdAt,
	}, nil
}

// ID returns the node's unique identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// Type returns the node's dialectical type
func (n *Node) Type() NodeType {
	return n.nodeType
}

// ParentID returns the parent node id; zero for the central point
func (n *Node) ParentID() valueobjects.NodeID {
	return n.parentID
}

// IsRoot reports whether this node is the central point of its complex
func (n *Node) IsRoot() bool {
	return n.parentID.IsZero()
}

// ChildIDs returns the child ids in insertion order
func (n *Node) ChildIDs() []valueobjects.NodeID {
	// Return a copy to maintain encapsulation
	ids := make([]valueobjects.NodeID, len(n.childIDs))
	copy(ids, n.childIDs)
	return ids
}

// HasChildren reports whether any node has been attached under this one
func (n *Node) HasChildren() bool {
	return len(n.childIDs) > 0
}

// ChildCount returns the number of direct children
func (n *Node) ChildCount() int {
	return len(n.childIDs)
}

// Content returns the node's natural-language content
func (n *Node) Content() string {
	return n.content
}

// Depth returns the node's distance from the central point
func (n *Node) Depth() int {
	return n.depth
}

// Strength returns the generator-assigned 0.0-1.0 quality score
func (n *Node) Strength() float64 {
	return n.metadata.Strength
}

// Tags returns the node's tags
func (n *Node) Tags() []string {
	tags := make([]string, len(n.metadata.Tags))
	copy(tags, n.metadata.Tags)
	return tags
}

// Extra returns a copy of the free-form generator-supplied metadata
func (n *Node) Extra() map[string]interface{} {
	extra := make(map[string]interface{}, len(n.metadata.Extra))
	for k, v := range n.metadata.Extra {
		extra[k] = v
	}
	return extra
}

// CreatedAt returns when the node was created
func (n *Node) CreatedAt() time.Time {
	return n.createdAt
}

// IsExpanding reports whether an expansion request is in flight for this node
func (n *Node) IsExpanding() bool {
	return n.expanding
}

// BeginExpansion marks the node as mid-expansion. A second concurrent
// expansion of the same node is rejected with a conflict error.
func (n *Node) BeginExpansion() error {
	if n.expanding {
		return pkgerrors.NewConflictError("node is already being expanded")
	}
	n.expanding = true
	return nil
}

// EndExpansion clears the transient expansion flag
func (n *Node) EndExpansion() {
	n.expanding = false
}

// AppendChild records a newly inserted child id. Only the aggregate calls
// this, immediately after it stores the child in its node map.
func (n *Node) AppendChild(id valueobjects.NodeID) {
	n.childIDs = append(n.childIDs, id)
}
