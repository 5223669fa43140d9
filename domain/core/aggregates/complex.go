package aggregates

import (
	"sync"
	"time"

	"inquiry-backend/domain/core/entities"
	"inquiry-backend/domain/core/validators"
	"inquiry-backend/domain/core/valueobjects"
	pkgerrors "inquiry-backend/pkg/errors"
)

// Complex is the aggregate root for one argumentation graph rooted at a
// central question. It is the sole owner of its nodes: all relationships are
// expressed by id reference into the node map, never by direct pointers
// between nodes, so serialization never has to break cycles.
//
// Every structural mutation goes through AddNode, which validates only the
// delta; the tree invariants therefore hold by construction. All operations
// are atomic under the aggregate's lock, so callers never observe a partial
// update even when expansions interleave.
type Complex struct {
	mu sync.RWMutex

	id              valueobjects.ComplexID
	centralQuestion string
	centralPointID  valueobjects.NodeID
	nodes           map[valueobjects.NodeID]*entities.Node
	order           []valueobjects.NodeID // insertion order, root first
	createdAt       time.Time
	maxDepth        int
	nodesByType     map[entities.NodeType]int
}

// NewComplex creates a complex seeded with a central question and its
// depth-0 point node
func NewComplex(question, centralContent string, metadata entities.Metadata) (*Complex, error) {
	if question == "" {
		return nil, pkgerrors.NewValidationError("central question cannot be empty")
	}

	central, err := entities.NewNode(entities.TypePoint, valueobjects.NodeID{}, centralContent, 0, metadata)
	if err != nil {
		return nil, err
	}

	c := &Complex{
		id:              valueobjects.NewComplexID(),
		centralQuestion: question,
		centralPointID:  central.ID(),
		nodes:           map[valueobjects.NodeID]*entities.Node{central.ID(): central},
		order:           []valueobjects.NodeID{central.ID()},
		createdAt:       time.Now(),
		maxDepth:        0,
		nodesByType:     map[entities.NodeType]int{entities.TypePoint: 1},
	}

	return c, nil
}

// ID returns the complex's unique identifier
func (c *Complex) ID() valueobjects.ComplexID {
	return c.id
}

// CentralQuestion returns the question that seeded the complex
func (c *Complex) CentralQuestion() string {
	return c.centralQuestion
}

// CentralPointID returns the id of the depth-0 point node
func (c *Complex) CentralPointID() valueobjects.NodeID {
	return c.centralPointID
}

// CreatedAt returns when the complex was created
func (c *Complex) CreatedAt() time.Time {
	return c.createdAt
}

// NodeCount returns the number of nodes in the complex
func (c *Complex) NodeCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}

// MaxDepth returns the greatest depth of any node currently in the graph
func (c *Complex) MaxDepth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxDepth
}

// NodesByType returns the per-type node counts
func (c *Complex) NodesByType() map[entities.NodeType]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counts := make(map[entities.NodeType]int, len(c.nodesByType))
	for t, n := range c.nodesByType {
		counts[t] = n
	}
	return counts
}

// GetNode retrieves a node by id
func (c *Complex) GetNode(id valueobjects.NodeID) (*entities.Node, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	node, exists := c.nodes[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	return node, nil
}

// HasNode checks if a node exists without error
func (c *Complex) HasNode(id valueobjects.NodeID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.nodes[id]
	return exists
}

// NodesInOrder returns all nodes in insertion order, central point first
func (c *Complex) NodesInOrder() []*entities.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()

	nodes := make([]*entities.Node, 0, len(c.order))
	for _, id := range c.order {
		nodes = append(nodes, c.nodes[id])
	}
	return nodes
}

// NodeSummary is a point-in-time copy of the facts planning reads from a
// node. Values are copied under the aggregate lock so callers can consume
// them without holding it, while AddNode keeps growing the graph.
type NodeSummary struct {
	ID         valueobjects.NodeID
	Type       entities.NodeType
	Depth      int
	Strength   float64
	ChildCount int
}

// Summaries returns per-node planning facts in insertion order, central
// point first
func (c *Complex) Summaries() []NodeSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summaries := make([]NodeSummary, 0, len(c.order))
	for _, id := range c.order {
		node := c.nodes[id]
		summaries = append(summaries, NodeSummary{
			ID:         node.ID(),
			Type:       node.Type(),
			Depth:      node.Depth(),
			Strength:   node.Strength(),
			ChildCount: node.ChildCount(),
		})
	}
	return summaries
}

// AddNode validates and inserts a new node under the given parent. This is
// the only insertion point: it checks the parent reference and the type
// transition, then keeps depth, child order, maxDepth and the per-type
// counts consistent in one atomic step.
func (c *Complex) AddNode(parentID valueobjects.NodeID, nodeType entities.NodeType, content string, metadata entities.Metadata) (valueobjects.NodeID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	parent, exists := c.nodes[parentID]
	if !exists {
		return valueobjects.NodeID{}, pkgerrors.NewValidationError("parent node does not exist in complex")
	}

	if err := validators.ValidateTransition(parent.Type(), nodeType); err != nil {
		return valueobjects.NodeID{}, err
	}

	node, err := entities.NewNode(nodeType, parentID, content, parent.Depth()+1, metadata)
	if err != nil {
		return valueobjects.NodeID{}, err
	}

	c.nodes[node.ID()] = node
	c.order = append(c.order, node.ID())
	parent.AppendChild(node.ID())

	if node.Depth() > c.maxDepth {
		c.maxDepth = node.Depth()
	}
	c.nodesByType[nodeType]++

	return node.ID(), nil
}

// PathToNode walks parent links from the given node to the central point and
// returns the path root first. Used to give the content generator the
// dialectical context when expanding a node.
func (c *Complex) PathToNode(id valueobjects.NodeID) ([]*entities.Node, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pathLocked(id)
}

func (c *Complex) pathLocked(id valueobjects.NodeID) ([]*entities.Node, error) {
	node, exists := c.nodes[id]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("node")
	}

	var reversed []*entities.Node
	for {
		reversed = append(reversed, node)
		if node.IsRoot() {
			break
		}
		parent, ok := c.nodes[node.ParentID()]
		if !ok {
			// Unreachable for complexes built through AddNode.
			return nil, pkgerrors.NewInternalError("broken parent chain at node " + node.ID().String())
		}
		node = parent
	}

	path := make([]*entities.Node, len(reversed))
	for i, n := range reversed {
		path[len(reversed)-1-i] = n
	}
	return path, nil
}

// CommonParent returns the id of the deepest node shared by the root paths
// of the two given nodes. Both paths start at the central point, so the
// worst case is the central point itself.
func (c *Complex) CommonParent(a, b valueobjects.NodeID) (valueobjects.NodeID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pathA, err := c.pathLocked(a)
	if err != nil {
		return valueobjects.NodeID{}, err
	}
	pathB, err := c.pathLocked(b)
	if err != nil {
		return valueobjects.NodeID{}, err
	}

	common := c.centralPointID
	for i := 0; i < len(pathA) && i < len(pathB); i++ {
		if !pathA[i].ID().Equals(pathB[i].ID()) {
			break
		}
		common = pathA[i].ID()
	}
	return common, nil
}

// StrongestObjection returns the objection child of the given point with the
// maximum strength, ties broken by insertion order. Fails if the point has
// no objection children yet.
func (c *Complex) StrongestObjection(pointID valueobjects.NodeID) (*entities.Node, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	point, exists := c.nodes[pointID]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	if point.Type() != entities.TypePoint {
		return nil, pkgerrors.NewValidationError("node is not a point")
	}

	var strongest *entities.Node
	for _, childID := range point.ChildIDs() {
		child := c.nodes[childID]
		if child.Type() != entities.TypeObjection {
			continue
		}
		if strongest == nil || child.Strength() > strongest.Strength() {
			strongest = child
		}
	}

	if strongest == nil {
		return nil, pkgerrors.NewValidationError("point has no objections to synthesize against")
	}
	return strongest, nil
}

// BeginExpansion marks a node as mid-expansion, rejecting a second
// concurrent expansion of the same node with a conflict error
func (c *Complex) BeginExpansion(id valueobjects.NodeID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, exists := c.nodes[id]
	if !exists {
		return pkgerrors.NewNotFoundError("node")
	}
	return node.BeginExpansion()
}

// EndExpansion clears a node's transient expansion flag. Missing nodes are
// ignored so deferred cleanup stays unconditional.
func (c *Complex) EndExpansion(id valueobjects.NodeID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, exists := c.nodes[id]; exists {
		node.EndExpansion()
	}
}
