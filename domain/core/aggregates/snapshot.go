package aggregates

import (
	"time"

	"inquiry-backend/domain/core/entities"
	"inquiry-backend/domain/core/validators"
	"inquiry-backend/domain/core/valueobjects"
	pkgerrors "inquiry-backend/pkg/errors"
)

// ComplexSnapshot is the self-contained serialized form of a complex. It is
// the only representation ever handed to or received from storage; all
// relationships are plain id strings, so round-tripping reconstructs a graph
// indistinguishable from the original.
type ComplexSnapshot struct {
	ID              string         `json:"id" dynamodbav:"ComplexID"`
	CentralQuestion string         `json:"centralQuestion" dynamodbav:"CentralQuestion"`
	CentralPointID  string         `json:"centralPointId" dynamodbav:"CentralPointID"`
	Nodes           []NodeSnapshot `json:"nodes" dynamodbav:"Nodes"`
	CreatedAt       string         `json:"createdAt" dynamodbav:"CreatedAt"`
	MaxDepth        int            `json:"maxDepth" dynamodbav:"MaxDepth"`
	NodesByType     map[string]int `json:"nodesByType" dynamodbav:"NodesByType"`
}

// NodeSnapshot is the serialized form of a single node
type NodeSnapshot struct {
	ID        string                 `json:"id" dynamodbav:"NodeID"`
	Type      string                 `json:"type" dynamodbav:"Type"`
	ParentID  string                 `json:"parentId,omitempty" dynamodbav:"ParentID"`
	ChildIDs  []string               `json:"childIds" dynamodbav:"ChildIDs"`
	Content   string                 `json:"content" dynamodbav:"Content"`
	Depth     int                    `json:"depth" dynamodbav:"Depth"`
	Strength  float64                `json:"strength" dynamodbav:"Strength"`
	Tags      []string               `json:"tags" dynamodbav:"Tags"`
	Extra     map[string]interface{} `json:"extra,omitempty" dynamodbav:"Extra"`
	CreatedAt string                 `json:"createdAt" dynamodbav:"CreatedAt"`
}

// Snapshot serializes the complex into its plain structured form. Nodes are
// listed in insertion order, central point first.
func (c *Complex) Snapshot() *ComplexSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := &ComplexSnapshot{
		ID:              c.id.String(),
		CentralQuestion: c.centralQuestion,
		CentralPointID:  c.centralPointID.String(),
		Nodes:           make([]NodeSnapshot, 0, len(c.order)),
		CreatedAt:       c.createdAt.Format(time.RFC3339Nano),
		MaxDepth:        c.maxDepth,
		NodesByType:     make(map[string]int, len(c.nodesByType)),
	}

	for t, n := range c.nodesByType {
		snap.NodesByType[string(t)] = n
	}

	for _, id := range c.order {
		node := c.nodes[id]

		childIDs := make([]string, 0, node.ChildCount())
		for _, childID := range node.ChildIDs() {
			childIDs = append(childIDs, childID.String())
		}

		parentID := ""
		if !node.IsRoot() {
			parentID = node.ParentID().String()
		}

		snap.Nodes = append(snap.Nodes, NodeSnapshot{
			ID:        node.ID().String(),
			Type:      string(node.Type()),
			ParentID:  parentID,
			ChildIDs:  childIDs,
			Content:   node.Content(),
			Depth:     node.Depth(),
			Strength:  node.Strength(),
			Tags:      node.Tags(),
			Extra:     node.Extra(),
			CreatedAt: node.CreatedAt().Format(time.RFC3339Nano),
		})
	}

	return snap
}

// ReconstructComplex rebuilds a complex from its serialized form. The node
// mapping is rekeyed by id and no in-memory identity from the source complex
// survives; everything is rebuilt from id references.
//
// Snapshots cross a trust boundary (import endpoint, external store), so the
// tree invariants are re-established here rather than assumed: single root,
// depth agreeing with the parent link (which rules out parent cycles), legal
// type transitions, and childIds matching the parent references. Derived
// state (maxDepth, per-type counts) is recomputed, never trusted.
func ReconstructComplex(snap *ComplexSnapshot) (*Complex, error) {
	if snap == nil {
		return nil, pkgerrors.NewValidationError("snapshot cannot be nil")
	}

	id, err := valueobjects.NewComplexIDFromString(snap.ID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid complex id: " + err.Error())
	}
	centralID, err := valueobjects.NewNodeIDFromString(snap.CentralPointID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid central point id: " + err.Error())
	}
	if snap.CentralQuestion == "" {
		return nil, pkgerrors.NewValidationError("central question cannot be empty")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, snap.CreatedAt)
	if err != nil {
		createdAt = time.Now()
	}

	c := &Complex{
		id:              id,
		centralQuestion: snap.CentralQuestion,
		centralPointID:  centralID,
		nodes:           make(map[valueobjects.NodeID]*entities.Node, len(snap.Nodes)),
		order:           make([]valueobjects.NodeID, 0, len(snap.Nodes)),
		createdAt:       createdAt,
		nodesByType:     make(map[entities.NodeType]int, 4),
	}

	for _, ns := range snap.Nodes {
		node, err := reconstructNodeSnapshot(ns)
		if err != nil {
			return nil, err
		}
		if _, dup := c.nodes[node.ID()]; dup {
			return nil, pkgerrors.NewValidationError("duplicate node id in snapshot: " + ns.ID)
		}
		c.nodes[node.ID()] = node
		c.order = append(c.order, node.ID())
	}

	central, ok := c.nodes[centralID]
	if !ok {
		return nil, pkgerrors.NewValidationError("central point missing from snapshot nodes")
	}
	if central.Type() != entities.TypePoint {
		return nil, pkgerrors.NewValidationError("central node must be a point")
	}

	// Structural validation. Requiring every node to sit exactly one level
	// below its parent also rules out parent cycles: following parent links
	// strictly decreases depth, so no chain can revisit a node.
	childrenByParent := make(map[valueobjects.NodeID][]valueobjects.NodeID, len(c.nodes))
	for _, nodeID := range c.order {
		node := c.nodes[nodeID]

		if node.IsRoot() {
			if !node.ID().Equals(centralID) {
				return nil, pkgerrors.NewValidationError("snapshot has a root node other than the central point: " + node.ID().String())
			}
			if node.Depth() != 0 {
				return nil, pkgerrors.NewValidationError("central point must have depth 0")
			}
			continue
		}

		parent, ok := c.nodes[node.ParentID()]
		if !ok {
			return nil, pkgerrors.NewValidationError("node references missing parent: " + node.ID().String())
		}
		if node.Depth() != parent.Depth()+1 {
			return nil, pkgerrors.NewValidationError("node depth does not match its parent: " + node.ID().String())
		}
		if err := validators.ValidateTransition(parent.Type(), node.Type()); err != nil {
			return nil, err
		}
		childrenByParent[node.ParentID()] = append(childrenByParent[node.ParentID()], node.ID())
	}

	// Each node's recorded children must be exactly the nodes naming it as
	// parent, in snapshot order.
	for _, nodeID := range c.order {
		expected := childrenByParent[nodeID]
		actual := c.nodes[nodeID].ChildIDs()
		if len(actual) != len(expected) {
			return nil, pkgerrors.NewValidationError("childIds disagree with parent references at node: " + nodeID.String())
		}
		for i := range expected {
			if !actual[i].Equals(expected[i]) {
				return nil, pkgerrors.NewValidationError("childIds disagree with parent references at node: " + nodeID.String())
			}
		}
	}

	// Derived state is recomputed from the validated nodes, never read from
	// the snapshot.
	for _, nodeID := range c.order {
		node := c.nodes[nodeID]
		if node.Depth() > c.maxDepth {
			c.maxDepth = node.Depth()
		}
		c.nodesByType[node.Type()]++
	}

	return c, nil
}

func reconstructNodeSnapshot(ns NodeSnapshot) (*entities.Node, error) {
	id, err := valueobjects.NewNodeIDFromString(ns.ID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid node id: " + err.Error())
	}

	nodeType, err := entities.ParseNodeType(ns.Type)
	if err != nil {
		return nil, err
	}

	var parentID valueobjects.NodeID
	if ns.ParentID != "" {
		parentID, err = valueobjects.NewNodeIDFromString(ns.ParentID)
		if err != nil {
			return nil, pkgerrors.NewValidationError("invalid parent id: " + err.Error())
		}
	}

	childIDs := make([]valueobjects.NodeID, 0, len(ns.ChildIDs))
	for _, raw := range ns.ChildIDs {
		childID, err := valueobjects.NewNodeIDFromString(raw)
		if err != nil {
			return nil, pkgerrors.NewValidationError("invalid child id: " + err.Error())
		}
		childIDs = append(childIDs, childID)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, ns.CreatedAt)
	if err != nil {
		createdAt = time.Now()
	}

	return entities.ReconstructNode(
		id,
		nodeType,
		parentID,
		childIDs,
		ns.Content,
		ns.Depth,
		entities.Metadata{Strength: ns.Strength, Tags: ns.Tags, Extra: ns.Extra},
		createdAt,
	)
}
