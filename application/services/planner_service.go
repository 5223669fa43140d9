package services

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"inquiry-backend/application/ports"
	"inquiry-backend/domain/core/aggregates"
	"inquiry-backend/domain/core/entities"
	"inquiry-backend/domain/core/valueobjects"
)

// PlanStep is one scheduled expansion operation
type PlanStep struct {
	NodeID valueobjects.NodeID `json:"nodeId"`
	Type   ExpansionType       `json:"expansionType"`
}

// AutoExpandResult reports how an auto-expansion pass went
type AutoExpandResult struct {
	Planned  int `json:"planned"`
	Executed int `json:"executed"`
	Failed   int `json:"failed"`
}

// PlannerService schedules and drives automatic growth of a complex under a
// depth and node-count budget. Shallower and stronger nodes are grown first:
// breadth before unbounded depth, and well-supported branches are rewarded.
// The randomness source is injected so planner behavior is reproducible.
type PlannerService struct {
	registry             ports.ComplexRegistry
	expansion            *ExpansionService
	synthesisProbability float64
	stepDelay            time.Duration
	logger               *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPlannerService creates a new planner service
func NewPlannerService(
	registry ports.ComplexRegistry,
	expansion *ExpansionService,
	rng *rand.Rand,
	synthesisProbability float64,
	stepDelay time.Duration,
	logger *zap.Logger,
) *PlannerService {
	return &PlannerService{
		registry:             registry,
		expansion:            expansion,
		rng:                  rng,
		synthesisProbability: synthesisProbability,
		stepDelay:            stepDelay,
		logger:               logger,
	}
}

// PlanAutoExpansion inspects the current graph state and produces an ordered
// expansion plan of at most maxNodes steps. Candidates are nodes shallower
// than targetDepth, ordered by ascending depth then descending strength.
// A childless point gets an objections step, a childless objection gets a
// refutation step, and a point with more than one child gets a synthesis
// step with fixed probability.
//
// Planning works on value summaries copied out under the aggregate lock, so
// concurrent expansions growing the graph never race with the scan; the plan
// is a consistent view of one instant.
func (p *PlannerService) PlanAutoExpansion(complex *aggregates.Complex, targetDepth, maxNodes int) []PlanStep {
	p.mu.Lock()
	defer p.mu.Unlock()

	var candidates []aggregates.NodeSummary
	for _, node := range complex.Summaries() {
		if node.Depth < targetDepth {
			candidates = append(candidates, node)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Depth != candidates[j].Depth {
			return candidates[i].Depth < candidates[j].Depth
		}
		return candidates[i].Strength > candidates[j].Strength
	})

	plan := make([]PlanStep, 0, maxNodes)
	for _, node := range candidates {
		if len(plan) >= maxNodes {
			break
		}

		switch {
		case node.Type == entities.TypePoint && node.ChildCount == 0:
			plan = append(plan, PlanStep{NodeID: node.ID, Type: ExpandObjections})
		case node.Type == entities.TypeObjection && node.ChildCount == 0:
			plan = append(plan, PlanStep{NodeID: node.ID, Type: ExpandRefutation})
		}

		if len(plan) >= maxNodes {
			break
		}

		// Occasional convergence nodes on contested points, independent of
		// the childless rules above.
		if node.Type == entities.TypePoint && node.ChildCount > 1 && p.rng.Float64() < p.synthesisProbability {
			plan = append(plan, PlanStep{NodeID: node.ID, Type: ExpandSynthesis})
		}
	}

	return plan
}

// AutoExpand plans and executes a growth pass strictly in order, pacing the
// external generator with a fixed delay between steps. A failed step is
// logged and skipped; one bad generator response must not abort the rest of
// the pass. There is no cancellation of a started pass.
func (p *PlannerService) AutoExpand(ctx context.Context, complexID valueobjects.ComplexID, targetDepth, maxNodes int) (*AutoExpandResult, error) {
	complex, err := p.registry.Get(complexID)
	if err != nil {
		return nil, err
	}

	plan := p.PlanAutoExpansion(complex, targetDepth, maxNodes)
	result := &AutoExpandResult{Planned: len(plan)}

	p.logger.Info("Starting auto-expansion",
		zap.String("complexID", complexID.String()),
		zap.Int("targetDepth", targetDepth),
		zap.Int("maxNodes", maxNodes),
		zap.Int("planned", len(plan)),
	)

	for i, step := range plan {
		if i > 0 && p.stepDelay > 0 {
			time.Sleep(p.stepDelay)
		}

		if _, err := p.expansion.ExpandNode(ctx, complexID, step.NodeID, step.Type, nil); err != nil {
			result.Failed++
			p.logger.Warn("Auto-expansion step failed",
				zap.String("complexID", complexID.String()),
				zap.String("nodeID", step.NodeID.String()),
				zap.String("expansionType", string(step.Type)),
				zap.Error(err),
			)
			continue
		}
		result.Executed++
	}

	p.logger.Info("Finished auto-expansion",
		zap.String("complexID", complexID.String()),
		zap.Int("executed", result.Executed),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}
