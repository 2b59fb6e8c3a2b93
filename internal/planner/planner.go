package planner

import (
	"context"

	"github.com/rgonzalez/agentd/internal/plan"
)

// Planner turns a free-text goal into an execution plan. Failures are
// reported as *plan.Error and are caller-visible; the orchestration loop
// never degrades them.
type Planner interface {
	Name() string
	CreatePlan(ctx context.Context, goal string) (plan.Plan, error)
}
