package planner

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rgonzalez/agentd/internal/plan"
)

// numberPattern finds the first decimal number in a goal.
var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// defaultMinBalance is used when the goal carries no usable threshold.
const defaultMinBalance = 500.0

// RulePlanner is the deterministic keyword planner. Three independent
// conditions are evaluated and their steps unioned: search/find intent adds
// a customer_search step, email/send/reminder intent adds a
// send_email_reminder step, and overdue/balance intent guarantees both.
type RulePlanner struct{}

// NewRulePlanner builds the rule-based planner.
func NewRulePlanner() *RulePlanner {
	return &RulePlanner{}
}

func (p *RulePlanner) Name() string { return "RulePlanner" }

// CreatePlan analyzes the goal and assembles matching steps. A goal with no
// matching intent yields an empty plan, not an error.
func (p *RulePlanner) CreatePlan(_ context.Context, goal string) (plan.Plan, error) {
	lower := strings.ToLower(goal)
	var steps []plan.Step

	if strings.Contains(lower, "search") || strings.Contains(lower, "find") {
		steps = append(steps, searchStep(goal))
	}
	if strings.Contains(lower, "email") || strings.Contains(lower, "send") || strings.Contains(lower, "reminder") {
		steps = append(steps, emailStep())
	}
	if strings.Contains(lower, "overdue") || strings.Contains(lower, "balance") {
		if !hasTool(steps, "customer_search") {
			steps = append([]plan.Step{searchStep(goal)}, steps...)
		}
		if !hasTool(steps, "send_email_reminder") {
			steps = append(steps, emailStep())
		}
	}

	return plan.New(steps...), nil
}

func hasTool(steps []plan.Step, name string) bool {
	for _, s := range steps {
		if s.ToolName == name {
			return true
		}
	}
	return false
}

func searchStep(goal string) plan.Step {
	minBalance := extractBalance(goal)
	if minBalance <= 0 {
		minBalance = defaultMinBalance
	}
	return plan.Step{
		Description: fmt.Sprintf("Search for customers with overdue balance >= $%.2f", minBalance),
		ToolName:    "customer_search",
		Parameters: map[string]interface{}{
			"minBalance": minBalance,
			"status":     "overdue",
			"limit":      100,
		},
	}
}

func emailStep() plan.Step {
	return plan.Step{
		Description: "Send reminder emails to identified customers",
		ToolName:    "send_email_reminder",
		Parameters: map[string]interface{}{
			// Filled from the customer_search result at execution time.
			"customerIds":  "",
			"templateType": "reminder",
			"subject":      "Payment Reminder: Your Account Requires Immediate Attention",
		},
	}
}

// extractBalance returns the first decimal number in the goal, or 0 when
// there is none.
func extractBalance(goal string) float64 {
	match := numberPattern.FindString(goal)
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return v
}
