package planner

import (
	"context"
	"testing"
)

func TestRulePlannerSearchGoalWithThreshold(t *testing.T) {
	p := NewRulePlanner()

	got, err := p.CreatePlan(context.Background(), "search for customers with overdue balance of 750")
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if len(got.Steps) != 2 {
		t.Fatalf("expected search and email steps, got %v", got.ToolNames())
	}
	if got.Steps[0].ToolName != "customer_search" {
		t.Fatalf("expected customer_search first, got %s", got.Steps[0].ToolName)
	}
	if mb := got.Steps[0].Parameters["minBalance"]; mb != 750.0 {
		t.Fatalf("expected minBalance 750, got %v", mb)
	}
	if got.Steps[0].Description != "Search for customers with overdue balance >= $750.00" {
		t.Fatalf("unexpected description: %q", got.Steps[0].Description)
	}
}

func TestRulePlannerEmailGoal(t *testing.T) {
	p := NewRulePlanner()

	got, err := p.CreatePlan(context.Background(), "send reminder emails")
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if len(got.Steps) != 1 || got.Steps[0].ToolName != "send_email_reminder" {
		t.Fatalf("expected a single email step, got %v", got.ToolNames())
	}
	if got.Steps[0].Parameters["templateType"] != "reminder" {
		t.Fatalf("unexpected parameters: %#v", got.Steps[0].Parameters)
	}
}

func TestRulePlannerOverdueGoalUnionsBothSteps(t *testing.T) {
	p := NewRulePlanner()

	got, err := p.CreatePlan(context.Background(), "overdue balance")
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	names := got.ToolNames()
	if len(names) != 2 || names[0] != "customer_search" || names[1] != "send_email_reminder" {
		t.Fatalf("expected search then email, got %v", names)
	}
	// No number in the goal: the threshold falls back to 500.
	if mb := got.Steps[0].Parameters["minBalance"]; mb != 500.0 {
		t.Fatalf("expected default minBalance 500, got %v", mb)
	}
}

func TestRulePlannerCombinedGoalDoesNotDuplicateSteps(t *testing.T) {
	p := NewRulePlanner()

	got, err := p.CreatePlan(context.Background(), "Find customers with overdue balance and send them reminders")
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	names := got.ToolNames()
	if len(names) != 2 || names[0] != "customer_search" || names[1] != "send_email_reminder" {
		t.Fatalf("expected exactly one search and one email step, got %v", names)
	}
}

func TestRulePlannerUnmatchedGoalYieldsEmptyPlan(t *testing.T) {
	p := NewRulePlanner()

	got, err := p.CreatePlan(context.Background(), "hello")
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if !got.IsEmpty() {
		t.Fatalf("expected empty plan, got %v", got.ToolNames())
	}
}

func TestRulePlannerZeroThresholdFallsBack(t *testing.T) {
	p := NewRulePlanner()

	got, err := p.CreatePlan(context.Background(), "search customers above 0")
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if mb := got.Steps[0].Parameters["minBalance"]; mb != 500.0 {
		t.Fatalf("expected fallback minBalance 500, got %v", mb)
	}
}
