package plan

import (
	"errors"
	"testing"
)

func allowedTools() []string {
	return []string{"customer_search", "send_email_reminder"}
}

func TestValidateAcceptsKnownToolsWithParameters(t *testing.T) {
	v := NewValidator(allowedTools())
	p := New(
		Step{Description: "search", ToolName: "customer_search", Parameters: map[string]interface{}{"minBalance": 500.0}},
		Step{Description: "email", ToolName: "send_email_reminder", Parameters: map[string]interface{}{}},
	)

	if err := v.Validate(p); err != nil {
		t.Fatalf("expected plan to validate: %v", err)
	}
}

func TestValidateRejectsEmptyPlan(t *testing.T) {
	v := NewValidator(allowedTools())

	err := v.Validate(New())
	if err == nil {
		t.Fatalf("expected empty plan to fail validation")
	}
	var pe *Error
	if !errors.As(err, &pe) || pe.Reason != ReasonEmptyPlan {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnknownTool(t *testing.T) {
	v := NewValidator(allowedTools())
	p := New(Step{Description: "drop tables", ToolName: "delete_database", Parameters: map[string]interface{}{}})

	err := v.Validate(p)
	var pe *Error
	if !errors.As(err, &pe) || pe.Reason != ReasonUnknownTool {
		t.Fatalf("expected unknown tool error, got %v", err)
	}
	if pe.Tool != "delete_database" {
		t.Fatalf("expected offending tool in error, got %q", pe.Tool)
	}
}

func TestValidateRejectsNilParameters(t *testing.T) {
	v := NewValidator(allowedTools())
	p := New(Step{Description: "search", ToolName: "customer_search"})

	err := v.Validate(p)
	var pe *Error
	if !errors.As(err, &pe) || pe.Reason != ReasonMissingParameters {
		t.Fatalf("expected missing parameters error, got %v", err)
	}
}

func TestAllowed(t *testing.T) {
	v := NewValidator(allowedTools())
	if !v.Allowed("customer_search") {
		t.Fatalf("customer_search should be allowed")
	}
	if v.Allowed("delete_database") {
		t.Fatalf("delete_database should not be allowed")
	}
}
