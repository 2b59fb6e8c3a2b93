package plan

import "fmt"

// Reason classifies why planning or plan validation failed.
type Reason string

const (
	ReasonEmptyPlan         Reason = "empty_plan"
	ReasonUnknownTool       Reason = "unknown_tool"
	ReasonMissingParameters Reason = "missing_parameters"
	ReasonBadModelOutput    Reason = "bad_model_output"
)

// Error is the planning error surfaced to turn callers. It is never
// swallowed: the orchestration loop propagates it as-is.
type Error struct {
	Reason Reason
	Tool   string
	Msg    string
	Cause  error
}

func (e *Error) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("planning: %s (tool %q)", e.Msg, e.Tool)
	}
	return "planning: " + e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

// ErrEmptyPlan reports a plan with no steps.
func ErrEmptyPlan() *Error {
	return &Error{Reason: ReasonEmptyPlan, Msg: "empty plan"}
}

// ErrUnknownTool reports a step naming a tool outside the allow-list.
func ErrUnknownTool(tool string) *Error {
	return &Error{Reason: ReasonUnknownTool, Tool: tool, Msg: "unknown tool"}
}

// ErrMissingParameters reports a step with a nil parameter mapping.
func ErrMissingParameters(tool string) *Error {
	return &Error{Reason: ReasonMissingParameters, Tool: tool, Msg: "missing parameters"}
}

// ErrBadModelOutput wraps a malformed or unparsable model response.
func ErrBadModelOutput(cause error) *Error {
	return &Error{Reason: ReasonBadModelOutput, Msg: "invalid response returned by model", Cause: cause}
}
