package alert

import (
	"fmt"

	"github.com/pulsewatch/internal/models"
)

// ValidationError marks a malformed rule definition. It is surfaced to the
// caller at creation time and never crashes the evaluator.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid rule: %s %s", e.Field, e.Reason)
}

// InvalidStateError marks an illegal alert state-machine transition. The
// alert is left unchanged.
type InvalidStateError struct {
	AlertID uint
	From    models.AlertStatus
	Op      string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s alert %d in state %s", e.Op, e.AlertID, e.From)
}

// EvaluationError wraps a per-rule evaluation failure (metric source error,
// unknown metric type, timeout). Caught inside the batch, logged, never
// propagated; the rule simply does not trigger this tick.
type EvaluationError struct {
	RuleID uint
	Err    error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation of rule %d failed: %v", e.RuleID, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
