package matcher

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientParticipants is returned for draws with fewer than two people
	ErrInsufficientParticipants = errors.New("matcher: at least 2 participants are required")

	// ErrInvalidInput matches every *ValidationError
	ErrInvalidInput = errors.New("matcher: invalid input")

	// ErrConflictingConstraint matches every *ConflictError
	ErrConflictingConstraint = errors.New("matcher: conflicting constraint")

	// ErrInfeasible matches every *InfeasibleError
	ErrInfeasible = errors.New("matcher: no valid assignment")
)

// ValidationError reports malformed input, never retried
type ValidationError struct {
	Field  string // participant, restriction or fixation
	ID     string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("matcher: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("matcher: %s %q: %s", e.Field, e.ID, e.Reason)
}

// Is lets errors.Is match ErrInvalidInput
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// ConflictError reports a fixation that contradicts another constraint
// the caller has to drop one of them before drawing again
type ConflictError struct {
	Giver    string
	Receiver string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("matcher: fixation %s -> %s: %s", e.Giver, e.Receiver, e.Reason)
}

// Is lets errors.Is match ErrConflictingConstraint
func (e *ConflictError) Is(target error) bool { return target == ErrConflictingConstraint }

// InfeasibleError reports that no assignment was found
// the remedy is relaxing constraints, not retrying the same input
type InfeasibleError struct {
	Attempts int
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("matcher: no valid assignment after %d attempts", e.Attempts)
}

// Is lets errors.Is match ErrInfeasible
func (e *InfeasibleError) Is(target error) bool { return target == ErrInfeasible }
