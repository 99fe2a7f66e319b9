package adjust

import "fmt"

// InsufficientDataError means a fitting pass cannot run on the given rows:
// too few rows for the fold count, or a target with no variance.
type InsufficientDataError struct {
	Rows   int
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data (%d rows): %s", e.Rows, e.Reason)
}

// UnknownTeamError is returned when a team has no column in the fitted model
// for the requested namespace. Callers joining onto a team universe treat it
// as a missing cell.
type UnknownTeamError struct {
	Namespace string
	Team      string
}

func (e *UnknownTeamError) Error() string {
	return fmt.Sprintf("no %s column for team %q", e.Namespace, e.Team)
}

// DegenerateRegularizationError rejects a non-positive penalty. The design
// matrix is rank deficient and only a positive penalty makes the fit unique.
type DegenerateRegularizationError struct {
	Penalty float64
}

func (e *DegenerateRegularizationError) Error() string {
	return fmt.Sprintf("ridge penalty must be positive, got %g", e.Penalty)
}
