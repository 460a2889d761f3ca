// Package matcherr implements the action-validation error taxonomy from
// spec §7. Every action failure the executor surfaces to a caller is one of
// these types; all of them satisfy error and are errors.Is-comparable
// against the exported sentinels so callers can branch on category without
// a type switch.
package matcherr

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is comparisons. Concrete error types below wrap one
// of these via Unwrap so category checks work regardless of the offending
// match/action context carried alongside.
var (
	ErrInvalidState          = errors.New("invalid state")
	ErrInvalidPhase          = errors.New("invalid phase")
	ErrNotPlayerTurn         = errors.New("not player turn")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInvalidTarget         = errors.New("invalid target")
	ErrRuleViolation         = errors.New("rule violation")
	ErrInvalidAction         = errors.New("invalid action")
)

// InvalidStateError reports an action submitted while the match is not in a
// state that permits it.
type InvalidStateError struct {
	MatchID string
	Action  string
	State   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("match %s: action %q not permitted in state %q", e.MatchID, e.Action, e.State)
}
func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// InvalidPhaseError reports an action submitted outside the turn phase that
// permits it.
type InvalidPhaseError struct {
	MatchID string
	Action  string
	Phase   string
}

func (e *InvalidPhaseError) Error() string {
	return fmt.Sprintf("match %s: action %q not permitted in phase %q", e.MatchID, e.Action, e.Phase)
}
func (e *InvalidPhaseError) Unwrap() error { return ErrInvalidPhase }

// NotPlayerTurnError reports a caller acting outside their own turn, for an
// action that isn't otherwise universally allowed (e.g. CONCEDE).
type NotPlayerTurnError struct {
	MatchID        string
	PlayerID       string
	CurrentPlayer  string
	Action         string
}

func (e *NotPlayerTurnError) Error() string {
	return fmt.Sprintf("match %s: player %s submitted %q but it is %s's turn", e.MatchID, e.PlayerID, e.Action, e.CurrentPlayer)
}
func (e *NotPlayerTurnError) Unwrap() error { return ErrNotPlayerTurn }

// InsufficientResourcesError reports an action that failed for want of some
// consumable resource: deck empty on draw, energy cost unmet, empty hand to
// discard from, and the like.
type InsufficientResourcesError struct {
	MatchID  string
	Action   string
	Resource string
	Needed   int
	Have     int
}

func (e *InsufficientResourcesError) Error() string {
	return fmt.Sprintf("match %s: action %q needs %d %s, has %d", e.MatchID, e.Action, e.Needed, e.Resource, e.Have)
}
func (e *InsufficientResourcesError) Unwrap() error { return ErrInsufficientResources }

// InvalidTargetError reports a target slot that is empty, not on the bench,
// the wrong card type, or an evolution mismatch.
type InvalidTargetError struct {
	MatchID string
	Action  string
	Target  string
	Reason  string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("match %s: action %q target %q invalid: %s", e.MatchID, e.Action, e.Target, e.Reason)
}
func (e *InvalidTargetError) Unwrap() error { return ErrInvalidTarget }

// RuleViolationError reports a card rule, once-per-turn flag, or similar
// game-rule denial that isn't a state/phase/turn/resource/target problem.
type RuleViolationError struct {
	MatchID string
	Action  string
	Rule    string
}

func (e *RuleViolationError) Error() string {
	return fmt.Sprintf("match %s: action %q violates rule %q", e.MatchID, e.Action, e.Rule)
}
func (e *RuleViolationError) Unwrap() error { return ErrRuleViolation }

// InvalidActionError reports a malformed or unknown action submission.
type InvalidActionError struct {
	MatchID string
	Action  string
	Reason  string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("match %s: malformed action %q: %s", e.MatchID, e.Action, e.Reason)
}
func (e *InvalidActionError) Unwrap() error { return ErrInvalidAction }
