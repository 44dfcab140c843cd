package dispatch

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a dispatch failure.
type ErrorKind int

const (
	EmptyTask ErrorKind = iota + 1
	TeamDisabled
	InvalidConfig
	LeadUnresolvable
	UnresolvedVariable
	LeadStartFailed
	LeadAlreadyRunning
	SendFailed
)

// Sentinels matching each kind through errors.Is.
var (
	ErrEmptyTask          = errors.New("empty task")
	ErrTeamDisabled       = errors.New("team disabled")
	ErrInvalidConfig      = errors.New("invalid team configuration")
	ErrLeadUnresolvable   = errors.New("lead unresolvable")
	ErrUnresolvedVariable = errors.New("unresolved variable")
	ErrLeadStartFailed    = errors.New("lead start failed")
	ErrLeadAlreadyRunning = errors.New("lead already running")
	ErrSendFailed         = errors.New("send failed")
)

var sentinels = map[ErrorKind]error{
	EmptyTask:          ErrEmptyTask,
	TeamDisabled:       ErrTeamDisabled,
	InvalidConfig:      ErrInvalidConfig,
	LeadUnresolvable:   ErrLeadUnresolvable,
	UnresolvedVariable: ErrUnresolvedVariable,
	LeadStartFailed:    ErrLeadStartFailed,
	LeadAlreadyRunning: ErrLeadAlreadyRunning,
	SendFailed:         ErrSendFailed,
}

func (k ErrorKind) String() string {
	if s, ok := sentinels[k]; ok {
		return s.Error()
	}
	return "unknown"
}

// Error is returned by Dispatch. None of these are retried: resending a
// task would deliver it twice.
type Error struct {
	Kind     ErrorKind
	Team     string
	Member   string // lead id, when the failure concerns it
	Variable string // for UnresolvedVariable
	Err      error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case EmptyTask:
		msg = "task cannot be empty"
	case TeamDisabled:
		msg = fmt.Sprintf("team %s is disabled", e.Team)
	case InvalidConfig:
		msg = fmt.Sprintf("team %s has an invalid configuration", e.Team)
	case LeadUnresolvable:
		msg = fmt.Sprintf("cannot resolve lead %s of team %s", e.Member, e.Team)
	case UnresolvedVariable:
		msg = fmt.Sprintf("working directory of team %s references unset variable $%s", e.Team, e.Variable)
		return msg
	case LeadStartFailed:
		msg = fmt.Sprintf("start lead %s of team %s", e.Member, e.Team)
	case LeadAlreadyRunning:
		msg = fmt.Sprintf("lead %s of team %s is already running", e.Member, e.Team)
	case SendFailed:
		msg = fmt.Sprintf("send task to lead %s of team %s", e.Member, e.Team)
	default:
		msg = "dispatch failed"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}
