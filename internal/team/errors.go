package team

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Registry.Get when no team matches.
	ErrNotFound = errors.New("team not found")
	// ErrAlreadyExists is returned by Registry.Create when the file exists
	// and overwrite was not requested.
	ErrAlreadyExists = errors.New("team already exists")
)

// ErrorKind classifies a configuration problem.
type ErrorKind int

const (
	KindMissingField ErrorKind = iota + 1
	KindTypeMismatch
	KindInvalidLead
	KindDuplicateMember
	KindMalformedHeader
	KindNameMismatch
	KindInvalidName
	KindUnreadable
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingField:
		return "missing field"
	case KindTypeMismatch:
		return "type mismatch"
	case KindInvalidLead:
		return "invalid lead"
	case KindDuplicateMember:
		return "duplicate member"
	case KindMalformedHeader:
		return "malformed header"
	case KindNameMismatch:
		return "name mismatch"
	case KindInvalidName:
		return "invalid name"
	case KindUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// ConfigError is one problem found in a team configuration.
type ConfigError struct {
	Kind     ErrorKind
	Field    string // header key, e.g. "lead_agent" or "members[2].employee_id"
	Expected string // expected type, for KindTypeMismatch
	Value    string // offending value, when there is one
	Line     int    // 1-based header line, 0 when unknown
	Detail   string
}

func (e *ConfigError) Error() string {
	var msg string
	switch e.Kind {
	case KindMissingField:
		msg = fmt.Sprintf("missing required field %q", e.Field)
	case KindTypeMismatch:
		msg = fmt.Sprintf("field %q must be a %s", e.Field, e.Expected)
	case KindInvalidLead:
		msg = fmt.Sprintf("lead agent %q is not in the members list", e.Value)
	case KindDuplicateMember:
		msg = fmt.Sprintf("member %q is listed more than once", e.Value)
	case KindMalformedHeader:
		msg = "malformed header"
	case KindNameMismatch:
		msg = fmt.Sprintf("team name %q does not match file name %q", e.Value, e.Detail)
	case KindInvalidName:
		msg = fmt.Sprintf("team name %q is not a valid file name", e.Value)
	case KindUnreadable:
		msg = "cannot read team file"
	default:
		msg = "invalid configuration"
	}
	if e.Detail != "" && e.Kind != KindNameMismatch {
		msg += ": " + e.Detail
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

// MissingField reports an absent required header field.
func MissingField(field string) *ConfigError {
	return &ConfigError{Kind: KindMissingField, Field: field}
}

// TypeMismatch reports a header value of the wrong type.
func TypeMismatch(field, expected string) *ConfigError {
	return &ConfigError{Kind: KindTypeMismatch, Field: field, Expected: expected}
}

// InvalidLead reports a lead_agent that is not a member.
func InvalidLead(lead string) *ConfigError {
	return &ConfigError{Kind: KindInvalidLead, Field: "lead_agent", Value: lead}
}

// DuplicateMember reports a member id declared twice.
func DuplicateMember(id string) *ConfigError {
	return &ConfigError{Kind: KindDuplicateMember, Field: "members", Value: id}
}

func malformedHeader(detail string) *ConfigError {
	return &ConfigError{Kind: KindMalformedHeader, Detail: detail}
}

// ConfigErrors collects every problem found in one configuration.
type ConfigErrors []*ConfigError

func (es ConfigErrors) Error() string {
	switch len(es) {
	case 0:
		return "no configuration errors"
	case 1:
		return es[0].Error()
	}
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d configuration errors: %s", len(es), strings.Join(msgs, "; "))
}

// Has reports whether any collected problem is of kind k.
func (es ConfigErrors) Has(k ErrorKind) bool {
	for _, e := range es {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (es ConfigErrors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// AsConfigErrors extracts the collected problems from err.
func AsConfigErrors(err error) (ConfigErrors, bool) {
	var es ConfigErrors
	if errors.As(err, &es) {
		return es, true
	}
	return nil, false
}
