// Package agenterr provides the structured error type shared across the
// probe core, the driver boundary, and the HTTP façade.
package agenterr

import (
	"errors"
	"fmt"
)

// Code is a high-level error category from the probe core's error taxonomy.
type Code string

const (
	CodeValidationError   Code = "validation error"
	CodeResourceBusy      Code = "resource busy"
	CodeIllegalTransition Code = "illegal transition"
	CodeDriverError       Code = "driver error"
	CodeFirmwareError     Code = "firmware error"
	CodeInconsistentState Code = "inconsistent state"
	CodeRingBufferFault   Code = "ring buffer fault"
	CodeClientAbort       Code = "client abort"
)

// Error is a structured agent error with enough context to log, map to an
// HTTP status, and unwrap to whatever caused it.
type Error struct {
	Op      string // operation that failed (e.g. "set_state", "read_available")
	ProbeID int    // probe id (-1 if not applicable)
	Code    Code
	Status  int32 // raw driver/firmware status, 0 if not applicable
	Msg     string
	Inner   error
}

func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.ProbeID >= 0 {
		parts = append(parts, fmt.Sprintf("probe=%d", e.ProbeID))
	}
	if e.Status != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.Status))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}

	if len(parts) > 0 {
		return fmt.Sprintf("agent: %s (%s)", msg, parts[0])
	}
	return fmt.Sprintf("agent: %s", msg)
}

func (e *Error) Unwrap() error {
	return e.Inner
}

func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// New creates a structured error with no probe/status context.
func New(op string, code Code, msg string) *Error {
	return &Error{Op: op, ProbeID: -1, Code: code, Msg: msg}
}

// NewForProbe creates a structured error scoped to a probe id.
func NewForProbe(op string, probeID int, code Code, msg string) *Error {
	return &Error{Op: op, ProbeID: probeID, Code: code, Msg: msg}
}

// NewWithStatus creates a driver/firmware error carrying the raw status code
// that the ioctl or firmware reply returned.
func NewWithStatus(op string, code Code, status int32, msg string) *Error {
	return &Error{Op: op, ProbeID: -1, Code: code, Status: status, Msg: msg}
}

// Wrap wraps inner under op, preserving inner's code if it is already an
// *Error, otherwise classifying it as a DriverError.
func Wrap(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	var ae *Error
	if errors.As(inner, &ae) {
		return &Error{
			Op:      op,
			ProbeID: ae.ProbeID,
			Code:    ae.Code,
			Status:  ae.Status,
			Msg:     ae.Msg,
			Inner:   ae.Inner,
		}
	}
	return &Error{Op: op, ProbeID: -1, Code: CodeDriverError, Msg: inner.Error(), Inner: inner}
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
