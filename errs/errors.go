// Package errs defines the error taxonomy shared by the registry, translator and engine.
// Callers inspect errors with errors.As.
package errs

import (
	"fmt"
	"strconv"
)

// ConnectionError means the transport is unreachable, closed, failed or timed out
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return "connection error: " + e.Addr + " is not connected"
	}
	return "connection error: " + e.Addr + ": " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// AuthError means a gated operation ran before authentication or AUTH was rejected
type AuthError struct {
	Command string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return "auth error: " + e.Command + ": " + e.Err.Error()
	}
	return "auth error: " + e.Command + " requires an authenticated connection"
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ArityError means the argument count is out of the descriptor bounds.
// A negative Max means unbounded.
type ArityError struct {
	Command string
	Got     int
	Min     int
	Max     int
}

func (e *ArityError) Error() string {
	bound := "unbounded"
	if e.Max >= 0 {
		bound = strconv.Itoa(e.Min + e.Max)
	}
	return fmt.Sprintf("ERR wrong number of arguments for '%s' command: got %d, expected [%d, %s]",
		e.Command, e.Got, e.Min, bound)
}

// ValidationError means a validator rejected the arguments
type ValidationError struct {
	Command string
	Reason  string
}

func (e *ValidationError) Error() string {
	return "ERR invalid arguments for '" + e.Command + "' command: " + e.Reason
}

// ProtocolError means the reply discriminant is not the one the operation expects
type ProtocolError struct {
	Command  string
	Expected string
	Actual   string
}

func (e *ProtocolError) Error() string {
	return "protocol error: " + e.Command + " expected " + e.Expected + " reply, got " + e.Actual
}

// DecodeError means the reply shape does not match the requested value kind
type DecodeError struct {
	Kind   string
	Reason string
}

func (e *DecodeError) Error() string {
	return "decode error: cannot decode " + e.Kind + ": " + e.Reason
}

// UnknownTypeError means type introspection returned an unrecognized tag
type UnknownTypeError struct {
	Key  string
	Type string
}

func (e *UnknownTypeError) Error() string {
	return "unknown type '" + e.Type + "' of key " + e.Key
}

// DomainError is a semantic failure such as a missing key
type DomainError struct {
	Command string
	Reason  string
}

func (e *DomainError) Error() string {
	return e.Command + ": " + e.Reason
}

// ServerError is an error reply sent by the backend
type ServerError struct {
	Command string
	Msg     string
}

func (e *ServerError) Error() string {
	return e.Command + ": " + e.Msg
}

// NotSupportedError means the backend cannot run the command
type NotSupportedError struct {
	Backend string
	Command string
}

func (e *NotSupportedError) Error() string {
	return "ERR command '" + e.Command + "' is not supported by " + e.Backend
}

// KeyNotFound creates the DomainError of a nil reply
func KeyNotFound(command string) *DomainError {
	return &DomainError{Command: command, Reason: "key not found"}
}
