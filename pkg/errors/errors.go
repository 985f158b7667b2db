// Package errors defines the coded errors shared by the analyzer, the CLI
// and the HTTP API.
//
// Every failure a caller may act on carries a [Code]. Codes group into a
// [Class] (invalid input, not found, backend, unsupported, internal), which
// is what the server maps to HTTP statuses and what callers usually test:
//
//	if errors.IsNotFound(err) { ... }
//
// Use [New] for fresh errors and [Wrap] to attach a code to an underlying
// cause. The cause stays reachable through the standard library's
// errors.Is and errors.As.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code. It is the "code" field of API
// error bodies.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidFilter Code = "INVALID_FILTER"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeRootNotFound    Code = "ROOT_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeNodeNotFound    Code = "NODE_NOT_FOUND"

	ErrCodeCache Code = "CACHE_ERROR"
	ErrCodeStore Code = "STORE_ERROR"

	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// Class groups codes by how a caller should react.
type Class int

const (
	ClassInternal Class = iota
	ClassInvalid
	ClassNotFound
	ClassBackend
	ClassUnsupported
)

// Class derives the class from the code's name: INVALID_* codes are
// invalid input, *NOT_FOUND codes are lookups that failed, *_ERROR codes
// other than INTERNAL_ERROR are backend failures.
func (c Code) Class() Class {
	switch {
	case strings.HasPrefix(string(c), "INVALID_"):
		return ClassInvalid
	case strings.HasSuffix(string(c), "NOT_FOUND"):
		return ClassNotFound
	case c == ErrCodeUnsupported:
		return ClassUnsupported
	case c != ErrCodeInternal && strings.HasSuffix(string(c), "_ERROR"):
		return ClassBackend
	}
	return ClassInternal
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code and a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// ClassOf returns the class of err's code. Uncoded errors are internal.
func ClassOf(err error) Class { return GetCode(err).Class() }

func IsInvalid(err error) bool     { return err != nil && ClassOf(err) == ClassInvalid }
func IsNotFound(err error) bool    { return err != nil && ClassOf(err) == ClassNotFound }
func IsBackend(err error) bool     { return err != nil && ClassOf(err) == ClassBackend }
func IsUnsupported(err error) bool { return err != nil && ClassOf(err) == ClassUnsupported }

// UserMessage returns the message of a coded error without its code and
// cause, or err.Error() for anything else.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
