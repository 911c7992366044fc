// Copyright 2025 TaskHub Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errs defines the failure taxonomy shared by the authorization
// engine and the service layer. Every failure is deterministic for the
// same inputs; there is no transient class and nothing here is retried.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota

	// KindAuthenticationRequired - no actor could be resolved.
	KindAuthenticationRequired

	// KindActorNotActive - the resolved actor's status is not ACTIVE.
	KindActorNotActive

	// KindNotFound - the target or a required parent does not exist, or is
	// soft-deleted and hidden from the caller's role.
	KindNotFound

	// KindAccessDenied - a capability check failed.
	KindAccessDenied

	// KindInvalidTransition - the requested status/role change is not in
	// the allowed-next set, or targets a terminal or self-same value.
	KindInvalidTransition

	// KindInvariantViolation - the operation would break a structural
	// invariant, e.g. demoting the last owner of a team.
	KindInvariantViolation

	// KindConflict - a uniqueness rule rejected the write.
	KindConflict

	// KindInternal - unexpected persistence or infrastructure failure.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindAuthenticationRequired:
		return "authentication required"
	case KindActorNotActive:
		return "actor not active"
	case KindNotFound:
		return "not found"
	case KindAccessDenied:
		return "access denied"
	case KindInvalidTransition:
		return "invalid transition"
	case KindInvariantViolation:
		return "invariant violation"
	case KindConflict:
		return "conflict"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a kinded error with a human-readable reason.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" && e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind from an error chain, KindUnknown if absent.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is lets sentinel comparison work on kinds: two *Error values match when
// their kinds match, so tests can assert errors.Is(err, errs.New(kind, "")).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsAccessDenied(err error) bool {
	return KindOf(err) == KindAccessDenied
}

func IsInvalidTransition(err error) bool {
	return KindOf(err) == KindInvalidTransition
}

func IsInvariantViolation(err error) bool {
	return KindOf(err) == KindInvariantViolation
}
