// Package driver holds the credential-gated retrieval contract: the
// Authenticator and Gateway collaborators, the Outcome they return, and the
// normalization of outcomes into HTTP responses.
package driver

import (
	"context"
	"errors"
)

// Class is the category of a single Authenticator or Gateway result.
// Exactly one class applies per call.
type Class int

const (
	Success Class = iota
	NoData
	InvalidCredentials
	AccessDenied
	InvalidInput
	UpstreamFailure
	Timeout
)

func (c Class) String() string {
	switch c {
	case Success:
		return "success"
	case NoData:
		return "no_data"
	case InvalidCredentials:
		return "invalid_credentials"
	case AccessDenied:
		return "access_denied"
	case InvalidInput:
		return "invalid_input"
	case UpstreamFailure:
		return "upstream_failure"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Outcome is a tagged result. Value is meaningful only for Success,
// Detail only for the failure classes.
type Outcome[T any] struct {
	Class  Class
	Value  T
	Detail string
}

func Ok[T any](v T) Outcome[T] { return Outcome[T]{Class: Success, Value: v} }

func Empty[T any]() Outcome[T] { return Outcome[T]{Class: NoData} }

func Fail[T any](c Class, detail string) Outcome[T] {
	return Outcome[T]{Class: c, Detail: detail}
}

// Recast carries a failure outcome over to another value type.
func Recast[T, U any](o Outcome[T]) Outcome[U] {
	return Outcome[U]{Class: o.Class, Detail: o.Detail}
}

// Aborted classifies a call cut short by ctx. A passed deadline is Timeout,
// any other cancellation an upstream failure.
func Aborted[T any](ctx context.Context) Outcome[T] {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Fail[T](Timeout, TimeoutDetail)
	}
	return Fail[T](UpstreamFailure, "request cancelled")
}
