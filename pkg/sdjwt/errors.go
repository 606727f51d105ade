package sdjwt

import (
	"fmt"

	"github.com/moogar0880/problems"
)

// Kind is a machine-readable error classification. Callers should switch on
// Kind rather than inspect Message, which carries only a human-readable,
// sanitized summary.
type Kind string

const (
	KindInvalidSignature    Kind = "invalid-signature"
	KindDigestMismatch      Kind = "digest-mismatch"
	KindTokenExpired        Kind = "token-expired"
	KindTokenNotYetValid    Kind = "token-not-yet-valid"
	KindUnsupportedAlg      Kind = "unsupported-algorithm"
	KindMalformedDisclosure Kind = "malformed-disclosure"
	KindMissingRequired     Kind = "missing-required-claim"
	KindAlgConfusion        Kind = "algorithm-confusion"
	KindKeyBindingInvalid   Kind = "key-binding-invalid"
	KindInvalidInput        Kind = "invalid-input"
	KindHashAlgMismatch     Kind = "hash-algorithm-mismatch"
	KindKeyIDNotFound       Kind = "key-id-not-found"
	KindKeyResolverMissing  Kind = "key-resolver-missing"
	KindKeyResolverFailed   Kind = "key-resolver-failed"
)

// Error is the single error type this package returns. It always carries a
// Kind from the fixed set above, plus a sanitized Message. The underlying
// cause, if any, is reachable via Unwrap but is never rendered into Message
// (messages never embed secrets, key material, signatures, or
// partial-comparison state, per the no-oracle requirement on verification
// failures).
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// NewError builds an Error with no wrapped cause.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds an Error that wraps cause. cause's own message is never
// copied into Message — callers that need it can unwrap.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// ProblemDetails adapts an Error into an RFC 7807 problem, for callers that
// front this library with an HTTP API. The core library never imports an
// HTTP package itself; this is a pure data-shaping convenience.
func ProblemDetails(err *Error) *problems.Problem {
	if err == nil {
		return nil
	}

	status := 400
	switch err.Kind {
	case KindInvalidSignature, KindDigestMismatch, KindKeyBindingInvalid,
		KindAlgConfusion, KindKeyIDNotFound, KindKeyResolverFailed,
		KindKeyResolverMissing:
		status = 401
	case KindTokenExpired, KindTokenNotYetValid:
		status = 403
	}

	p := problems.NewStatusProblem(status)
	p.Title = string(err.Kind)
	p.Detail = err.Message
	return p
}
