package types

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	InputError        ErrorKind = "input_error"
	DecodeError       ErrorKind = "decode_error"
	NetworkError      ErrorKind = "network_error"
	ResourceInitError ErrorKind = "resource_init_error"
)

// AnalysisError marks a request that could not be evaluated, as opposed to
// one that was evaluated and rejected.
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Retryable is true for failures where the same request may succeed later.
func (e *AnalysisError) Retryable() bool {
	return e.Kind == NetworkError
}

func NewInputError(message string) error {
	return &AnalysisError{Kind: InputError, Message: message}
}

func NewDecodeError(message string, err error) error {
	return &AnalysisError{Kind: DecodeError, Message: message, Err: err}
}

func NewNetworkError(message string, err error) error {
	return &AnalysisError{Kind: NetworkError, Message: message, Err: err}
}

func NewResourceInitError(message string, err error) error {
	return &AnalysisError{Kind: ResourceInitError, Message: message, Err: err}
}

// KindOf returns the kind of the first AnalysisError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return "", false
}

func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

var ErrPoolSaturated = errors.New("analysis backlog is full")
