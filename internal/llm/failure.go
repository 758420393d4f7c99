package llm

import "fmt"

// FailureKind classifies a normalized dispatch failure.
type FailureKind string

const (
	FailureConfig  FailureKind = "config"
	FailureBusy    FailureKind = "busy"
	FailureNetwork FailureKind = "network"
	FailureTimeout FailureKind = "timeout"
	FailureStatus  FailureKind = "status"
	FailureDecode  FailureKind = "decode"
	FailureExtract FailureKind = "extract"
)

// Failure is the single error type that crosses the router boundary. Every
// network exception, bad status, decode problem, or missing field is converted
// into one of these; nothing below the caller is allowed to panic or leak a
// transport-specific error type.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string { return f.Message }

func newFailure(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// FailureKindOf inspects an error produced by Dispatch. The second return is
// false for foreign errors.
func FailureKindOf(err error) (FailureKind, bool) {
	failure, ok := err.(*Failure)
	if !ok {
		return "", false
	}
	return failure.Kind, true
}
