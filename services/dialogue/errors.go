package dialogue

import "fmt"

// ErrorKind classifies a failed step so the flow can decide between a
// same-step retry prompt and an aborting session reset.
type ErrorKind string

const (
	// KindInputValidation covers malformed indexes, seat labels and time
	// ranges. Always recoverable in place; no gateway call is made.
	KindInputValidation ErrorKind = "inputValidation"
	// KindNotFound covers referents absent from the current snapshot.
	KindNotFound ErrorKind = "notFound"
	// KindConflict covers seats that exist but cannot be taken.
	KindConflict ErrorKind = "conflict"
	// KindDataIntegrity covers broken upstream data (missing seat code,
	// non-positive rate). Retrying cannot fix these; the flow aborts.
	KindDataIntegrity ErrorKind = "dataIntegrity"
	// KindUpstream covers gateway transport or error-shaped results.
	KindUpstream ErrorKind = "upstream"
)

// FlowError is a classified step failure.
type FlowError struct {
	Kind    ErrorKind
	Message string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Fatal reports whether the error aborts the flow rather than reprompting.
func (e *FlowError) Fatal() bool {
	return e.Kind == KindDataIntegrity
}

func newFlowError(kind ErrorKind, format string, args ...any) *FlowError {
	return &FlowError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
