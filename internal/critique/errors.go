package critique

import "errors"

// Sentinel errors, one per distinct machine-checkable failure mode (§7).
// Use errors.Is against these; ingestion wraps them with per-item context.
var (
	// ErrInvalidArgument is returned for type-wrong inputs, e.g. non-string
	// text handed to the normalizer.
	ErrInvalidArgument = errors.New("critique: invalid argument")

	// ErrDerivedFromMissing means a derived_from ID isn't in the canonical
	// store and wasn't minted earlier in the same ingestion call.
	ErrDerivedFromMissing = errors.New("critique: derived_from references an unknown item")

	// ErrForwardReferenceInResponse means a same-response derived_from
	// parent appears later in parse order than the child referencing it.
	ErrForwardReferenceInResponse = errors.New("critique: derived_from references an item not yet minted in this response")

	// ErrClosedIDReactivation means derived_from points at a terminal item.
	ErrClosedIDReactivation = errors.New("critique: derived_from references a closed item")

	// ErrUnknownDisposition means decision isn't one of the five enum values.
	ErrUnknownDisposition = errors.New("critique: unknown disposition decision")

	// ErrTransformedWithoutChildren means decision=transformed but no
	// host-computable child IDs exist for the item.
	ErrTransformedWithoutChildren = errors.New("critique: transformed disposition without child items")

	// ErrBlockingCannotDefer means a blocking item was given decision=deferred.
	ErrBlockingCannotDefer = errors.New("critique: blocking item cannot be deferred")

	// ErrCycleDetected is the sentinel CycleError unwraps to. ValidateDAG
	// itself reports a cycle through its (valid, cycle) return values rather
	// than an error.
	ErrCycleDetected = errors.New("critique: cycle detected in derivation graph")
)

// CycleError wraps ErrCycleDetected with the offending cycle, listed in
// traversal order.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	s := "critique: cycle detected: "
	for i, id := range e.Cycle {
		if i > 0 {
			s += " -> "
		}
		s += id
	}
	return s
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }

// ItemError associates a structural ingestion error with the raw item index
// that produced it, so the host can attribute errors back to model output.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string { return e.Err.Error() }

func (e *ItemError) Unwrap() error { return e.Err }
