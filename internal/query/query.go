// Package query provides a process-wide cache of asynchronous collection
// reads, keyed by logical collection identity. Views read immutable Query
// snapshots; mutations mark a key stale, which pings subscribers so mounted
// views refetch and re-derive their render state.
package query

// Status describes the lifecycle of an asynchronous read.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// TypedError is the error shape surfaced from a failed read: a
// human-readable message plus an optional machine-readable code.
type TypedError struct {
	Message string
	Code    string
}

func (e *TypedError) Error() string {
	if e.Code != "" {
		return e.Message + " (" + e.Code + ")"
	}
	return e.Message
}

// Query is an immutable snapshot of one asynchronous read. Exactly one of
// the three statuses holds at a time; Data is meaningful only on success
// and Err only on error.
type Query[T any] struct {
	Status     Status
	Data       T
	Err        *TypedError
	Refetching bool
}

// Pending returns a snapshot for a read that has not completed yet.
func Pending[T any]() Query[T] {
	return Query[T]{Status: StatusPending}
}

// Success returns a snapshot for a completed read.
func Success[T any](data T) Query[T] {
	return Query[T]{Status: StatusSuccess, Data: data}
}

// Failure returns a snapshot for a failed read.
func Failure[T any](err *TypedError) Query[T] {
	return Query[T]{Status: StatusError, Err: err}
}

// Refetch returns a loading snapshot that keeps the previous data around.
// Views must still treat it as loading: Refetching wins over Status.
func Refetch[T any](prev Query[T]) Query[T] {
	next := prev
	next.Refetching = true
	return next
}
