package aggregator

import "fmt"

// PersistenceError reports a content-store failure while resolving a venue
// or writing an event. It aborts the event being processed, never the run.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
