// Package store provides durable snapshot backends for the offline booking
// queue. Every backend persists one serialized collection under the
// well-known storage key; partial writes are never observable.
package store

import "fmt"

// StorageError wraps a persistence failure. It is the only hard error the
// queue surfaces: losing the durable copy of pending work invalidates the
// component's core invariant.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
