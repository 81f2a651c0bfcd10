package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidProductID is returned by use cases for a non-positive product id
var ErrInvalidProductID = errors.New("invalid product id")

// ErrMalformedFavorites marks a persisted blob that does not match the schema
var ErrMalformedFavorites = errors.New("malformed favorites data")

// StorageReadError reports a persisted value that exists but cannot be read
// or parsed. It is never used for an absent value.
type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("storage read %s: %v", e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error {
	return e.Err
}

// StorageWriteError reports a failed encode or write. The previously
// persisted value is left unchanged.
type StorageWriteError struct {
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("storage write %s: %v", e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}

// IsStorageReadError reports whether err wraps a StorageReadError
func IsStorageReadError(err error) bool {
	var target *StorageReadError
	return errors.As(err, &target)
}

// IsStorageWriteError reports whether err wraps a StorageWriteError
func IsStorageWriteError(err error) bool {
	var target *StorageWriteError
	return errors.As(err, &target)
}
