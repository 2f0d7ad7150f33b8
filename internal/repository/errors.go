package repository

import "errors"

// ErrNotFound is returned when a requested row is not found in the
// repository. It abstracts the underlying storage implementation away
// from the service layer.
var ErrNotFound = errors.New("not found")
