package domain

import "errors"

// ErrNotFound is returned by point lookups when no document matches.
var ErrNotFound = errors.New("document not found")
