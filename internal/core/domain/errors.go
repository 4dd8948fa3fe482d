package domain

import "errors"

// ErrNotFound indicates a requested entity does not exist in storage or in
// the catalog.
var ErrNotFound = errors.New("domain: not found")
