package cachepool

import "errors"

// ErrInvalidKey is wrapped by every key-validation failure. Invalid keys are
// programmer errors: unlike backend failures they are never reduced to a
// miss, every key-accepting operation surfaces them immediately.
var ErrInvalidKey = errors.New("cachepool: invalid key")
