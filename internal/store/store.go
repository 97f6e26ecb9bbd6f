// Package store provides database access methods for all Rezepta
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods. Find methods return (nil, nil) when a row does not exist;
// the resolution paths that must distinguish a missing row return
// ErrNotFound instead.
package store

import "errors"

// ErrNotFound marks a failed id resolution (numeric or legacy key).
// Callers surface it as a data-consistency error distinct from generic
// database failures.
var ErrNotFound = errors.New("store: not found")
