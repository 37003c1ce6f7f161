// Package repository provides the in-memory keyed stores backing the
// coordination core. Stores are injected per process instance so tests can
// run against isolated state; none of them are durable across restart.
package repository

import "errors"

// ErrRecordNotFound is returned when a keyed lookup misses
var ErrRecordNotFound = errors.New("record not found")
