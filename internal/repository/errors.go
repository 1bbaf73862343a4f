// Package repository implements persistence over the MongoDB collections.
// Sentinel errors let handlers and the central error handler distinguish
// failure classes without inspecting driver internals.
package repository

import "errors"

// ErrEmailExists is returned when a create hits the unique email index.
// The error handler translates it into the fixed duplicate-account message.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a document lookup matches nothing.
var ErrNotFound = errors.New("not found")
