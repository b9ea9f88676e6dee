// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as services
// and handlers to distinguish between different failure scenarios without
// inspecting driver-specific errors.
package repository

import "errors"

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint,
// e.g. creating an event whose event_id is already taken.
var ErrDuplicate = errors.New("duplicate")

// ErrInsufficientSeats is returned by the conditional seat decrement when
// the availability floor would be crossed.  The reservation did not happen.
var ErrInsufficientSeats = errors.New("insufficient seats")
