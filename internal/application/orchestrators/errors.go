package orchestrators

import "errors"

// Sentinel errors shared across orchestrators. The transport adapter branches
// on these to choose the user-visible reply.
var (
	ErrNotRegistered     = errors.New("user is not registered")
	ErrAlreadyRegistered = errors.New("user is already registered")
	ErrNotAdmin          = errors.New("action requires the admin role")
	ErrAlreadyAdmin      = errors.New("user is already an admin")
	ErrRequestPending    = errors.New("an admin request is already pending")
	ErrInvalidDate       = errors.New("day, month and year do not form a valid date")
)
