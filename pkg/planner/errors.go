package planner

import "errors"

// Error kinds returned by the planner. Concrete errors wrap one of these, so callers should
// match with errors.Is and show err.Error() to the user.
var (
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrSeatOccupied     = errors.New("seat already occupied")
	ErrGuestUnavailable = errors.New("guest unavailable")
	ErrSchema           = errors.New("invalid document")
	ErrIO               = errors.New("storage failure")
)
