package scheduling

import "errors"

var (
	ErrInvalidStage       = errors.New("invalid stage setup")
	ErrOrderLocked        = errors.New("order is non-changeable")
	ErrNotPendingApproval = errors.New("schedule entry is not pending approval")
)
