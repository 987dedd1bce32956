package service

import (
	"errors"
	"fmt"
)

// --- Error Kinds ---
// Every error returned by this package wraps exactly one of these, so
// callers classify with errors.Is.
var (
	ErrValidation     = errors.New("invalid request")
	ErrAuthentication = errors.New("authentication failed")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)

// --- Error Definitions ---
var (
	ErrInvalidRole        = fmt.Errorf("%w: role must be Trainer or Trainee", ErrValidation)
	ErrUsernameTaken      = fmt.Errorf("%w: username already exists", ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrAuthentication)
	ErrInvalidToken       = fmt.Errorf("%w: missing, invalid or expired session", ErrAuthentication)

	ErrRoleNotPermitted = fmt.Errorf("%w: role not permitted for this operation", ErrForbidden)
	ErrNotGroupOwner    = fmt.Errorf("%w: caller does not own this group", ErrForbidden)
	ErrNotPlanCreator   = fmt.Errorf("%w: caller did not create this plan", ErrForbidden)
	ErrPlanNotVisible   = fmt.Errorf("%w: plan is not assigned to any of your groups", ErrForbidden)

	ErrGroupNotFound    = fmt.Errorf("%w: group", ErrNotFound)
	ErrInviteNotFound   = fmt.Errorf("%w: invite code", ErrNotFound)
	ErrWorkoutNotFound  = fmt.Errorf("%w: workout", ErrNotFound)
	ErrPlanNotFound     = fmt.Errorf("%w: workout plan", ErrNotFound)
	ErrProgressNotFound = fmt.Errorf("%w: progress entry", ErrNotFound)

	ErrUnknownWorkout = fmt.Errorf("%w: workout does not exist", ErrValidation)
	ErrOrderTaken     = fmt.Errorf("%w: order already used in this plan", ErrConflict)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
