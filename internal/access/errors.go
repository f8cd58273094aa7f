package access

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidPasscode = errors.New("invalid passcode")
	ErrExpiredPasscode = errors.New("passcode has expired")
	ErrLocked          = errors.New("passcode is locked")
)

// LockedError reports when a locked passcode may be used again. It matches
// ErrLocked via errors.Is.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("passcode is locked until %s", e.Until.Format(time.RFC3339))
}

func (e *LockedError) Is(target error) bool {
	return target == ErrLocked
}
