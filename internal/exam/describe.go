package exam

import (
	"errors"
	"fmt"

	"github.com/abhisek/shelfexam/internal/access"
	"github.com/abhisek/shelfexam/internal/session"
	"github.com/abhisek/shelfexam/internal/store"
)

// Describe turns an error from Login or an Attempt into text for the
// participant.
func Describe(err error) string {
	var locked *access.LockedError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, access.ErrInvalidPasscode):
		return "Invalid passcode. Please try again."
	case errors.Is(err, access.ErrExpiredPasscode):
		return "This passcode has expired. Access is no longer allowed."
	case errors.As(err, &locked):
		return fmt.Sprintf("You have completed this exam. You can start a new one after %s.",
			locked.Until.Local().Format("Jan 2 15:04"))
	case errors.Is(err, access.ErrLocked):
		return "You have completed this exam. Please try later."
	case errors.Is(err, session.ErrPoolExhausted):
		return "No new questions are available right now. Please try later."
	case errors.Is(err, store.ErrPersistence):
		return "Your progress could not be saved. Please try again."
	case errors.Is(err, session.ErrAlreadyAnswered):
		return "This question has already been answered."
	case errors.Is(err, session.ErrNotAnswered):
		return "Choose an answer before moving on."
	case errors.Is(err, session.ErrInvalidChoice):
		return "That choice is not available for this question."
	case errors.Is(err, session.ErrCompleted):
		return "This exam is already complete."
	case errors.Is(err, session.ErrInvalidPosition), errors.Is(err, session.ErrNotCurrent):
		return "You can only revisit questions you have already reached."
	case errors.Is(err, ErrUnknownQuestion):
		return "This question is unavailable. Please contact the exam administrator."
	default:
		return "Something went wrong. Please try again."
	}
}
