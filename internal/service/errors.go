package service

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrPlayerNotFound      = errors.New("player not in room")
	ErrMatchNotFound       = errors.New("match not started")
	ErrNotInSetup          = errors.New("match is not in setup phase")
	ErrRoomFull            = errors.New("room is full")
	ErrInvalidFleet        = errors.New("invalid fleet snapshot")
	ErrNotEnoughPlayers    = errors.New("two players are required")
	ErrMatchAlreadyStarted = errors.New("match already started")
	ErrMatchNotFinished    = errors.New("match is not finished")
	ErrArchiveNotFound     = errors.New("no archived fleet")
	// ErrConflict is returned when a write kept losing the revision race.
	ErrConflict = errors.New("match state changed concurrently")
)

// GuardReason is the machine-readable cause of a readiness rejection.
type GuardReason string

const (
	ReasonMissingSnapshot GuardReason = "missingSnapshot"
	ReasonInvalidFleet    GuardReason = "invalidFleet"
)

// GuardResult is the verdict of the readiness guard.
type GuardResult struct {
	OK     bool        `json:"ok"`
	Reason GuardReason `json:"reason,omitempty"`
}

// GuardError rejects a ready toggle. Callers translate Reason for display.
type GuardError struct {
	Reason GuardReason
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("cannot ready up: %s", e.Reason)
}
