package storage

import (
	"context"
	"errors"

	"github.com/ericogr/fleet-clash/internal/game"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrRoomFull = errors.New("room is full")
)

// MatchCommit is one revision-checked write of a room's match state. The
// roster, room status and archive side effects land in the same
// transaction, or not at all.
type MatchCommit struct {
	Next *game.MatchState
	// ExpectedRevision is the revision Next was derived from. The write is
	// rejected when the stored row has moved on.
	ExpectedRevision int
	// Lives and Ready overwrite roster entries keyed by player id.
	Lives map[string]int
	Ready map[string]bool
	// Status, when set, replaces the room status.
	Status  game.RoomStatus
	Archive *game.FleetArchive
}

type Repository interface {
	CreateRoom(ctx context.Context, room *game.Room) error
	GetRoom(ctx context.Context, roomID string) (*game.Room, error)
	// AddPlayer appends a roster entry unless the room already holds
	// maxPlayers entries, in which case ErrRoomFull is returned.
	AddPlayer(ctx context.Context, p *game.Player, maxPlayers int) error

	GetMatch(ctx context.Context, roomID string) (*game.MatchState, error)
	// CreateMatch inserts the first match state of a room. It returns false
	// when the room already has one.
	CreateMatch(ctx context.Context, c MatchCommit) (bool, error)
	// CommitMatch applies c when the stored revision still equals
	// c.ExpectedRevision and reports whether it did.
	CommitMatch(ctx context.Context, c MatchCommit) (bool, error)

	// LatestArchive returns the most recent archived fleet of playerID.
	LatestArchive(ctx context.Context, roomID, playerID string) (*game.FleetArchive, error)
}
