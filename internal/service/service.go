package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/ericogr/fleet-clash/internal/game"
	"github.com/ericogr/fleet-clash/internal/logging"
	"github.com/ericogr/fleet-clash/internal/storage"
)

// maxCommitAttempts bounds how often a write re-reads the match after
// losing the revision race.
const maxCommitAttempts = 5

// MaxPlayers is the roster size of a room.
const MaxPlayers = 2

// Repo is the persistence the match flow needs.
type Repo interface {
	CreateRoom(ctx context.Context, room *game.Room) error
	GetRoom(ctx context.Context, roomID string) (*game.Room, error)
	AddPlayer(ctx context.Context, p *game.Player, maxPlayers int) error
	GetMatch(ctx context.Context, roomID string) (*game.MatchState, error)
	CreateMatch(ctx context.Context, c storage.MatchCommit) (bool, error)
	CommitMatch(ctx context.Context, c storage.MatchCommit) (bool, error)
	LatestArchive(ctx context.Context, roomID, playerID string) (*game.FleetArchive, error)
}

// Notifier is told about every committed change of a room so subscribed
// sessions can pull the new state.
type Notifier interface {
	MatchChanged(roomID string)
}

type nopNotifier struct{}

func (nopNotifier) MatchChanged(string) {}

// Options configures a MatchService.
type Options struct {
	StartingLives int
	MaxFleetSize  int
	Notifier      Notifier
	// Now is the clock used for round seeds. Defaults to time.Now.
	Now func() time.Time
}

// MatchService coordinates the rounds of every room. It holds no per-room
// state: all coordination goes through the revision-checked store.
type MatchService struct {
	repo          Repo
	notifier      Notifier
	now           func() time.Time
	startingLives int
	maxFleetSize  int
}

func NewMatchService(repo Repo, opts Options) *MatchService {
	s := &MatchService{
		repo:          repo,
		notifier:      opts.Notifier,
		now:           opts.Now,
		startingLives: opts.StartingLives,
		maxFleetSize:  opts.MaxFleetSize,
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.startingLives <= 0 {
		s.startingLives = 3
	}
	return s
}

// SetNotifier replaces the notifier. It must be called before the service
// is shared between goroutines.
func (s *MatchService) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	s.notifier = n
}

// sideEffects collects the roster, room and archive writes of one
// transition. They are committed together with the match state.
type sideEffects struct {
	lives   map[string]int
	ready   map[string]bool
	status  game.RoomStatus
	archive *game.FleetArchive
}

func (e *sideEffects) setLives(playerID string, lives int) {
	if e.lives == nil {
		e.lives = map[string]int{}
	}
	e.lives[playerID] = lives
}

func (e *sideEffects) setReady(playerID string, ready bool) {
	if e.ready == nil {
		e.ready = map[string]bool{}
	}
	e.ready[playerID] = ready
}

// transition inspects the current room and mutates m in place. Returning
// false means the precondition no longer holds and nothing is written.
// It may run more than once per call when a concurrent write wins.
type transition func(room *game.Room, m *game.MatchState, fx *sideEffects) (bool, error)

// update runs apply against a fresh read of roomID and commits the result
// only if no other write landed in between; otherwise it retries from a new
// read so the phase checks in apply see the latest state.
func (s *MatchService) update(ctx context.Context, roomID string, apply transition) (bool, error) {
	for attempt := 1; attempt <= maxCommitAttempts; attempt++ {
		// Match first: roster writes bump the revision, so a roster read
		// taken after it is covered by the commit check.
		current, err := s.loadMatch(ctx, roomID)
		if errors.Is(err, ErrMatchNotFound) {
			if _, rerr := s.loadRoom(ctx, roomID); rerr != nil {
				return false, rerr
			}
		}
		if err != nil {
			return false, err
		}
		room, err := s.loadRoom(ctx, roomID)
		if err != nil {
			return false, err
		}

		next := current.Clone()
		var fx sideEffects
		changed, err := apply(room, next, &fx)
		if err != nil || !changed {
			return false, err
		}
		next.Revision = current.Revision + 1

		ok, err := s.repo.CommitMatch(ctx, storageCommit(next, current.Revision, fx))
		if err != nil {
			return false, fmt.Errorf("commit match %s: %w", roomID, err)
		}
		if ok {
			s.notifier.MatchChanged(roomID)
			return true, nil
		}
		logging.Debug("match revision moved; retrying", logging.Fields{
			constants.LogFieldRoomID:  roomID,
			constants.LogFieldAttempt: attempt,
		})
	}
	return false, ErrConflict
}

func (s *MatchService) loadRoom(ctx context.Context, roomID string) (*game.Room, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *MatchService) loadMatch(ctx context.Context, roomID string) (*game.MatchState, error) {
	m, err := s.repo.GetMatch(ctx, roomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if m.PlayerStates == nil {
		m.PlayerStates = map[string]game.PlayerRoundState{}
	}
	if m.Acks == nil {
		m.Acks = map[string]bool{}
	}
	return m, nil
}

// findPlayer returns the roster entry of playerID or nil.
func findPlayer(room *game.Room, playerID string) *game.Player {
	for i := range room.Players {
		if room.Players[i].PlayerID == playerID {
			return &room.Players[i]
		}
	}
	return nil
}

// orderedPlayers returns the roster with the host first. The host fights
// as side A.
func orderedPlayers(room *game.Room) []game.Player {
	out := make([]game.Player, 0, len(room.Players))
	for _, p := range room.Players {
		if p.IsHost {
			out = append(out, p)
		}
	}
	for _, p := range room.Players {
		if !p.IsHost {
			out = append(out, p)
		}
	}
	return out
}

// opponentOf returns the other roster entry of a two-player room.
func opponentOf(room *game.Room, playerID string) *game.Player {
	for i := range room.Players {
		if room.Players[i].PlayerID != playerID {
			return &room.Players[i]
		}
	}
	return nil
}
