package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/ericogr/fleet-clash/internal/game"
	"github.com/ericogr/fleet-clash/internal/keys"
	"github.com/ericogr/fleet-clash/internal/logging"
	"github.com/ericogr/fleet-clash/internal/storage"
	"github.com/google/uuid"
)

// MatchView is what clients see of a room: the roster and, once started,
// the match state.
type MatchView struct {
	Room  *game.Room       `json:"room"`
	Match *game.MatchState `json:"match,omitempty"`
}

// NewRoomID returns a short, human-typeable room id.
func NewRoomID() string {
	return keys.NormalizeRoomID(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// CreateRoom opens a room hosted by hostID.
func (s *MatchService) CreateRoom(ctx context.Context, hostID, faction string) (*game.Room, error) {
	room := &game.Room{
		ID:     NewRoomID(),
		Status: game.RoomStatusLobby,
		Players: []game.Player{{
			PlayerID: hostID,
			IsHost:   true,
			Lives:    s.startingLives,
			Faction:  faction,
		}},
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	logging.Info("room created", logging.Fields{constants.LogFieldRoomID: room.ID, constants.LogFieldPlayerID: hostID})
	return room, nil
}

// JoinRoom adds playerID to roomID. Joining a room one is already in is a
// no-op.
func (s *MatchService) JoinRoom(ctx context.Context, roomID, playerID, faction string) (*game.Room, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if findPlayer(room, playerID) != nil {
		return room, nil
	}
	p := &game.Player{RoomID: roomID, PlayerID: playerID, Lives: s.startingLives, Faction: faction}
	if err := s.repo.AddPlayer(ctx, p, MaxPlayers); err != nil {
		switch {
		case errors.Is(err, storage.ErrRoomFull):
			return nil, ErrRoomFull
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	logging.Info("player joined room", logging.Fields{constants.LogFieldRoomID: roomID, constants.LogFieldPlayerID: playerID})
	s.notifier.MatchChanged(roomID)
	return s.loadRoom(ctx, roomID)
}

// StartMatch creates the match state of a full room. Only a player of the
// room may start it and only once; later matches go through Rematch.
func (s *MatchService) StartMatch(ctx context.Context, roomID, playerID string) (*game.MatchState, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if findPlayer(room, playerID) == nil {
		return nil, ErrPlayerNotFound
	}
	if len(room.Players) != MaxPlayers {
		return nil, ErrNotEnoughPlayers
	}

	m := &game.MatchState{RoomID: roomID, Revision: 1}
	fx := s.freshMatch(room, m)
	created, err := s.repo.CreateMatch(ctx, storageCommit(m, 0, fx))
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrMatchAlreadyStarted
	}
	logging.Info("match started", logging.Fields{constants.LogFieldRoomID: roomID})
	s.notifier.MatchChanged(roomID)
	return s.loadMatch(ctx, roomID)
}

// Rematch resets a finished match to round one with full lives.
func (s *MatchService) Rematch(ctx context.Context, roomID, playerID string) (*game.MatchState, error) {
	_, err := s.update(ctx, roomID, func(room *game.Room, m *game.MatchState, fx *sideEffects) (bool, error) {
		if findPlayer(room, playerID) == nil {
			return false, ErrPlayerNotFound
		}
		if m.GamePhase != game.PhaseFinished {
			return false, ErrMatchNotFinished
		}
		*fx = s.freshMatch(room, m)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	logging.Info("rematch started", logging.Fields{constants.LogFieldRoomID: roomID})
	return s.loadMatch(ctx, roomID)
}

// freshMatch resets m to the first round of a new match and returns the
// roster writes that go with it.
func (s *MatchService) freshMatch(room *game.Room, m *game.MatchState) sideEffects {
	var fx sideEffects
	m.GamePhase = game.PhaseSetup
	m.RoundNum = 1
	m.PlayerStates = make(map[string]game.PlayerRoundState, len(room.Players))
	m.Acks = map[string]bool{}
	m.RoundSeed = ""
	m.RoundLog = nil
	m.LastWinner = ""
	m.PendingFinish = false
	for _, p := range room.Players {
		m.PlayerStates[p.PlayerID] = game.PlayerRoundState{Lives: s.startingLives}
		fx.setLives(p.PlayerID, s.startingLives)
		fx.setReady(p.PlayerID, false)
	}
	fx.status = game.RoomStatusPlaying
	return fx
}

func storageCommit(m *game.MatchState, expected int, fx sideEffects) storage.MatchCommit {
	return storage.MatchCommit{
		Next:             m,
		ExpectedRevision: expected,
		Lives:            fx.lives,
		Ready:            fx.ready,
		Status:           fx.status,
		Archive:          fx.archive,
	}
}

// GetMatch returns the current match state of roomID.
func (s *MatchService) GetMatch(ctx context.Context, roomID string) (*game.MatchState, error) {
	return s.loadMatch(ctx, roomID)
}

// GetView returns the roster and, when started, the match of roomID.
func (s *MatchService) GetView(ctx context.Context, roomID string) (*MatchView, error) {
	room, err := s.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	view := &MatchView{Room: room}
	m, err := s.loadMatch(ctx, roomID)
	switch {
	case err == nil:
		view.Match = m
	case !errors.Is(err, ErrMatchNotFound):
		return nil, err
	}
	return view, nil
}

// LastSeenFleet returns the most recent winning fleet archived for
// playerID in roomID.
func (s *MatchService) LastSeenFleet(ctx context.Context, roomID, playerID string) (*game.FleetArchive, error) {
	a, err := s.repo.LatestArchive(ctx, roomID, playerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrArchiveNotFound
		}
		return nil, err
	}
	return a, nil
}
