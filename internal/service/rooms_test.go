package service

import (
	"context"
	"testing"

	"github.com/ericogr/fleet-clash/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmptyService() (*MatchService, *mockRepo) {
	repo := newMockRepo()
	return NewMatchService(repo, Options{StartingLives: 2, MaxFleetSize: 4}), repo
}

func TestRoomLifecycle(t *testing.T) {
	svc, repo := newEmptyService()
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, "host", "terran")
	require.NoError(t, err)
	assert.Len(t, room.ID, 8)
	assert.Equal(t, game.RoomStatusLobby, room.Status)

	_, err = svc.StartMatch(ctx, room.ID, "host")
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	room, err = svc.JoinRoom(ctx, room.ID, "guest", "rift")
	require.NoError(t, err)
	require.Len(t, room.Players, 2)

	// Joining twice is harmless, a third player is not.
	_, err = svc.JoinRoom(ctx, room.ID, "guest", "rift")
	require.NoError(t, err)
	_, err = svc.JoinRoom(ctx, room.ID, "third", "")
	assert.ErrorIs(t, err, ErrRoomFull)

	_, err = svc.StartMatch(ctx, room.ID, "stranger")
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	m, err := svc.StartMatch(ctx, room.ID, "guest")
	require.NoError(t, err)
	assert.Equal(t, game.PhaseSetup, m.GamePhase)
	assert.Equal(t, 1, m.RoundNum)
	assert.Equal(t, 2, m.PlayerStates["host"].Lives)
	assert.Equal(t, game.RoomStatusPlaying, repo.rooms[room.ID].Status)

	_, err = svc.StartMatch(ctx, room.ID, "host")
	assert.ErrorIs(t, err, ErrMatchAlreadyStarted)

	view, err := svc.GetView(ctx, room.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Match)
	assert.Len(t, view.Room.Players, 2)
}

func TestJoinRoom_Unknown(t *testing.T) {
	svc, _ := newEmptyService()
	_, err := svc.JoinRoom(context.Background(), "NOPE", "p1", "")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestGetView_BeforeStart(t *testing.T) {
	svc, _ := newEmptyService()
	room, err := svc.CreateRoom(context.Background(), "host", "")
	require.NoError(t, err)

	view, err := svc.GetView(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Nil(t, view.Match)

	_, err = svc.GetMatch(context.Background(), room.ID)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestRematch(t *testing.T) {
	svc, repo, _ := newFixture(3, 1)
	ctx := context.Background()

	_, err := svc.Rematch(ctx, "ROOM1", "p1")
	assert.ErrorIs(t, err, ErrMatchNotFinished)

	armRound(repo, strongFleet(), weakFleet())
	resolved, err := svc.TryResolve(ctx, "ROOM1")
	require.NoError(t, err)
	require.True(t, resolved)
	require.Equal(t, game.PhaseFinished, repo.match("ROOM1").GamePhase)

	m, err := svc.Rematch(ctx, "ROOM1", "p2")
	require.NoError(t, err)
	assert.Equal(t, game.PhaseSetup, m.GamePhase)
	assert.Equal(t, 1, m.RoundNum)
	assert.Empty(t, m.RoundLog)
	assert.Empty(t, m.LastWinner)
	assert.False(t, m.PlayerStates["p1"].HasSnapshot())
	assert.Equal(t, 3, repo.player("ROOM1", "p2").Lives)
	assert.False(t, repo.player("ROOM1", "p1").IsReady)
	assert.Equal(t, game.RoomStatusPlaying, repo.rooms["ROOM1"].Status)
}

func TestLastSeenFleet(t *testing.T) {
	svc, _ := resolvedRound(t)
	ctx := context.Background()

	a, err := svc.LastSeenFleet(ctx, "ROOM1", "p1")
	require.NoError(t, err)
	assert.Equal(t, strongFleet(), a.Fleet)

	_, err = svc.LastSeenFleet(ctx, "ROOM1", "p2")
	assert.ErrorIs(t, err, ErrArchiveNotFound)
}
