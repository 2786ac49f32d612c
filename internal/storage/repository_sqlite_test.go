package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/ericogr/fleet-clash/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := OpenAndMigrate(dsn)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewSQLiteRepository(db)
}

func seedRoom(t *testing.T, repo Repository, players ...string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.CreateRoom(ctx, &game.Room{ID: "ROOM1", Status: game.RoomStatusLobby}))
	for i, p := range players {
		require.NoError(t, repo.AddPlayer(ctx, &game.Player{RoomID: "ROOM1", PlayerID: p, IsHost: i == 0, Lives: 3}, 2))
	}
}

func newMatch() *game.MatchState {
	return &game.MatchState{
		RoomID:    "ROOM1",
		GamePhase: game.PhaseSetup,
		RoundNum:  1,
		PlayerStates: map[string]game.PlayerRoundState{
			"p1": {Lives: 3},
			"p2": {Lives: 3},
		},
		Acks:     map[string]bool{},
		Revision: 1,
	}
}

func TestAddPlayer_RejectsThirdPlayer(t *testing.T) {
	repo := newTestRepo(t)
	seedRoom(t, repo, "p1", "p2")

	err := repo.AddPlayer(context.Background(), &game.Player{RoomID: "ROOM1", PlayerID: "p3"}, 2)
	assert.ErrorIs(t, err, ErrRoomFull)

	room, err := repo.GetRoom(context.Background(), "ROOM1")
	require.NoError(t, err)
	require.Len(t, room.Players, 2)
	assert.Equal(t, "p1", room.Players[0].PlayerID)
	assert.True(t, room.Players[0].IsHost)
}

func TestAddPlayer_UnknownRoom(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.AddPlayer(context.Background(), &game.Player{RoomID: "NOPE", PlayerID: "p1"}, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMatch_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetMatch(context.Background(), "ROOM1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateMatch_OnlyOnce(t *testing.T) {
	repo := newTestRepo(t)
	seedRoom(t, repo, "p1", "p2")
	ctx := context.Background()

	created, err := repo.CreateMatch(ctx, MatchCommit{Next: newMatch(), Status: game.RoomStatusPlaying})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateMatch(ctx, MatchCommit{Next: newMatch()})
	require.NoError(t, err)
	assert.False(t, created)

	room, err := repo.GetRoom(ctx, "ROOM1")
	require.NoError(t, err)
	assert.Equal(t, game.RoomStatusPlaying, room.Status)
}

func TestCommitMatch_RevisionCheck(t *testing.T) {
	repo := newTestRepo(t)
	seedRoom(t, repo, "p1", "p2")
	ctx := context.Background()
	_, err := repo.CreateMatch(ctx, MatchCommit{Next: newMatch()})
	require.NoError(t, err)

	stored, err := repo.GetMatch(ctx, "ROOM1")
	require.NoError(t, err)

	first := stored.Clone()
	first.GamePhase = game.PhaseCombat
	first.RoundLog = []string{"Round 1"}
	first.Revision = stored.Revision + 1
	ok, err := repo.CommitMatch(ctx, MatchCommit{
		Next:             first,
		ExpectedRevision: stored.Revision,
		Lives:            map[string]int{"p2": 2},
		Archive:          &game.FleetArchive{RoomID: "ROOM1", RoundNum: 1, PlayerID: "p1", Fleet: game.Fleet{{Hull: 1}}},
	})
	require.NoError(t, err)
	require.True(t, ok)

	// A second writer derived from the same revision loses.
	stale := stored.Clone()
	stale.GamePhase = game.PhaseFinished
	stale.Revision = stored.Revision + 1
	ok, err = repo.CommitMatch(ctx, MatchCommit{Next: stale, ExpectedRevision: stored.Revision, Lives: map[string]int{"p2": 0}})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetMatch(ctx, "ROOM1")
	require.NoError(t, err)
	assert.Equal(t, game.PhaseCombat, got.GamePhase)
	assert.Equal(t, []string{"Round 1"}, got.RoundLog)
	assert.Equal(t, stored.Revision+1, got.Revision)

	room, err := repo.GetRoom(ctx, "ROOM1")
	require.NoError(t, err)
	assert.Equal(t, 2, room.Players[1].Lives)

	arch, err := repo.LatestArchive(ctx, "ROOM1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, arch.RoundNum)
	require.Len(t, arch.Fleet, 1)
}

func TestCommitMatch_ClearsFieldsAndReadiness(t *testing.T) {
	repo := newTestRepo(t)
	seedRoom(t, repo, "p1", "p2")
	ctx := context.Background()
	m := newMatch()
	m.PendingFinish = true
	m.RoundSeed = "ROOM1:1:1000"
	_, err := repo.CreateMatch(ctx, MatchCommit{Next: m, Ready: map[string]bool{"p1": true}})
	require.NoError(t, err)

	stored, err := repo.GetMatch(ctx, "ROOM1")
	require.NoError(t, err)
	assert.True(t, stored.PendingFinish)

	next := stored.Clone()
	next.PendingFinish = false
	next.RoundSeed = ""
	next.Revision++
	ok, err := repo.CommitMatch(ctx, MatchCommit{Next: next, ExpectedRevision: stored.Revision, Ready: map[string]bool{"p1": false}})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetMatch(ctx, "ROOM1")
	require.NoError(t, err)
	assert.False(t, got.PendingFinish)
	assert.Empty(t, got.RoundSeed)

	room, err := repo.GetRoom(ctx, "ROOM1")
	require.NoError(t, err)
	assert.False(t, room.Players[0].IsReady)
}

func TestLatestArchive_PicksNewestRound(t *testing.T) {
	repo := newTestRepo(t)
	seedRoom(t, repo, "p1", "p2")
	ctx := context.Background()
	_, err := repo.CreateMatch(ctx, MatchCommit{Next: newMatch()})
	require.NoError(t, err)

	for round := 1; round <= 3; round++ {
		stored, err := repo.GetMatch(ctx, "ROOM1")
		require.NoError(t, err)
		next := stored.Clone()
		next.RoundNum = round + 1
		next.Revision++
		ok, err := repo.CommitMatch(ctx, MatchCommit{
			Next:             next,
			ExpectedRevision: stored.Revision,
			Archive:          &game.FleetArchive{RoomID: "ROOM1", RoundNum: round, PlayerID: "p1", Fleet: make(game.Fleet, round)},
		})
		require.NoError(t, err)
		require.True(t, ok)
	}

	arch, err := repo.LatestArchive(ctx, "ROOM1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, arch.RoundNum)
	assert.Len(t, arch.Fleet, 3)

	_, err = repo.LatestArchive(ctx, "ROOM1", "p2")
	assert.ErrorIs(t, err, ErrNotFound)
}
