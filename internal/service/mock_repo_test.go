package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ericogr/fleet-clash/internal/game"
	"github.com/ericogr/fleet-clash/internal/storage"
)

// mockRepo is an in-memory Repo with the same revision check as the
// sqlite store.
type mockRepo struct {
	mu       sync.Mutex
	rooms    map[string]*game.Room
	matches  map[string]*game.MatchState
	archives []game.FleetArchive
	commits  int
	// beforeCommit runs once, just before the next commit is checked.
	beforeCommit func(r *mockRepo)
}

func newMockRepo() *mockRepo {
	return &mockRepo{rooms: map[string]*game.Room{}, matches: map[string]*game.MatchState{}}
}

func copyRoom(r *game.Room) *game.Room {
	out := *r
	out.Players = append([]game.Player(nil), r.Players...)
	return &out
}

func (m *mockRepo) CreateRoom(ctx context.Context, room *game.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range room.Players {
		room.Players[i].RoomID = room.ID
	}
	m.rooms[room.ID] = copyRoom(room)
	return nil
}

func (m *mockRepo) GetRoom(ctx context.Context, roomID string) (*game.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[roomID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyRoom(r), nil
}

func (m *mockRepo) AddPlayer(ctx context.Context, p *game.Player, maxPlayers int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[p.RoomID]
	if !ok {
		return storage.ErrNotFound
	}
	if len(r.Players) >= maxPlayers {
		return storage.ErrRoomFull
	}
	r.Players = append(r.Players, *p)
	return nil
}

func (m *mockRepo) GetMatch(ctx context.Context, roomID string) (*game.MatchState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.matches[roomID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.Clone(), nil
}

func (m *mockRepo) CreateMatch(ctx context.Context, c storage.MatchCommit) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.matches[c.Next.RoomID]; ok {
		return false, nil
	}
	m.matches[c.Next.RoomID] = c.Next.Clone()
	m.apply(c)
	return true, nil
}

func (m *mockRepo) CommitMatch(ctx context.Context, c storage.MatchCommit) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hook := m.beforeCommit; hook != nil {
		m.beforeCommit = nil
		hook(m)
	}
	cur, ok := m.matches[c.Next.RoomID]
	if !ok || cur.Revision != c.ExpectedRevision {
		return false, nil
	}
	m.matches[c.Next.RoomID] = c.Next.Clone()
	m.apply(c)
	m.commits++
	return true, nil
}

func (m *mockRepo) apply(c storage.MatchCommit) {
	r := m.rooms[c.Next.RoomID]
	for i := range r.Players {
		if v, ok := c.Lives[r.Players[i].PlayerID]; ok {
			r.Players[i].Lives = v
		}
		if v, ok := c.Ready[r.Players[i].PlayerID]; ok {
			r.Players[i].IsReady = v
		}
	}
	if c.Status != "" {
		r.Status = c.Status
	}
	if c.Archive != nil {
		m.archives = append(m.archives, *c.Archive)
	}
}

func (m *mockRepo) LatestArchive(ctx context.Context, roomID, playerID string) (*game.FleetArchive, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []game.FleetArchive
	for _, a := range m.archives {
		if a.RoomID == roomID && a.PlayerID == playerID {
			found = append(found, a)
		}
	}
	if len(found) == 0 {
		return nil, storage.ErrNotFound
	}
	sort.Slice(found, func(i, j int) bool { return found[i].RoundNum > found[j].RoundNum })
	return &found[0], nil
}

// --- fixtures ---

type countingNotifier struct {
	mu    sync.Mutex
	rooms []string
}

func (n *countingNotifier) MatchChanged(roomID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rooms = append(n.rooms, roomID)
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.rooms)
}

func boolPtr(b bool) *bool { return &b }

// strongFleet wins against weakFleet: aim 4 puts the hit threshold at 2.
func strongFleet() game.Fleet {
	return game.Fleet{{
		Frame:   game.Frame{ID: game.FrameInterceptor, Name: "Interceptor"},
		Weapons: []game.WeaponPart{{Name: "Laser", Dice: 1, DmgPerHit: 1}},
		Stats:   game.ShipStats{Init: 3, HullCap: 3, Valid: true, Aim: 4},
		Hull:    3,
		Alive:   true,
	}}
}

func weakFleet() game.Fleet {
	return game.Fleet{{
		Frame: game.Frame{ID: game.FrameInterceptor, Name: "Interceptor"},
		Stats: game.ShipStats{Init: 1, HullCap: 1, Valid: true},
		Hull:  1,
		Alive: true,
	}}
}

// newFixture returns a service over a room "ROOM1" with host p1 and guest
// p2 in setup of round one, each with the given lives.
func newFixture(livesP1, livesP2 int) (*MatchService, *mockRepo, *countingNotifier) {
	repo := newMockRepo()
	repo.rooms["ROOM1"] = &game.Room{
		ID:     "ROOM1",
		Status: game.RoomStatusPlaying,
		Players: []game.Player{
			{RoomID: "ROOM1", PlayerID: "p1", IsHost: true, Lives: livesP1},
			{RoomID: "ROOM1", PlayerID: "p2", Lives: livesP2},
		},
	}
	repo.matches["ROOM1"] = &game.MatchState{
		RoomID:    "ROOM1",
		GamePhase: game.PhaseSetup,
		RoundNum:  1,
		PlayerStates: map[string]game.PlayerRoundState{
			"p1": {Lives: livesP1},
			"p2": {Lives: livesP2},
		},
		Acks:     map[string]bool{},
		Revision: 1,
	}
	n := &countingNotifier{}
	svc := NewMatchService(repo, Options{
		StartingLives: 3,
		MaxFleetSize:  4,
		Notifier:      n,
		Now:           func() time.Time { return time.UnixMilli(1000) },
	})
	return svc, repo, n
}

// armRound puts both fleets in place and marks both players ready without
// going through the service.
func armRound(repo *mockRepo, fleetP1, fleetP2 game.Fleet) {
	m := repo.matches["ROOM1"]
	for id, f := range map[string]game.Fleet{"p1": fleetP1, "p2": fleetP2} {
		st := m.PlayerStates[id]
		fc := f.Clone()
		st.Fleet = &fc
		st.FleetValid = boolPtr(true)
		m.PlayerStates[id] = st
	}
	for i := range repo.rooms["ROOM1"].Players {
		repo.rooms["ROOM1"].Players[i].IsReady = true
	}
}

func (m *mockRepo) match(roomID string) *game.MatchState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matches[roomID].Clone()
}

func (m *mockRepo) player(roomID, playerID string) game.Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.rooms[roomID].Players {
		if p.PlayerID == playerID {
			return p
		}
	}
	return game.Player{}
}

// interleavingRepo runs a concurrent write once, right after the first
// GetMatch or GetRoom call returns, to stand in for another request landing
// between the reads of an update.
type interleavingRepo struct {
	*mockRepo
	afterMatchRead func(r *mockRepo)
	afterRoomRead  func(r *mockRepo)
}

func (r *interleavingRepo) GetMatch(ctx context.Context, roomID string) (*game.MatchState, error) {
	m, err := r.mockRepo.GetMatch(ctx, roomID)
	if hook := r.afterMatchRead; hook != nil {
		r.afterMatchRead = nil
		hook(r.mockRepo)
	}
	return m, err
}

func (r *interleavingRepo) GetRoom(ctx context.Context, roomID string) (*game.Room, error) {
	room, err := r.mockRepo.GetRoom(ctx, roomID)
	if hook := r.afterRoomRead; hook != nil {
		r.afterRoomRead = nil
		hook(r.mockRepo)
	}
	return room, err
}

// unready commits a readiness change for playerID the way ToggleReady does,
// bumping the match revision.
func unready(playerID string) func(r *mockRepo) {
	return func(r *mockRepo) {
		next := r.match("ROOM1")
		expected := next.Revision
		next.Revision++
		if ok, _ := r.CommitMatch(context.Background(), storage.MatchCommit{
			Next:             next,
			ExpectedRevision: expected,
			Ready:            map[string]bool{playerID: false},
		}); !ok {
			panic("unready commit lost")
		}
	}
}
