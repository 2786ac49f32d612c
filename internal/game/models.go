package game

import (
	"time"

	"gorm.io/gorm"
)

// Phase is the match life-cycle stage shared by both clients.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseCombat   Phase = "combat"
	PhaseFinished Phase = "finished"
)

// RoomStatus tracks the roster-level state of a room.
type RoomStatus string

const (
	RoomStatusLobby    RoomStatus = "lobby"
	RoomStatusPlaying  RoomStatus = "playing"
	RoomStatusFinished RoomStatus = "finished"
)

// Room groups the two players of a match. ID is the public room id that
// clients address and that prefixes round seeds.
type Room struct {
	ID        string     `json:"id" gorm:"primaryKey;size:64"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Status    RoomStatus `json:"status" gorm:"size:16"`
	Players   []Player   `json:"players" gorm:"foreignKey:RoomID;references:ID"`
}

// Player is a roster entry. Only Lives and IsReady are written by the
// match flow; the rest belongs to the room collaborator.
type Player struct {
	gorm.Model
	RoomID   string `json:"-" gorm:"size:64;uniqueIndex:idx_room_players"`
	PlayerID string `json:"player_id" gorm:"size:64;uniqueIndex:idx_room_players"`
	IsHost   bool   `json:"is_host"`
	Lives    int    `json:"lives"`
	IsReady  bool   `json:"is_ready"`
	Faction  string `json:"faction"`
}

// Store roster entries in a dedicated table for clarity
func (Player) TableName() string { return "room_players" }

// PlayerRoundState is one player's slice of the match. Fleet stays nil
// until the player submits a snapshot for the current round.
type PlayerRoundState struct {
	Fleet      *Fleet `json:"fleet,omitempty"`
	FleetValid *bool  `json:"fleetValid,omitempty"`
	Lives      int    `json:"lives"`
	Sector     *int   `json:"sector,omitempty"`
}

// HasSnapshot reports whether a fleet was submitted this round.
func (s PlayerRoundState) HasSnapshot() bool { return s.Fleet != nil }

// MarkedInvalid reports whether the snapshot was explicitly flagged invalid.
func (s PlayerRoundState) MarkedInvalid() bool { return s.FleetValid != nil && !*s.FleetValid }

// MatchState is the single shared mutable record of a room. Every write is
// checked against Revision so concurrent sessions never overwrite each
// other's transitions.
type MatchState struct {
	gorm.Model
	RoomID        string                      `json:"room_id" gorm:"size:64;uniqueIndex"`
	GamePhase     Phase                       `json:"game_phase" gorm:"size:16"`
	RoundNum      int                         `json:"round_num"`
	PlayerStates  map[string]PlayerRoundState `json:"player_states" gorm:"serializer:json"`
	Acks          map[string]bool             `json:"acks" gorm:"serializer:json"`
	RoundSeed     string                      `json:"round_seed,omitempty"`
	RoundLog      []string                    `json:"round_log,omitempty" gorm:"serializer:json"`
	LastWinner    string                      `json:"last_winner,omitempty"`
	PendingFinish bool                        `json:"pending_finish"`
	Revision      int                         `json:"revision"`
}

// Clone returns a copy whose maps and slices are independent of m.
func (m *MatchState) Clone() *MatchState {
	out := *m
	out.PlayerStates = make(map[string]PlayerRoundState, len(m.PlayerStates))
	for k, v := range m.PlayerStates {
		if v.Fleet != nil {
			f := v.Fleet.Clone()
			v.Fleet = &f
		}
		if v.FleetValid != nil {
			b := *v.FleetValid
			v.FleetValid = &b
		}
		if v.Sector != nil {
			s := *v.Sector
			v.Sector = &s
		}
		out.PlayerStates[k] = v
	}
	out.Acks = make(map[string]bool, len(m.Acks))
	for k, v := range m.Acks {
		out.Acks[k] = v
	}
	if m.RoundLog != nil {
		out.RoundLog = append([]string(nil), m.RoundLog...)
	}
	return &out
}

// FleetArchive keeps the winning fleet of each round for "last seen"
// display, outside the hot match record.
type FleetArchive struct {
	gorm.Model
	RoomID   string `json:"room_id" gorm:"size:64;uniqueIndex:idx_fleet_archive_round"`
	RoundNum int    `json:"round_num" gorm:"uniqueIndex:idx_fleet_archive_round"`
	PlayerID string `json:"player_id" gorm:"size:64;index"`
	Fleet    Fleet  `json:"fleet" gorm:"serializer:json"`
}
