package service

import (
	"context"

	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/ericogr/fleet-clash/internal/game"
	"github.com/ericogr/fleet-clash/internal/logging"
)

// CanToggleReady gates the move into ready: the player needs a submitted
// snapshot that is not marked invalid. Un-readying is always allowed.
func CanToggleReady(playerID string, wantReady bool, states map[string]game.PlayerRoundState) GuardResult {
	if !wantReady {
		return GuardResult{OK: true}
	}
	st, ok := states[playerID]
	if !ok || !st.HasSnapshot() {
		return GuardResult{Reason: ReasonMissingSnapshot}
	}
	if st.MarkedInvalid() {
		return GuardResult{Reason: ReasonInvalidFleet}
	}
	return GuardResult{OK: true}
}

// ToggleReady sets the readiness of playerID during setup and then checks
// whether the round can be resolved. It returns the player id on success.
func (s *MatchService) ToggleReady(ctx context.Context, roomID, playerID string, wantReady bool) (string, error) {
	_, err := s.update(ctx, roomID, func(room *game.Room, m *game.MatchState, fx *sideEffects) (bool, error) {
		p := findPlayer(room, playerID)
		if p == nil {
			return false, ErrPlayerNotFound
		}
		if m.GamePhase != game.PhaseSetup {
			return false, ErrNotInSetup
		}
		if g := CanToggleReady(playerID, wantReady, m.PlayerStates); !g.OK {
			return false, &GuardError{Reason: g.Reason}
		}
		if p.IsReady == wantReady {
			return false, nil
		}
		fx.setReady(playerID, wantReady)
		return true, nil
	})
	if err != nil {
		return "", err
	}
	logging.Debug("readiness updated", logging.Fields{
		constants.LogFieldRoomID:   roomID,
		constants.LogFieldPlayerID: playerID,
		"ready":                    wantReady,
	})

	if wantReady {
		if _, err := s.TryResolve(ctx, roomID); err != nil {
			return "", err
		}
	}
	return playerID, nil
}
