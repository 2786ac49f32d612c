package service

import (
	"context"
	"fmt"

	"github.com/ericogr/fleet-clash/internal/constants"
	"github.com/ericogr/fleet-clash/internal/game"
	"github.com/ericogr/fleet-clash/internal/logging"
)

// SubmitFleet stores playerID's snapshot for the current round and then
// checks whether the round can be resolved. fleetValid is the client's
// own verdict on the build; nil leaves it unstated. It reports whether the
// submission resolved the round.
func (s *MatchService) SubmitFleet(ctx context.Context, roomID, playerID string, fleet game.Fleet, fleetValid *bool) (bool, error) {
	clean, err := s.validateFleet(fleet)
	if err != nil {
		return false, err
	}

	_, err = s.update(ctx, roomID, func(room *game.Room, m *game.MatchState, fx *sideEffects) (bool, error) {
		if findPlayer(room, playerID) == nil {
			return false, ErrPlayerNotFound
		}
		if m.GamePhase != game.PhaseSetup {
			return false, ErrNotInSetup
		}
		st := m.PlayerStates[playerID]
		f := clean.Clone()
		st.Fleet = &f
		st.FleetValid = nil
		if fleetValid != nil {
			v := *fleetValid
			st.FleetValid = &v
		}
		m.PlayerStates[playerID] = st
		return true, nil
	})
	if err != nil {
		return false, err
	}
	logging.Info("fleet submitted", logging.Fields{
		constants.LogFieldRoomID:   roomID,
		constants.LogFieldPlayerID: playerID,
		"ships":                    len(clean),
	})

	return s.TryResolve(ctx, roomID)
}

// validateFleet rejects snapshots the simulator should never see and
// normalises hull and alive on a copy.
func (s *MatchService) validateFleet(fleet game.Fleet) (game.Fleet, error) {
	if fleet == nil {
		return nil, fmt.Errorf("%w: fleet is required", ErrInvalidFleet)
	}
	if s.maxFleetSize > 0 && len(fleet) > s.maxFleetSize {
		return nil, fmt.Errorf("%w: %d ships exceeds the limit of %d", ErrInvalidFleet, len(fleet), s.maxFleetSize)
	}
	out := fleet.Clone()
	for i := range out {
		ship := &out[i]
		if ship.RiftDice < 0 || ship.Stats.HullCap < 0 || ship.Stats.Regen < 0 {
			return nil, fmt.Errorf("%w: ship %d has negative stats", ErrInvalidFleet, i+1)
		}
		for _, w := range ship.Weapons {
			if w.Dice < 0 || w.DmgPerHit < 0 || w.InitLoss < 0 {
				return nil, fmt.Errorf("%w: weapon %q on ship %d has negative values", ErrInvalidFleet, w.Name, i+1)
			}
			for _, f := range w.Faces {
				if f.Damage < 0 {
					return nil, fmt.Errorf("%w: weapon %q on ship %d has a negative face", ErrInvalidFleet, w.Name, i+1)
				}
			}
		}
		ship.Normalize()
	}
	return out, nil
}
