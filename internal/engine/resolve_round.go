package engine

import (
	"strconv"

	"github.com/ericogr/fleet-clash/internal/game"
)

// MaxRounds bounds a single battle so fleets that cannot hurt each other
// still terminate.
const MaxRounds = 50

// Combatant pairs a player id with the fleet it brings to the battle.
type Combatant struct {
	PlayerID string
	Fleet    game.Fleet
}

// Outcome is the full result of a battle, including the post-battle fleets
// (which are clones, never the caller's slices).
type Outcome struct {
	game.CombatResult
	FleetA game.Fleet
	FleetB game.Fleet
	Rounds int
}

// Simulate resolves a battle between a (side A, targets by most guns) and
// b (side B, targets the weakest ship) from seed. The same seed and fleets
// always produce the same log and winner.
func Simulate(seed string, a, b Combatant) game.CombatResult {
	return SimulateWithFleets(seed, a, b).CombatResult
}

// SimulateWithFleets is Simulate but also returns the fleets as they stand
// after the battle.
func SimulateWithFleets(seed string, a, b Combatant) Outcome {
	rc := newRoundContext(seed, a, b)
	fa, fb := rc.sides[sideA].fleet, rc.sides[sideB].fleet
	rc.add("Battle: " + a.PlayerID + " (" + strconv.Itoa(activeCount(fa)) + " ships) vs " + b.PlayerID + " (" + strconv.Itoa(activeCount(fb)) + " ships)")

	for rc.round < MaxRounds && fa.HasActive() && fb.HasActive() {
		rc.round++
		rc.add("Round " + strconv.Itoa(rc.round))
		rc.executeQueue(rc.buildQueue())
	}
	if fa.HasActive() && fb.HasActive() {
		rc.add("Round limit reached")
	}

	winner := rc.decideWinner()
	rc.add("Winner: " + rc.sides[winner].playerID)
	return Outcome{
		CombatResult: game.CombatResult{WinnerPlayerID: rc.sides[winner].playerID, RoundLog: rc.log},
		FleetA:       fa,
		FleetB:       fb,
		Rounds:       rc.round,
	}
}

// decideWinner picks the only side with ships left. When both or neither
// side still stands it takes one more draw from the battle stream.
func (rc *roundContext) decideWinner() int {
	aAlive := rc.sides[sideA].fleet.HasActive()
	bAlive := rc.sides[sideB].fleet.HasActive()
	switch {
	case aAlive && !bAlive:
		return sideA
	case bAlive && !aAlive:
		return sideB
	}
	if !aAlive {
		rc.add("Both fleets destroyed")
	}
	if rc.rng.Next() < 0.5 {
		return sideA
	}
	return sideB
}
