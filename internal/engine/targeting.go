package engine

import "github.com/ericogr/fleet-clash/internal/game"

// Strategy is the targeting posture of an attacking side.
type Strategy string

const (
	// StrategyKill focuses the weakest ship to remove it quickly.
	StrategyKill Strategy = "kill"
	// StrategyGuns focuses the ship carrying the most weapons.
	StrategyGuns Strategy = "guns"
)

// SelectTarget returns the index of the ship to attack in fleet, or -1 when
// no alive and valid ship remains. Ties go to the earliest ship.
func SelectTarget(fleet game.Fleet, strategy Strategy) int {
	best := -1
	switch strategy {
	case StrategyKill:
		for i := range fleet {
			if !fleet[i].Active() {
				continue
			}
			if best < 0 || fleet[i].Hull < fleet[best].Hull {
				best = i
			}
		}
	case StrategyGuns:
		for i := range fleet {
			if !fleet[i].Active() {
				continue
			}
			if best < 0 || len(fleet[i].Weapons) > len(fleet[best].Weapons) {
				best = i
			}
		}
	}
	if best >= 0 {
		return best
	}
	for i := range fleet {
		if fleet[i].Active() {
			return i
		}
	}
	return -1
}
