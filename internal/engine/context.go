package engine

import (
	"fmt"

	"github.com/ericogr/fleet-clash/internal/game"
	"github.com/ericogr/fleet-clash/internal/rng"
)

// --- Round context and helpers ----------------------------------------
type side struct {
	playerID string
	fleet    game.Fleet
	strategy Strategy
}

type roundContext struct {
	rng   *rng.Source
	sides [2]*side
	round int
	log   []string
}

// newRoundContext clones both fleets so nothing the caller holds is mutated.
func newRoundContext(seed string, a, b Combatant) *roundContext {
	rc := &roundContext{rng: rng.New(seed), log: make([]string, 0, 64)}
	rc.sides[sideA] = &side{playerID: a.PlayerID, fleet: prepareFleet(a.Fleet), strategy: StrategyGuns}
	rc.sides[sideB] = &side{playerID: b.PlayerID, fleet: prepareFleet(b.Fleet), strategy: StrategyKill}
	return rc
}

func prepareFleet(f game.Fleet) game.Fleet {
	c := f.Clone()
	for i := range c {
		c[i].Normalize()
	}
	return c
}

func (rc *roundContext) add(msg string) { rc.log = append(rc.log, msg) }

func (rc *roundContext) addf(format string, args ...any) {
	rc.add(fmt.Sprintf(format, args...))
}

func (rc *roundContext) opponent(s int) int { return 1 - s }
