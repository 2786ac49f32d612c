package engine

import (
	"strconv"

	"github.com/ericogr/fleet-clash/internal/game"
)

const (
	sideA = 0
	sideB = 1
)

// shipLabel renders "<player>'s <frame> #<n>" for log lines.
func (rc *roundContext) shipLabel(s, idx int) string {
	sh := &rc.sides[s].fleet[idx]
	name := sh.Frame.Name
	if name == "" {
		name = string(sh.Frame.ID)
	}
	if name == "" {
		name = "ship"
	}
	return rc.sides[s].playerID + "'s " + name + " #" + strconv.Itoa(idx+1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hitThreshold is the minimum d6 roll that hits: 6 minus the aim/shield
// difference, never easier than 2 and never harder than 6.
func hitThreshold(aim, shieldTier int) int {
	return clampInt(6-(aim-shieldTier), 2, 6)
}

func activeCount(f game.Fleet) int {
	n := 0
	for i := range f {
		if f[i].Active() {
			n++
		}
	}
	return n
}
