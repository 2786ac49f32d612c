package engine

import "sort"

// --- Initiative queue --------------------------------------------------
type queueEntry struct {
	side       int
	index      int
	initiative int
	sizeRank   int
}

// buildQueue applies passive regen to every fleet, then orders all alive
// and valid ships by initiative (desc), size rank (desc) and finally a coin
// flip from the round stream.
func (rc *roundContext) buildQueue() []queueEntry {
	for s := range rc.sides {
		rc.applyRegen(s)
	}

	queue := make([]queueEntry, 0, len(rc.sides[sideA].fleet)+len(rc.sides[sideB].fleet))
	for s := range rc.sides {
		for i := range rc.sides[s].fleet {
			sh := &rc.sides[s].fleet[i]
			if !sh.Active() {
				continue
			}
			queue = append(queue, queueEntry{side: s, index: i, initiative: sh.Stats.Init, sizeRank: sh.Frame.ID.SizeRank()})
		}
	}

	// sort by initiative (desc), then size (desc), tie -> random
	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].initiative != queue[j].initiative {
			return queue[i].initiative > queue[j].initiative
		}
		if queue[i].sizeRank != queue[j].sizeRank {
			return queue[i].sizeRank > queue[j].sizeRank
		}
		return rc.rng.Next() < 0.5
	})
	return queue
}

func (rc *roundContext) applyRegen(s int) {
	fleet := rc.sides[s].fleet
	for i := range fleet {
		sh := &fleet[i]
		if !sh.Alive || sh.Stats.Regen <= 0 || sh.Hull <= 0 || sh.Hull >= sh.Stats.HullCap {
			continue
		}
		before := sh.Hull
		sh.Hull = clampInt(sh.Hull+sh.Stats.Regen, 0, sh.Stats.HullCap)
		rc.addf("%s regenerates %d hull (%d/%d)", rc.shipLabel(s, i), sh.Hull-before, sh.Hull, sh.Stats.HullCap)
	}
}
