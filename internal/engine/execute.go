package engine

// executeQueue lets every queued ship fire in order. Ships destroyed earlier
// in the round are skipped, and the round ends early once a side has no
// ship left to fight.
func (rc *roundContext) executeQueue(queue []queueEntry) {
	for _, e := range queue {
		actor := &rc.sides[e.side].fleet[e.index]
		if !actor.Active() {
			continue
		}
		ds := rc.opponent(e.side)
		target := SelectTarget(rc.sides[ds].fleet, rc.sides[e.side].strategy)
		if target < 0 {
			return
		}
		rc.resolveVolley(e.side, e.index, ds, target)
		if !rc.sides[ds].fleet.HasActive() {
			return
		}
	}
}
