package engine

import (
	"sort"
	"strconv"

	"github.com/ericogr/fleet-clash/internal/game"
)

// riftFaces is the fixed outcome table for rift dice: half blank, two
// plain hits of increasing size, and one heavy hit with backlash.
var riftFaces = [6]game.Face{
	game.BlankFace(),
	game.BlankFace(),
	game.BlankFace(),
	game.DamageFace(1),
	game.DamageFace(2),
	game.DamageSelfFace(3),
}

// resolveVolley fires every weapon and then every rift die of the attacker
// at one defender. Firing stops as soon as the defender is destroyed.
func (rc *roundContext) resolveVolley(as, ai, ds, di int) {
	att := &rc.sides[as].fleet[ai]
	def := &rc.sides[ds].fleet[di]
	attName := rc.shipLabel(as, ai)
	defName := rc.shipLabel(ds, di)

	for wi := range att.Weapons {
		// A destroyed defender ends the whole volley, not just this weapon.
		if !def.Alive {
			return
		}
		w := att.Weapons[wi]
		t := hitThreshold(att.Stats.Aim, def.Stats.ShieldTier)
		for d := 0; d < w.Dice; d++ {
			hit, dmg, self, desc := rc.rollWeaponDie(w, t)
			if hit {
				rc.addf("%s fires %s at %s: %s, hit for %d", attName, weaponName(w), defName, desc, dmg)
				rc.applyDamage(ds, di, dmg)
				if w.InitLoss > 0 {
					rc.drainInitiative(ds, di, w.InitLoss)
				}
			} else {
				rc.addf("%s fires %s at %s: %s, miss", attName, weaponName(w), defName, desc)
			}
			if self {
				rc.assignSelfDamage(as)
			}
			if !def.Alive {
				break
			}
		}
	}

	for d := 0; d < att.RiftDice; d++ {
		// Rift dice are skipped too once the defender is gone.
		if !def.Alive {
			return
		}
		face := riftFaces[rc.rng.Intn(len(riftFaces))]
		if face.HasDamage() {
			rc.addf("%s rift die strikes %s for %d", attName, defName, face.Damage)
			rc.applyDamage(ds, di, face.Damage)
		} else if !face.HasSelf() {
			rc.add(attName + " rift die fizzles")
		}
		if face.HasSelf() {
			rc.add(attName + " rift die backlashes")
			rc.assignSelfDamage(as)
		}
	}
}

// rollWeaponDie resolves one die of w against threshold t. Faces that
// carry damage always hit; blank and self-only faces never do.
func (rc *roundContext) rollWeaponDie(w game.WeaponPart, t int) (hit bool, dmg int, self bool, desc string) {
	if len(w.Faces) > 0 {
		face := w.Faces[rc.rng.Intn(len(w.Faces))]
		switch face.Kind {
		case game.FaceDamage:
			return true, face.Damage, false, "face " + strconv.Itoa(face.Damage)
		case game.FaceDamageSelf:
			return true, face.Damage, true, "face " + strconv.Itoa(face.Damage) + "+self"
		case game.FaceSelf:
			return false, 0, true, "self face"
		default:
			return false, 0, false, "blank face"
		}
	}
	roll := 1 + rc.rng.Intn(6)
	desc = "rolled " + strconv.Itoa(roll) + " (needs " + strconv.Itoa(t) + "+)"
	if roll >= t {
		return true, w.DmgPerHit, false, desc
	}
	return false, 0, false, desc
}

func weaponName(w game.WeaponPart) string {
	if w.Name == "" {
		return "weapon"
	}
	return w.Name
}

// applyDamage lowers hull, clamped at zero, and marks the ship destroyed
// once it reaches zero.
func (rc *roundContext) applyDamage(s, idx, dmg int) {
	if dmg <= 0 {
		return
	}
	sh := &rc.sides[s].fleet[idx]
	if !sh.Alive {
		return
	}
	sh.Hull -= dmg
	if sh.Hull < 0 {
		sh.Hull = 0
	}
	if sh.Hull == 0 {
		sh.Alive = false
		rc.add(rc.shipLabel(s, idx) + " is destroyed!")
	}
}

func (rc *roundContext) drainInitiative(s, idx, amount int) {
	sh := &rc.sides[s].fleet[idx]
	before := sh.Stats.Init
	sh.Stats.Init -= amount
	if sh.Stats.Init < 0 {
		sh.Stats.Init = 0
	}
	rc.addf("%s loses %d initiative (%d -> %d)", rc.shipLabel(s, idx), before-sh.Stats.Init, before, sh.Stats.Init)
}

// assignSelfDamage applies one point of rift backlash to the attacker's own
// fleet. Among living rift-capable ships it prefers one already at 1 hull,
// otherwise the biggest frame with the most hull.
func (rc *roundContext) assignSelfDamage(s int) {
	fleet := rc.sides[s].fleet
	candidates := make([]int, 0, len(fleet))
	for i := range fleet {
		if fleet[i].Alive && fleet[i].RiftDice > 0 {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return
	}
	pick := -1
	for _, i := range candidates {
		if fleet[i].Hull <= 1 {
			pick = i
			break
		}
	}
	if pick < 0 {
		sort.SliceStable(candidates, func(x, y int) bool {
			a, b := &fleet[candidates[x]], &fleet[candidates[y]]
			if ra, rb := a.Frame.ID.SizeRank(), b.Frame.ID.SizeRank(); ra != rb {
				return ra > rb
			}
			return a.Hull > b.Hull
		})
		pick = candidates[0]
	}
	rc.add(rc.shipLabel(s, pick) + " takes 1 backlash damage")
	rc.applyDamage(s, pick, 1)
}
