package game

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FaceKind tags the outcome printed on one side of a die.
type FaceKind int

const (
	FaceBlank FaceKind = iota
	FaceDamage
	FaceSelf
	FaceDamageSelf
)

// Face is one die outcome. Damage carries the auto-hit damage for
// FaceDamage and FaceDamageSelf and is zero otherwise.
type Face struct {
	Kind   FaceKind
	Damage int
}

// HasDamage reports whether the face auto-hits.
func (f Face) HasDamage() bool { return f.Kind == FaceDamage || f.Kind == FaceDamageSelf }

// HasSelf reports whether the face triggers rift backlash on the attacker.
func (f Face) HasSelf() bool { return f.Kind == FaceSelf || f.Kind == FaceDamageSelf }

func BlankFace() Face           { return Face{Kind: FaceBlank} }
func DamageFace(n int) Face     { return Face{Kind: FaceDamage, Damage: n} }
func SelfFace() Face            { return Face{Kind: FaceSelf} }
func DamageSelfFace(n int) Face { return Face{Kind: FaceDamageSelf, Damage: n} }

type faceWire struct {
	Dmg  *int            `json:"dmg,omitempty"`
	Self json.RawMessage `json:"self,omitempty"`
}

// UnmarshalJSON accepts `{}`, `{"dmg":n}`, `{"self":true}` and
// `{"dmg":n,"self":true}`. A numeric self flag counts when non-zero.
func (f *Face) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*f = BlankFace()
		return nil
	}
	var w faceWire
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("decode face: %w", err)
	}
	self := false
	if len(w.Self) > 0 {
		var asBool bool
		if err := json.Unmarshal(w.Self, &asBool); err == nil {
			self = asBool
		} else {
			var asNum float64
			if err := json.Unmarshal(w.Self, &asNum); err != nil {
				return fmt.Errorf("decode face self flag: %w", err)
			}
			self = asNum != 0
		}
	}
	switch {
	case w.Dmg != nil && self:
		*f = DamageSelfFace(*w.Dmg)
	case w.Dmg != nil:
		*f = DamageFace(*w.Dmg)
	case self:
		*f = SelfFace()
	default:
		*f = BlankFace()
	}
	return nil
}

// MarshalJSON writes the inverse of UnmarshalJSON.
func (f Face) MarshalJSON() ([]byte, error) {
	var w struct {
		Dmg  *int `json:"dmg,omitempty"`
		Self bool `json:"self,omitempty"`
	}
	if f.HasDamage() {
		d := f.Damage
		w.Dmg = &d
	}
	w.Self = f.HasSelf()
	return json.Marshal(w)
}

// WeaponPart is a mounted weapon. Faces, when present, replace the plain
// d6 roll with a uniform draw over the listed outcomes.
type WeaponPart struct {
	Name      string `json:"name"`
	Dice      int    `json:"dice" jsonschema:"minimum=0"`
	DmgPerHit int    `json:"dmgPerHit" jsonschema:"minimum=0"`
	Faces     []Face `json:"faces,omitempty" jsonschema:"description=Explicit die faces drawn uniformly instead of a d6 roll"`
	InitLoss  int    `json:"initLoss,omitempty" jsonschema:"minimum=0"`
}

type Frame struct {
	ID   FrameID `json:"id"`
	Name string  `json:"name"`
}

type ShipStats struct {
	Init       int  `json:"init"`
	HullCap    int  `json:"hullCap" jsonschema:"minimum=0"`
	Valid      bool `json:"valid" jsonschema:"description=False for builds that cannot fight; such ships are never scheduled or targeted"`
	Aim        int  `json:"aim"`
	ShieldTier int  `json:"shieldTier"`
	Regen      int  `json:"regen"`
}

// ShipSnapshot is the wire form of one combat participant.
type ShipSnapshot struct {
	Frame    Frame        `json:"frame"`
	Weapons  []WeaponPart `json:"weapons"`
	RiftDice int          `json:"riftDice" jsonschema:"minimum=0"`
	Stats    ShipStats    `json:"stats"`
	Hull     int          `json:"hull"`
	Alive    bool         `json:"alive"`
}

// Active reports whether the ship can act and be targeted.
func (s *ShipSnapshot) Active() bool { return s.Alive && s.Stats.Valid }

// Normalize clamps hull into [0, HullCap] and recomputes Alive.
func (s *ShipSnapshot) Normalize() {
	if s.Stats.HullCap < 0 {
		s.Stats.HullCap = 0
	}
	if s.Hull > s.Stats.HullCap {
		s.Hull = s.Stats.HullCap
	}
	if s.Hull < 0 {
		s.Hull = 0
	}
	s.Alive = s.Hull > 0
}

// Fleet is one player's ordered list of ships.
type Fleet []ShipSnapshot

// Clone returns a deep copy that shares no slices with f.
func (f Fleet) Clone() Fleet {
	if f == nil {
		return nil
	}
	out := make(Fleet, len(f))
	for i, s := range f {
		out[i] = s
		if s.Weapons != nil {
			out[i].Weapons = make([]WeaponPart, len(s.Weapons))
			for j, w := range s.Weapons {
				out[i].Weapons[j] = w
				if w.Faces != nil {
					out[i].Weapons[j].Faces = append([]Face(nil), w.Faces...)
				}
			}
		}
	}
	return out
}

// HasActive reports whether any ship is alive and valid.
func (f Fleet) HasActive() bool {
	for i := range f {
		if f[i].Active() {
			return true
		}
	}
	return false
}

// CombatResult is the outcome of one simulated round.
type CombatResult struct {
	WinnerPlayerID string   `json:"winnerPlayerId"`
	RoundLog       []string `json:"roundLog"`
}
