package domain

// Position is a pitch role code. "SUB" marks bench players in stored lineups.
type Position string

const (
	PosGK Position = "GK"
	PosSW Position = "SW"
	PosCB Position = "CB"
	PosLB Position = "LB"
	PosRB Position = "RB"
	PosWB Position = "WB"
	PosDM Position = "DM"
	PosCM Position = "CM"
	PosAM Position = "AM"
	PosLM Position = "LM"
	PosRM Position = "RM"
	PosLW Position = "LW"
	PosRW Position = "RW"
	PosST Position = "ST"
	PosCF Position = "CF"
	PosF9 Position = "F9"

	PosSub Position = "SUB"
)

// PositionGroup buckets roles for compatibility and selection weighting.
type PositionGroup int

const (
	GroupGoalkeeper PositionGroup = iota
	GroupDefence
	GroupMidfield
	GroupAttack
	GroupUnknown
)

func (p Position) Group() PositionGroup {
	switch p {
	case PosGK:
		return GroupGoalkeeper
	case PosSW, PosCB, PosLB, PosRB, PosWB:
		return GroupDefence
	case PosDM, PosCM, PosAM, PosLM, PosRM:
		return GroupMidfield
	case PosLW, PosRW, PosST, PosCF, PosF9:
		return GroupAttack
	default:
		return GroupUnknown
	}
}

func (p Position) Valid() bool { return p.Group() != GroupUnknown }

// neighbours lists roles a player covers at 0.7 without it being listed
// as a secondary position.
var neighbours = map[Position][]Position{
	PosSW: {PosCB},
	PosCB: {PosSW},
	PosLB: {PosWB, PosLM},
	PosRB: {PosWB, PosRM},
	PosWB: {PosLB, PosRB},
	PosDM: {PosCM, PosCB},
	PosCM: {PosDM, PosAM},
	PosAM: {PosCM, PosF9},
	PosLM: {PosLW, PosLB},
	PosRM: {PosRW, PosRB},
	PosLW: {PosLM, PosF9},
	PosRW: {PosRM, PosF9},
	PosST: {PosCF, PosF9},
	PosCF: {PosST, PosF9},
	PosF9: {PosST, PosCF, PosAM},
}

// Compatibility scores how well a player's positions cover a formation slot.
// 1.0 exact primary match, 0.7 secondary or neighbouring role, 0.3 any other
// outfield pairing, 0.0 across the GK/outfield boundary.
func Compatibility(p Player, slot Position) float64 {
	if (p.Position == PosGK) != (slot == PosGK) {
		return 0.0
	}
	if p.Position == slot {
		return 1.0
	}
	for _, sec := range p.SecondaryPositions {
		if sec == slot {
			return 0.7
		}
	}
	for _, n := range neighbours[p.Position] {
		if n == slot {
			return 0.7
		}
	}
	return 0.3
}
