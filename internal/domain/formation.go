package domain

import "fmt"

// FormationSlot places a role on the pitch. Coordinates are 0–100 with the
// owning team attacking x→100; y runs left (0) to right (100).
type FormationSlot struct {
	Position Position `json:"position"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
}

// Formation is a read-only input: a name plus exactly 11 slots.
type Formation struct {
	Name  string          `json:"name"`
	Slots []FormationSlot `json:"slots"`
}

func (f Formation) Validate() error {
	if len(f.Slots) != 11 {
		return fmt.Errorf("formation %q has %d slots, want 11", f.Name, len(f.Slots))
	}
	gk := 0
	for _, s := range f.Slots {
		if !s.Position.Valid() {
			return fmt.Errorf("formation %q has invalid position %q", f.Name, s.Position)
		}
		if s.Position == PosGK {
			gk++
		}
	}
	if gk != 1 {
		return fmt.Errorf("formation %q has %d GK slots, want 1", f.Name, gk)
	}
	return nil
}

// LineupSlot assigns a player to an on-pitch role.
type LineupSlot struct {
	PlayerID string   `json:"player_id"`
	Position Position `json:"position"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
}

// MatchLineup is the engine input for one side: an ordered starting XI
// (GK first) and up to 17 bench player ids.
type MatchLineup struct {
	Starting []LineupSlot `json:"starting"`
	Bench    []string     `json:"bench"`
}

func (l MatchLineup) StartingIDs() []string {
	ids := make([]string, 0, len(l.Starting))
	for _, s := range l.Starting {
		ids = append(ids, s.PlayerID)
	}
	return ids
}

// Common formations available without an explicit formation record.
func Formation433() Formation {
	return Formation{
		Name: "4-3-3",
		Slots: []FormationSlot{
			{Position: PosGK, X: 5, Y: 50},
			{Position: PosLB, X: 22, Y: 18},
			{Position: PosCB, X: 18, Y: 38},
			{Position: PosCB, X: 18, Y: 62},
			{Position: PosRB, X: 22, Y: 82},
			{Position: PosDM, X: 38, Y: 50},
			{Position: PosCM, X: 48, Y: 32},
			{Position: PosCM, X: 48, Y: 68},
			{Position: PosLW, X: 72, Y: 18},
			{Position: PosRW, X: 72, Y: 82},
			{Position: PosST, X: 82, Y: 50},
		},
	}
}

func Formation442() Formation {
	return Formation{
		Name: "4-4-2",
		Slots: []FormationSlot{
			{Position: PosGK, X: 5, Y: 50},
			{Position: PosLB, X: 22, Y: 18},
			{Position: PosCB, X: 18, Y: 38},
			{Position: PosCB, X: 18, Y: 62},
			{Position: PosRB, X: 22, Y: 82},
			{Position: PosLM, X: 50, Y: 18},
			{Position: PosCM, X: 45, Y: 40},
			{Position: PosCM, X: 45, Y: 60},
			{Position: PosRM, X: 50, Y: 82},
			{Position: PosST, X: 80, Y: 40},
			{Position: PosST, X: 80, Y: 60},
		},
	}
}
