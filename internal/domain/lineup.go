package domain

import (
	"fmt"
	"sort"
)

// InvalidLineupError reports a submitted XI that violates structural rules.
// Surfaced to HTTP callers as a 422.
type InvalidLineupError struct {
	Reason string
}

func (e *InvalidLineupError) Error() string { return "invalid lineup: " + e.Reason }

func invalidLineup(format string, args ...any) error {
	return &InvalidLineupError{Reason: fmt.Sprintf(format, args...)}
}

const maxBench = 17

// ResolveLineup validates a submitted lineup or, when submitted is nil,
// auto-suggests one from the formation and squad. Deterministic: ties break
// on higher current_ability, then lower shirt number, then lower player id.
func ResolveLineup(team *Team, formation Formation, submitted *MatchLineup) (MatchLineup, error) {
	if err := formation.Validate(); err != nil {
		return MatchLineup{}, err
	}
	if submitted != nil {
		if err := validateLineup(team, *submitted); err != nil {
			return MatchLineup{}, err
		}
		return *submitted, nil
	}
	return suggestLineup(team, formation)
}

func validateLineup(team *Team, l MatchLineup) error {
	if len(l.Starting) != 11 {
		return invalidLineup("must contain exactly 11 starters, got %d", len(l.Starting))
	}
	seen := make(map[string]bool, 11+len(l.Bench))
	gk := 0
	for _, s := range l.Starting {
		if s.PlayerID == "" {
			return invalidLineup("starter with empty player id")
		}
		if seen[s.PlayerID] {
			return invalidLineup("player %s listed twice", s.PlayerID)
		}
		seen[s.PlayerID] = true
		if _, ok := team.Player(s.PlayerID); !ok {
			return invalidLineup("player %s is not in squad", s.PlayerID)
		}
		if !s.Position.Valid() {
			return invalidLineup("starter %s has invalid position %q", s.PlayerID, s.Position)
		}
		if s.Position == PosGK {
			gk++
		}
	}
	if gk != 1 {
		return invalidLineup("must contain exactly 1 GK")
	}
	if len(l.Bench) > maxBench {
		return invalidLineup("bench has %d players, max %d", len(l.Bench), maxBench)
	}
	for _, id := range l.Bench {
		if seen[id] {
			return invalidLineup("player %s listed twice", id)
		}
		seen[id] = true
		if _, ok := team.Player(id); !ok {
			return invalidLineup("player %s is not in squad", id)
		}
	}
	return nil
}

func suggestLineup(team *Team, formation Formation) (MatchLineup, error) {
	available := make([]Player, 0, len(team.Players))
	for _, p := range team.Players {
		if !p.Injured {
			available = append(available, p)
		}
	}
	if len(available) < 11 {
		return MatchLineup{}, invalidLineup("team %s has only %d eligible players", team.ID, len(available))
	}

	// GK slot first, then back to front.
	slots := make([]FormationSlot, len(formation.Slots))
	copy(slots, formation.Slots)
	sort.SliceStable(slots, func(i, j int) bool {
		if (slots[i].Position == PosGK) != (slots[j].Position == PosGK) {
			return slots[i].Position == PosGK
		}
		return slots[i].Y < slots[j].Y
	})

	assigned := make(map[string]bool, 11)
	starting := make([]LineupSlot, 0, 11)
	for _, slot := range slots {
		pick, ok := bestForSlot(available, assigned, slot.Position, 0.7)
		if !ok {
			// nobody fits the role; take the best remaining body
			pick, ok = bestForSlot(available, assigned, slot.Position, 0.0)
			if !ok {
				return MatchLineup{}, invalidLineup("no eligible player for slot %s", slot.Position)
			}
		}
		assigned[pick.ID] = true
		starting = append(starting, LineupSlot{
			PlayerID: pick.ID,
			Position: slot.Position,
			X:        slot.X,
			Y:        slot.Y,
		})
	}

	bench := make([]Player, 0, len(available))
	for _, p := range available {
		if !assigned[p.ID] {
			bench = append(bench, p)
		}
	}
	sort.SliceStable(bench, func(i, j int) bool { return playerLess(bench[i], bench[j]) })
	if len(bench) > maxBench {
		bench = bench[:maxBench]
	}
	benchIDs := make([]string, 0, len(bench))
	for _, p := range bench {
		benchIDs = append(benchIDs, p.ID)
	}

	return MatchLineup{Starting: starting, Bench: benchIDs}, nil
}

func bestForSlot(available []Player, assigned map[string]bool, slot Position, minCompat float64) (Player, bool) {
	var best Player
	found := false
	for _, p := range available {
		if assigned[p.ID] {
			continue
		}
		if minCompat > 0 && Compatibility(p, slot) < minCompat {
			continue
		}
		if minCompat == 0 && (p.Position == PosGK) != (slot == PosGK) {
			// the GK/outfield boundary holds even in the fallback pass
			continue
		}
		if !found || playerLess(p, best) {
			best = p
			found = true
		}
	}
	return best, found
}

// playerLess orders players for deterministic selection:
// ability desc, shirt number asc, id asc.
func playerLess(a, b Player) bool {
	if a.CurrentAbility() != b.CurrentAbility() {
		return a.CurrentAbility() > b.CurrentAbility()
	}
	if a.ShirtNumber != b.ShirtNumber {
		return a.ShirtNumber < b.ShirtNumber
	}
	return a.ID < b.ID
}
