package engine

import (
	"sort"

	"github.com/charleschow/matchday/internal/domain"
	"github.com/charleschow/matchday/internal/events"
)

// PlayerState is one player currently on the pitch. Role can diverge from
// the player's natural position (a demoted emergency GK, a reshuffled sub).
type PlayerState struct {
	Player domain.Player
	Role   domain.Position
	X, Y   float64
}

// TeamState holds one side's evolving state.
type TeamState struct {
	Side      domain.Side
	Team      domain.Team
	Formation domain.Formation
	Tactic    domain.Tactic
	Mods      Modifiers

	OnPitch   []*PlayerState
	Bench     []domain.Player
	SubsUsed  int
	Yellows   map[string]int
	Reds      map[string]bool
	SubbedOff map[string]bool
	Fatigue   map[string]float64

	// Set-piece takers, precomputed once from attributes, fixed all match.
	CornerTaker   string
	FreeKickTaker string
	PenaltyTaker  string
}

func newTeamState(side domain.Side, in SideInput, lineup domain.MatchLineup) *TeamState {
	ts := &TeamState{
		Side:      side,
		Team:      in.Team,
		Formation: in.Formation,
		Tactic:    in.Tactic.Normalized(),
		Mods:      TacticModifiers(in.Tactic),
		Yellows:   make(map[string]int),
		Reds:      make(map[string]bool),
		SubbedOff: make(map[string]bool),
		Fatigue:   make(map[string]float64),
	}
	for _, slot := range lineup.Starting {
		p, _ := in.Team.Player(slot.PlayerID)
		ts.OnPitch = append(ts.OnPitch, &PlayerState{
			Player: p,
			Role:   slot.Position,
			X:      slot.X,
			Y:      slot.Y,
		})
		ts.Fatigue[p.ID] = 1.0
	}
	for _, id := range lineup.Bench {
		if p, ok := in.Team.Player(id); ok {
			ts.Bench = append(ts.Bench, p)
		}
	}
	ts.pickSetPieceTakers()
	return ts
}

// pickSetPieceTakers scores the starting XI once; ties break on the
// composite set-piece rating, then on shirt number and id.
func (ts *TeamState) pickSetPieceTakers() {
	best := func(attr string) string {
		var bestID string
		bestScore := -1
		var bestPlayer domain.Player
		for _, ps := range ts.OnPitch {
			if ps.Role == domain.PosGK {
				continue
			}
			score := ps.Player.Attributes.Get(attr)
			if score > bestScore || (score == bestScore && setPieceTieLess(ps.Player, bestPlayer)) {
				bestScore = score
				bestID = ps.Player.ID
				bestPlayer = ps.Player
			}
		}
		return bestID
	}
	ts.CornerTaker = best(domain.AttrCorners)
	ts.FreeKickTaker = best(domain.AttrFreeKicks)
	ts.PenaltyTaker = best(domain.AttrPenaltyTaking)
}

func setPieceTieLess(a, b domain.Player) bool {
	if b.ID == "" {
		return true
	}
	ra, rb := domain.Effective(a, domain.RatingSetPiece), domain.Effective(b, domain.RatingSetPiece)
	if ra != rb {
		return ra > rb
	}
	return playerTieLess(a, b)
}

func playerTieLess(a, b domain.Player) bool {
	if b.ID == "" {
		return true
	}
	if a.ShirtNumber != b.ShirtNumber {
		return a.ShirtNumber < b.ShirtNumber
	}
	return a.ID < b.ID
}

func (ts *TeamState) PlayerOn(id string) (*PlayerState, bool) {
	for _, ps := range ts.OnPitch {
		if ps.Player.ID == id {
			return ps, true
		}
	}
	return nil, false
}

func (ts *TeamState) GK() (*PlayerState, bool) {
	for _, ps := range ts.OnPitch {
		if ps.Role == domain.PosGK {
			return ps, true
		}
	}
	return nil, false
}

func (ts *TeamState) removeFromPitch(id string) bool {
	for i, ps := range ts.OnPitch {
		if ps.Player.ID == id {
			ts.OnPitch = append(ts.OnPitch[:i], ts.OnPitch[i+1:]...)
			return true
		}
	}
	return false
}

func (ts *TeamState) benchPlayer(id string) (domain.Player, bool) {
	for _, p := range ts.Bench {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Player{}, false
}

func (ts *TeamState) removeFromBench(id string) {
	for i, p := range ts.Bench {
		if p.ID == id {
			ts.Bench = append(ts.Bench[:i], ts.Bench[i+1:]...)
			return
		}
	}
}

// MidfieldRating averages the mid rating of on-pitch DM/CM/AM players,
// falling back to the whole outfield when a side has no central midfield.
func (ts *TeamState) MidfieldRating() float64 {
	var sum float64
	var n int
	for _, ps := range ts.OnPitch {
		switch ps.Role {
		case domain.PosDM, domain.PosCM, domain.PosAM:
			sum += domain.Effective(ps.Player, domain.RatingMid) * ts.Fatigue[ps.Player.ID]
			n++
		}
	}
	if n == 0 {
		for _, ps := range ts.OnPitch {
			if ps.Role != domain.PosGK {
				sum += domain.Effective(ps.Player, domain.RatingMid) * ts.Fatigue[ps.Player.ID]
				n++
			}
		}
	}
	if n == 0 {
		return 10
	}
	return sum / float64(n)
}

// demoteEmergencyGK puts the outfielder with the best goalkeeping rating in
// goal after a GK expulsion. No sub is consumed.
func (ts *TeamState) demoteEmergencyGK() {
	var best *PlayerState
	for _, ps := range ts.OnPitch {
		if ps.Role == domain.PosGK {
			return // still have one
		}
		if best == nil || domain.Effective(ps.Player, domain.RatingGK) > domain.Effective(best.Player, domain.RatingGK) {
			best = ps
		}
	}
	if best != nil {
		best.Role = domain.PosGK
		best.X, best.Y = 5, 50
	}
}

// MatchState is the full mutable game state. Event effects are applied only
// through Apply; the engine owns every other transition.
type MatchState struct {
	MatchID    string
	Minute     int
	Phase      events.Phase
	Score      events.Score
	Possession events.Possession
	Zone       events.BallZone
	Stats      events.MatchStats

	// Goals logs every goal in order, for the persisted result.
	Goals []events.GoalRecord

	Home *TeamState
	Away *TeamState

	MaxSubs int

	frozen bool
}

func (ms *MatchState) side(s domain.Side) *TeamState {
	if s == domain.SideHome {
		return ms.Home
	}
	return ms.Away
}

func (ms *MatchState) stats(s domain.Side) *events.SideStats {
	if s == domain.SideHome {
		return &ms.Stats.Home
	}
	return &ms.Stats.Away
}

// Freeze marks the state immutable after full time.
func (ms *MatchState) Freeze() { ms.frozen = true }

// Apply mutates the state for one event and returns any derived events
// (a second yellow derives a red card). It is the only mutation path for
// score, stats, cards, and substitutions.
func (ms *MatchState) Apply(ev events.Event) ([]events.Event, error) {
	if ms.frozen {
		return nil, invariant(ms.Minute, "apply on frozen state")
	}
	ts := ms.side(ev.Team)
	st := ms.stats(ev.Team)

	switch ev.Type {
	case events.EventGoal:
		if ev.Team == domain.SideHome {
			ms.Score.Home++
		} else {
			ms.Score.Away++
		}
		st.Shots++
		st.ShotsOnTarget++
		goal := ev
		goal.Sequence = nil
		ms.Goals = append(ms.Goals, events.GoalRecord{Minute: ms.Minute, Event: goal})

	case events.EventShotOnTarget:
		st.Shots++
		st.ShotsOnTarget++

	case events.EventShotOffTarget:
		st.Shots++

	case events.EventSave:
		// the preceding shot_on_target event already counted the attempt

	case events.EventCorner:
		st.Corners++

	case events.EventFoul:
		st.Fouls++

	case events.EventOffside:
		st.Offsides++

	case events.EventPassAttempted:
		st.PassesAttempted++

	case events.EventPassCompleted:
		st.PassesCompleted++

	case events.EventTackle:
		st.Tackles++

	case events.EventInterception:
		st.Interceptions++

	case events.EventYellowCard:
		pid := ev.PrimaryPlayerID
		if ts.Reds[pid] || ts.SubbedOff[pid] {
			return nil, invariant(ms.Minute, "yellow card for unavailable player %s", pid)
		}
		st.YellowCards++
		ts.Yellows[pid]++
		if ts.Yellows[pid] == 2 {
			derived := ev
			derived.Type = events.EventRedCard
			derived.Outcome = "second_yellow"
			derived.Description = ev.PrimaryPlayerName + " is sent off for a second bookable offence"
			more, err := ms.Apply(derived)
			if err != nil {
				return nil, err
			}
			return append([]events.Event{derived}, more...), nil
		}

	case events.EventRedCard:
		pid := ev.PrimaryPlayerID
		if ts.Reds[pid] {
			return nil, invariant(ms.Minute, "double red card for player %s", pid)
		}
		st.RedCards++
		ts.Reds[pid] = true
		wasGK := false
		if ps, ok := ts.PlayerOn(pid); ok {
			wasGK = ps.Role == domain.PosGK
		}
		if !ts.removeFromPitch(pid) {
			return nil, invariant(ms.Minute, "red card for player %s not on pitch", pid)
		}
		if wasGK {
			ts.demoteEmergencyGK()
		}

	case events.EventSubstitution:
		off, on := ev.PrimaryPlayerID, ev.SecondaryPlayerID
		if ts.SubsUsed >= ms.MaxSubs {
			return nil, invariant(ms.Minute, "substitution over the %d cap", ms.MaxSubs)
		}
		if ts.Reds[off] || ts.SubbedOff[off] {
			return nil, invariant(ms.Minute, "substituting unavailable player %s", off)
		}
		offPS, ok := ts.PlayerOn(off)
		if !ok {
			return nil, invariant(ms.Minute, "substituting player %s not on pitch", off)
		}
		onPlayer, ok := ts.benchPlayer(on)
		if !ok {
			return nil, invariant(ms.Minute, "substitute %s not on bench", on)
		}
		role, x, y := offPS.Role, offPS.X, offPS.Y
		if role != domain.PosGK && onPlayer.Position != domain.PosGK &&
			onPlayer.Position.Group() != role.Group() {
			// a sub from another unit plays his natural role, not the
			// vacated slot: an attacker on for a defender leads the line
			role = onPlayer.Position
		}
		ts.removeFromPitch(off)
		ts.SubbedOff[off] = true
		ts.removeFromBench(on)
		ts.OnPitch = append(ts.OnPitch, &PlayerState{Player: onPlayer, Role: role, X: x, Y: y})
		ts.Fatigue[onPlayer.ID] = 1.0
		ts.SubsUsed++

	case events.EventPenalty, events.EventInjury:
		// chain context only; the follow-up events carry the stat effects

	default:
		return nil, invariant(ms.Minute, "unknown event type %q", ev.Type)
	}

	return nil, ms.check()
}

// check verifies the structural invariants after a mutation.
func (ms *MatchState) check() error {
	for _, ts := range []*TeamState{ms.Home, ms.Away} {
		want := 11 - len(ts.Reds)
		if len(ts.OnPitch) != want {
			return invariant(ms.Minute, "%s has %d on pitch, want %d", ts.Side, len(ts.OnPitch), want)
		}
		gk := 0
		for _, ps := range ts.OnPitch {
			if ps.Role == domain.PosGK {
				gk++
			}
		}
		if gk != 1 {
			return invariant(ms.Minute, "%s has %d goalkeepers on pitch", ts.Side, gk)
		}
		if ts.SubsUsed > ms.MaxSubs {
			return invariant(ms.Minute, "%s used %d substitutions", ts.Side, ts.SubsUsed)
		}
	}
	return nil
}

// Snapshot builds the immutable per-tick frame.
func (ms *MatchState) Snapshot(evs []events.Event, commentary string) events.Tick {
	out := make([]events.Event, len(evs))
	copy(out, evs)
	return events.Tick{
		Minute:     ms.Minute,
		Phase:      ms.Phase,
		Possession: ms.Possession,
		BallZone:   ms.Zone,
		Score:      ms.Score,
		Stats:      ms.Stats,
		Events:     out,
		Commentary: commentary,
	}
}

// sortedOnPitch returns on-pitch players ordered GK first then by role/id;
// used where deterministic iteration matters.
func (ts *TeamState) sortedOnPitch() []*PlayerState {
	out := make([]*PlayerState, len(ts.OnPitch))
	copy(out, ts.OnPitch)
	sort.SliceStable(out, func(i, j int) bool {
		if (out[i].Role == domain.PosGK) != (out[j].Role == domain.PosGK) {
			return out[i].Role == domain.PosGK
		}
		return out[i].Player.ID < out[j].Player.ID
	})
	return out
}
