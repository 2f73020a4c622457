package engine

import (
	"github.com/charleschow/matchday/internal/domain"
	"github.com/charleschow/matchday/internal/events"
)

// managerTick is the substitution heuristic, run once per side per minute
// after event resolution. At most one sub per side per minute; the hard cap
// and the no-return rule are enforced by MatchState.Apply.
//
// Policy: replace the most tired outfielder once he drops below the sub
// knee, preferring a bench player of the same role group. From minute 70 a
// side losing by one or more brings on the best attacker instead.
func managerTick(ms *MatchState, ts *TeamState) *events.Event {
	if ts.SubsUsed >= ms.MaxSubs || len(ts.Bench) == 0 {
		return nil
	}
	if ms.Minute < 55 {
		return nil
	}

	// most fatigued outfielder below the knee
	var tired *PlayerState
	for _, ps := range ts.sortedOnPitch() {
		if ps.Role == domain.PosGK {
			continue
		}
		f := ts.Fatigue[ps.Player.ID]
		if f >= fatigueSubKnee {
			continue
		}
		if tired == nil || f < ts.Fatigue[tired.Player.ID] {
			tired = ps
		}
	}

	losing := (ts.Side == domain.SideHome && ms.Score.Home < ms.Score.Away) ||
		(ts.Side == domain.SideAway && ms.Score.Away < ms.Score.Home)
	chaseGame := losing && ms.Minute >= 70

	if tired == nil && !chaseGame {
		return nil
	}

	if tired == nil {
		// chasing: take off the most tired non-attacker for fresh legs up front
		for _, ps := range ts.sortedOnPitch() {
			if ps.Role == domain.PosGK || ps.Role.Group() == domain.GroupAttack {
				continue
			}
			if tired == nil || ts.Fatigue[ps.Player.ID] < ts.Fatigue[tired.Player.ID] {
				tired = ps
			}
		}
		if tired == nil {
			return nil
		}
	}

	sub, ok := pickReplacement(ts, tired.Role, chaseGame)
	if !ok {
		return nil
	}

	ev := events.Event{
		Type:              events.EventSubstitution,
		Team:              ts.Side,
		PrimaryPlayerID:   tired.Player.ID,
		PrimaryPlayerName: tired.Player.Name,
		SecondaryPlayerID: sub.ID,
		SecondaryPlayer:   sub.Name,
		Outcome:           "substitution",
		Coordinates:       events.Coord{X: 50, Y: 0},
		Description:       sub.Name + " replaces " + tired.Player.Name,
		Sequence: []events.SubAction{{
			Action:     events.ActionSubstitution,
			ActorID:    sub.ID,
			TargetID:   tired.Player.ID,
			BallStart:  events.Coord{X: 50, Y: 0},
			BallEnd:    events.Coord{X: 50, Y: 0},
			DurationMs: 30000,
		}},
	}
	return &ev
}

// pickReplacement prefers same-role-group bench players; when chasing the
// game it prefers attackers outright. Deterministic ordering via ability.
func pickReplacement(ts *TeamState, role domain.Position, wantAttacker bool) (domain.Player, bool) {
	var best domain.Player
	bestScore := -1.0
	for _, p := range ts.Bench {
		if p.Injured {
			continue
		}
		if (p.Position == domain.PosGK) != (role == domain.PosGK) {
			continue
		}
		score := float64(p.CurrentAbility())
		if wantAttacker && p.Position.Group() == domain.GroupAttack {
			score += 40
		} else if p.Position.Group() == role.Group() {
			score += 20
		}
		if score > bestScore || (score == bestScore && playerTieLess(p, best)) {
			bestScore = score
			best = p
		}
	}
	return best, bestScore >= 0
}
