package engine

import (
	"math/rand"

	"github.com/charleschow/matchday/internal/domain"
)

// selectionKind names the player-selection policies.
type selectionKind int

const (
	selectShooter selectionKind = iota
	selectAssister
	selectDribbler
	selectPasser
	selectDefender
	selectFouler
	selectHeader
)

// roleWeight is the positional prior for each selection policy.
func roleWeight(kind selectionKind, role domain.Position) float64 {
	switch kind {
	case selectShooter:
		switch role {
		case domain.PosST, domain.PosCF, domain.PosF9:
			return 1.0
		case domain.PosLW, domain.PosRW:
			return 0.8
		case domain.PosAM:
			return 0.7
		case domain.PosCM, domain.PosLM, domain.PosRM:
			return 0.4
		case domain.PosDM:
			return 0.2
		case domain.PosGK:
			return 0.0
		default:
			return 0.1
		}
	case selectAssister:
		switch role {
		case domain.PosAM:
			return 1.0
		case domain.PosLW, domain.PosRW, domain.PosLM, domain.PosRM:
			return 0.9
		case domain.PosCM:
			return 0.7
		case domain.PosST, domain.PosCF, domain.PosF9:
			return 0.6
		case domain.PosLB, domain.PosRB, domain.PosWB:
			return 0.5
		case domain.PosGK:
			return 0.0
		default:
			return 0.2
		}
	case selectDribbler:
		switch role {
		case domain.PosLW, domain.PosRW, domain.PosAM, domain.PosF9:
			return 1.0
		case domain.PosLM, domain.PosRM, domain.PosST, domain.PosCF:
			return 0.7
		case domain.PosCM, domain.PosLB, domain.PosRB, domain.PosWB:
			return 0.4
		case domain.PosGK:
			return 0.0
		default:
			return 0.2
		}
	case selectPasser:
		switch role.Group() {
		case domain.GroupMidfield:
			return 1.0
		case domain.GroupDefence:
			return 0.8
		case domain.GroupAttack:
			return 0.7
		default: // GK rarely starts a counted passage
			return 0.1
		}
	case selectDefender:
		switch role {
		case domain.PosDM, domain.PosCB, domain.PosSW:
			return 1.0
		case domain.PosLB, domain.PosRB, domain.PosWB:
			return 0.8
		case domain.PosCM:
			return 0.6
		case domain.PosGK:
			return 0.0
		default:
			return 0.3
		}
	case selectFouler:
		if role == domain.PosGK {
			return 0.05
		}
		return 1.0
	case selectHeader:
		switch role {
		case domain.PosST, domain.PosCF, domain.PosCB, domain.PosSW:
			return 1.0
		case domain.PosF9, domain.PosAM, domain.PosDM:
			return 0.6
		case domain.PosGK:
			return 0.0
		default:
			return 0.4
		}
	}
	return 0.5
}

func selectionRating(kind selectionKind) domain.RatingKind {
	switch kind {
	case selectShooter, selectHeader:
		return domain.RatingAtt
	case selectAssister, selectPasser:
		return domain.RatingMid
	case selectDribbler:
		return domain.RatingPace
	case selectDefender:
		return domain.RatingDef
	case selectFouler:
		return domain.RatingDiscipline
	}
	return domain.RatingMid
}

// playerSelector draws actors for events, weighted by positional prior ×
// effective rating × fatigue. Only on-pitch players are candidates, so red
// cards and substitutions are enforced structurally.
type playerSelector struct {
	rng *rand.Rand
}

// pick draws one player; exclude removes a specific id (e.g. the passer
// when drawing a receiver). Falls back to the best-rated outfielder when
// every weight is zero.
func (sel *playerSelector) pick(ts *TeamState, kind selectionKind, exclude string) (*PlayerState, bool) {
	candidates := ts.sortedOnPitch()
	rating := selectionRating(kind)

	weights := make([]float64, len(candidates))
	var total float64
	for i, ps := range candidates {
		if ps.Player.ID == exclude {
			continue
		}
		w := roleWeight(kind, ps.Role)
		if w == 0 {
			continue
		}
		eff := domain.Effective(ps.Player, rating)
		if kind == selectFouler {
			// aggressive, undisciplined players give away more fouls
			aggr := float64(ps.Player.Attributes.Get(domain.AttrAggression))
			eff = aggr * (21 - domain.Effective(ps.Player, domain.RatingDiscipline)) / 10
		}
		w *= eff * maxf(ts.Fatigue[ps.Player.ID], 0.2)
		weights[i] = w
		total += w
	}

	if total <= 0 {
		// no compatible player: best-rated available outfielder
		var best *PlayerState
		for _, ps := range candidates {
			if ps.Role == domain.PosGK || ps.Player.ID == exclude {
				continue
			}
			if best == nil || domain.Effective(ps.Player, rating) > domain.Effective(best.Player, rating) {
				best = ps
			}
		}
		return best, best != nil
	}

	r := sel.rng.Float64() * total
	for i, ps := range candidates {
		r -= weights[i]
		if r < 0 && weights[i] > 0 {
			return ps, true
		}
	}
	return candidates[len(candidates)-1], true
}

// taker resolves a precomputed set-piece taker, substituting the current
// best alternative if the designated player has left the pitch.
func (sel *playerSelector) taker(ts *TeamState, id string, fallback selectionKind) (*PlayerState, bool) {
	if ps, ok := ts.PlayerOn(id); ok {
		return ps, true
	}
	return sel.pick(ts, fallback, "")
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
