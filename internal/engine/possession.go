package engine

import (
	"math/rand"

	"github.com/charleschow/matchday/internal/domain"
	"github.com/charleschow/matchday/internal/events"
)

// possessionEngine drives the per-minute possession and zone transitions
// and decides how likely the minute is to ignite a key event.
type possessionEngine struct {
	rng *rand.Rand
}

// advance flips possession based on relative midfield strength plus
// pressing pressure, then walks the ball through the zone matrix.
func (pe *possessionEngine) advance(ms *MatchState) {
	homeMid := ms.Home.MidfieldRating()
	awayMid := ms.Away.MidfieldRating()

	// Logistic-ish keep probability centred on 0.62 for even sides.
	holder, other := ms.Home, ms.Away
	if ms.Possession == events.PossessionAway {
		holder, other = ms.Away, ms.Home
		homeMid, awayMid = awayMid, homeMid
	}

	keep := 0.62 + (homeMid-awayMid)*0.015 + holder.Mods.HoldPossession - other.Mods.Turnover
	keep = clamp(keep, 0.25, 0.90)

	if ms.Possession == events.PossessionContested {
		// coin weighted by midfield strength
		pHome := clamp(0.5+(ms.Home.MidfieldRating()-ms.Away.MidfieldRating())*0.02, 0.2, 0.8)
		if pe.rng.Float64() < pHome {
			ms.Possession = events.PossessionHome
		} else {
			ms.Possession = events.PossessionAway
		}
		ms.Zone = events.ZoneMiddle
		return
	}

	if pe.rng.Float64() >= keep {
		// turnover: ball changes hands and the zone mirrors
		ms.Possession = events.PossessionOf(possessingSide(ms).Opponent())
		ms.Zone = mirrorZone(ms.Zone)
		return
	}

	ms.Zone = pe.nextZone(ms.Zone, holder)
}

// nextZone samples the 3×3 transition matrix, biased toward the attacking
// direction; attacking tactics push further forward.
func (pe *possessionEngine) nextZone(z events.BallZone, holder *TeamState) events.BallZone {
	forward := 0.38 + holder.Mods.Ignition // attacking mentality presses up
	forward = clamp(forward, 0.25, 0.55)
	back := 0.18

	r := pe.rng.Float64()
	switch z {
	case events.ZoneDefensive:
		switch {
		case r < forward+0.12: // easy to clear the first third
			return events.ZoneMiddle
		default:
			return events.ZoneDefensive
		}
	case events.ZoneMiddle:
		switch {
		case r < forward:
			return events.ZoneAttacking
		case r < forward+back:
			return events.ZoneDefensive
		default:
			return events.ZoneMiddle
		}
	default: // attacking
		switch {
		case r < back+0.15: // defenders push the ball out
			return events.ZoneMiddle
		default:
			return events.ZoneAttacking
		}
	}
}

func mirrorZone(z events.BallZone) events.BallZone {
	switch z {
	case events.ZoneDefensive:
		return events.ZoneAttacking
	case events.ZoneAttacking:
		return events.ZoneDefensive
	default:
		return events.ZoneMiddle
	}
}

// ignitionProbability is the chance this minute produces a key event.
// Scaled by zone, phase pressure, and tactical tempo.
func (pe *possessionEngine) ignitionProbability(ms *MatchState, scale float64) float64 {
	p := 0.16
	switch ms.Zone {
	case events.ZoneAttacking:
		p = 0.30
	case events.ZoneMiddle:
		p = 0.18
	case events.ZoneDefensive:
		p = 0.10
	}

	holder := ms.Home
	if ms.Possession == events.PossessionAway {
		holder = ms.Away
	}
	if ms.Zone == events.ZoneAttacking {
		p += holder.Mods.Ignition
	}

	// late-half urgency
	m := ms.Minute
	if (m >= 40 && m <= 45) || (m >= 80 && m <= 90) {
		p += 0.04
	}
	if m > 85 {
		diff := ms.Score.Home - ms.Score.Away
		if diff >= -1 && diff <= 1 {
			p += 0.05
		}
	}

	return clamp(p*scale, 0.02, 0.75)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func possessingSide(ms *MatchState) domain.Side {
	if ms.Possession == events.PossessionAway {
		return domain.SideAway
	}
	return domain.SideHome
}
