package engine

import "github.com/charleschow/matchday/internal/domain"

// Fatigue decays per simulated minute. 1.0 is fresh; players never drop
// below 0. High work rate burns faster, high stamina and natural fitness
// slow the burn, tempo and pressing tactics add a flat surcharge.
const baseFatigueDecay = 0.006

const (
	fatigueSoftKnee = 0.6 // below this, outcome rolls degrade
	fatigueSubKnee  = 0.4 // below this, the bench starts warming up
)

func fatigueDecay(p domain.Player, mods Modifiers) float64 {
	workRate := float64(p.Attributes.Get(domain.AttrWorkRate))
	stamina := float64(p.Attributes.Get(domain.AttrStamina))
	fitness := float64(p.Attributes.Get(domain.AttrNaturalFitness))

	workFactor := 1.0 + (workRate-10)/40        // 0.775 .. 1.25
	staminaFactor := 0.7 + (stamina+fitness)/40 // 0.75 .. 1.7

	return baseFatigueDecay*workFactor/staminaFactor + mods.FatigueDecay*baseFatigueDecay
}

// advanceFatigue applies one minute of decay to every on-pitch player.
func advanceFatigue(ms *MatchState) {
	for _, ts := range []*TeamState{ms.Home, ms.Away} {
		for _, ps := range ts.OnPitch {
			f := ts.Fatigue[ps.Player.ID] - fatigueDecay(ps.Player, ts.Mods)
			if f < 0 {
				f = 0
			}
			ts.Fatigue[ps.Player.ID] = f
		}
	}
}

// fatiguePenalty is subtracted from an actor's success probability.
// No penalty while fresh; up to 0.15 when fully spent.
func fatiguePenalty(fatigue float64) float64 {
	if fatigue >= fatigueSoftKnee {
		return 0
	}
	p := (1.0 - fatigue) * 0.15
	if p < 0 {
		return 0
	}
	return p
}
