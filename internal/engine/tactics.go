package engine

import "github.com/charleschow/matchday/internal/domain"

// Modifiers is the tactic bundle translated into probability deltas.
// All fields are additive unless named *Scale.
type Modifiers struct {
	Ignition      float64 // per-minute event probability, applied in attacking zone
	ShotQuality   float64 // shot on-target and conversion rolls
	PassRisk      float64 // subtracted from pass completion
	Turnover      float64 // opponent pressing forces turnovers
	Offside       float64 // offside probability when attacking
	FatigueDecay  float64 // extra per-minute fatigue decay
	HoldPossession float64 // bias toward keeping the ball in the zone matrix
}

// TacticModifiers is a pure function from a tactic to its modifier bundle.
func TacticModifiers(t domain.Tactic) Modifiers {
	t = t.Normalized()
	var m Modifiers

	switch t.Mentality {
	case domain.MentalityVeryDefensive:
		m.Ignition -= 0.05
		m.ShotQuality -= 0.03
		m.HoldPossession -= 0.05
	case domain.MentalityDefensive:
		m.Ignition -= 0.02
		m.ShotQuality -= 0.01
	case domain.MentalityAttacking:
		m.Ignition += 0.03
		m.ShotQuality += 0.01
		m.PassRisk += 0.02
	case domain.MentalityVeryAttacking:
		m.Ignition += 0.05
		m.ShotQuality += 0.02
		m.PassRisk += 0.04
	}

	switch t.Pressing {
	case domain.PressingNever:
		m.Turnover -= 0.04
	case domain.PressingRarely:
		m.Turnover -= 0.02
	case domain.PressingOften:
		m.Turnover += 0.05
		m.FatigueDecay += 0.02
	case domain.PressingAlways:
		m.Turnover += 0.08
		m.FatigueDecay += 0.04
	}

	switch t.Tempo {
	case domain.TempoSlow:
		m.Ignition -= 0.02
		m.HoldPossession += 0.05
	case domain.TempoFast:
		m.Ignition += 0.03
		m.PassRisk += 0.02
		m.FatigueDecay += 0.01
	}

	switch t.Width {
	case domain.WidthNarrow:
		m.HoldPossession += 0.02
	case domain.WidthWide:
		m.ShotQuality += 0.01
		m.PassRisk += 0.01
	}

	switch t.DefensiveLine {
	case domain.LineVeryDeep:
		m.Offside -= 0.03
		m.HoldPossession -= 0.03
	case domain.LineDeep:
		m.Offside -= 0.02
	case domain.LineHigh:
		m.Offside += 0.05
	case domain.LineVeryHigh:
		m.Offside += 0.08
	}

	if t.OffsideTrap {
		m.Offside += 0.03
	}
	if t.CounterAttack {
		m.Ignition += 0.01
	}
	if t.PlayOutOfDefence {
		m.PassRisk += 0.01
		m.HoldPossession += 0.02
	}

	return m
}
