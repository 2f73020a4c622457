package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/charleschow/matchday/internal/domain"
)

func TestTacticModifiersBalancedIsNeutral(t *testing.T) {
	m := TacticModifiers(domain.Tactic{})
	assert.Equal(t, Modifiers{}, m, "default tactic adds no deltas")
}

func TestTacticModifiersMentalityOrdering(t *testing.T) {
	veryDef := TacticModifiers(domain.Tactic{Mentality: domain.MentalityVeryDefensive})
	def := TacticModifiers(domain.Tactic{Mentality: domain.MentalityDefensive})
	att := TacticModifiers(domain.Tactic{Mentality: domain.MentalityAttacking})
	veryAtt := TacticModifiers(domain.Tactic{Mentality: domain.MentalityVeryAttacking})

	assert.Less(t, veryDef.Ignition, def.Ignition)
	assert.Less(t, def.Ignition, att.Ignition)
	assert.Less(t, att.Ignition, veryAtt.Ignition)
	assert.Greater(t, veryAtt.PassRisk, 0.0, "committing forward costs pass safety")
}

func TestTacticModifiersPressingCostsFatigue(t *testing.T) {
	always := TacticModifiers(domain.Tactic{Pressing: domain.PressingAlways})
	never := TacticModifiers(domain.Tactic{Pressing: domain.PressingNever})

	assert.Greater(t, always.Turnover, never.Turnover)
	assert.Greater(t, always.FatigueDecay, never.FatigueDecay)
}

func TestTacticModifiersHighLineRisksOffside(t *testing.T) {
	high := TacticModifiers(domain.Tactic{DefensiveLine: domain.LineVeryHigh, OffsideTrap: true})
	deep := TacticModifiers(domain.Tactic{DefensiveLine: domain.LineVeryDeep})

	assert.Greater(t, high.Offside, deep.Offside)
}
