package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charleschow/matchday/internal/config"
	"github.com/charleschow/matchday/internal/domain"
	"github.com/charleschow/matchday/internal/events"
)

func preparedState(t *testing.T) *MatchState {
	t.Helper()
	sim, err := Prepare(demoInput(99), config.DefaultTuning())
	require.NoError(t, err)
	return sim.State()
}

func outfielder(ts *TeamState) *PlayerState {
	for _, ps := range ts.OnPitch {
		if ps.Role != domain.PosGK {
			return ps
		}
	}
	return nil
}

func TestApplyGoalUpdatesScoreAndLog(t *testing.T) {
	ms := preparedState(t)
	ms.Minute = 12
	scorer := outfielder(ms.Home)

	derived, err := ms.Apply(events.Event{
		Type:              events.EventGoal,
		Team:              domain.SideHome,
		PrimaryPlayerID:   scorer.Player.ID,
		PrimaryPlayerName: scorer.Player.Name,
	})
	require.NoError(t, err)
	assert.Empty(t, derived)
	assert.Equal(t, events.Score{Home: 1, Away: 0}, ms.Score)
	assert.Equal(t, 1, ms.Stats.Home.Shots)
	assert.Equal(t, 1, ms.Stats.Home.ShotsOnTarget)
	require.Len(t, ms.Goals, 1)
	assert.Equal(t, 12, ms.Goals[0].Minute)
	assert.Equal(t, scorer.Player.ID, ms.Goals[0].Event.PrimaryPlayerID)
}

func TestApplySecondYellowDerivesRed(t *testing.T) {
	ms := preparedState(t)
	offender := outfielder(ms.Away)
	card := events.Event{
		Type:              events.EventYellowCard,
		Team:              domain.SideAway,
		PrimaryPlayerID:   offender.Player.ID,
		PrimaryPlayerName: offender.Player.Name,
	}

	derived, err := ms.Apply(card)
	require.NoError(t, err)
	assert.Empty(t, derived)
	assert.Equal(t, 1, ms.Stats.Away.YellowCards)

	derived, err = ms.Apply(card)
	require.NoError(t, err)
	require.Len(t, derived, 1)
	assert.Equal(t, events.EventRedCard, derived[0].Type)
	assert.Equal(t, "second_yellow", derived[0].Outcome)
	assert.Equal(t, offender.Player.ID, derived[0].PrimaryPlayerID)

	assert.Equal(t, 2, ms.Stats.Away.YellowCards)
	assert.Equal(t, 1, ms.Stats.Away.RedCards)
	_, onPitch := ms.Away.PlayerOn(offender.Player.ID)
	assert.False(t, onPitch)
	assert.Len(t, ms.Away.OnPitch, 10)
}

func TestApplyRedToGKDemotesOutfielder(t *testing.T) {
	ms := preparedState(t)
	gk, ok := ms.Home.GK()
	require.True(t, ok)

	_, err := ms.Apply(events.Event{
		Type:            events.EventRedCard,
		Team:            domain.SideHome,
		PrimaryPlayerID: gk.Player.ID,
	})
	require.NoError(t, err)

	newGK, ok := ms.Home.GK()
	require.True(t, ok, "someone must go in goal")
	assert.NotEqual(t, gk.Player.ID, newGK.Player.ID)
	assert.Len(t, ms.Home.OnPitch, 10, "no substitute comes on for an expelled GK")
	assert.Equal(t, 0, ms.Home.SubsUsed)
}

func TestApplySubstitutionSwapsPlayers(t *testing.T) {
	ms := preparedState(t)

	// a like-for-like change keeps the vacated slot
	var off *PlayerState
	var on domain.Player
outer:
	for _, ps := range ms.Home.OnPitch {
		if ps.Role == domain.PosGK {
			continue
		}
		for _, p := range ms.Home.Bench {
			if p.Position != domain.PosGK && p.Position.Group() == ps.Role.Group() {
				off, on = ps, p
				break outer
			}
		}
	}
	require.NotNil(t, off, "bench must hold a same-group cover")

	_, err := ms.Apply(events.Event{
		Type:              events.EventSubstitution,
		Team:              domain.SideHome,
		PrimaryPlayerID:   off.Player.ID,
		SecondaryPlayerID: on.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, ms.Home.SubsUsed)
	_, stillOn := ms.Home.PlayerOn(off.Player.ID)
	assert.False(t, stillOn)
	sub, nowOn := ms.Home.PlayerOn(on.ID)
	require.True(t, nowOn)
	assert.Equal(t, 1.0, ms.Home.Fatigue[on.ID])
	assert.Equal(t, off.Role, sub.Role, "a like-for-like substitute inherits the vacated role")
	assert.True(t, ms.Home.SubbedOff[off.Player.ID])
}

func TestApplySubstitutionAcrossGroupsUsesNaturalRole(t *testing.T) {
	ms := preparedState(t)

	var def *PlayerState
	for _, ps := range ms.Home.OnPitch {
		if ps.Role.Group() == domain.GroupDefence {
			def = ps
			break
		}
	}
	require.NotNil(t, def)

	var fwd domain.Player
	for _, p := range ms.Home.Bench {
		if p.Position.Group() == domain.GroupAttack {
			fwd = p
			break
		}
	}
	require.NotEmpty(t, fwd.ID, "bench must hold an attacker")

	_, err := ms.Apply(events.Event{
		Type:              events.EventSubstitution,
		Team:              domain.SideHome,
		PrimaryPlayerID:   def.Player.ID,
		SecondaryPlayerID: fwd.ID,
	})
	require.NoError(t, err)

	sub, ok := ms.Home.PlayerOn(fwd.ID)
	require.True(t, ok)
	assert.Equal(t, fwd.Position, sub.Role,
		"an attacker on for a defender plays up front, not in the back line")
}

func TestApplySubstitutionOverCap(t *testing.T) {
	ms := preparedState(t)
	ms.Home.SubsUsed = ms.MaxSubs

	_, err := ms.Apply(events.Event{
		Type:              events.EventSubstitution,
		Team:              domain.SideHome,
		PrimaryPlayerID:   outfielder(ms.Home).Player.ID,
		SecondaryPlayerID: ms.Home.Bench[0].ID,
	})
	var inv *InvariantError
	require.ErrorAs(t, err, &inv)
}

func TestApplySubbedOffPlayerCannotReturn(t *testing.T) {
	ms := preparedState(t)
	off := outfielder(ms.Home)
	on := ms.Home.Bench[0]

	_, err := ms.Apply(events.Event{
		Type:              events.EventSubstitution,
		Team:              domain.SideHome,
		PrimaryPlayerID:   off.Player.ID,
		SecondaryPlayerID: on.ID,
	})
	require.NoError(t, err)

	_, err = ms.Apply(events.Event{
		Type:            events.EventYellowCard,
		Team:            domain.SideHome,
		PrimaryPlayerID: off.Player.ID,
	})
	var inv *InvariantError
	require.ErrorAs(t, err, &inv)
}

func TestApplyOnFrozenStateFails(t *testing.T) {
	ms := preparedState(t)
	ms.Freeze()

	_, err := ms.Apply(events.Event{Type: events.EventCorner, Team: domain.SideHome})
	var inv *InvariantError
	require.ErrorAs(t, err, &inv)
}

func TestApplyUnknownEventFails(t *testing.T) {
	ms := preparedState(t)

	_, err := ms.Apply(events.Event{Type: "own_goal", Team: domain.SideHome})
	var inv *InvariantError
	require.ErrorAs(t, err, &inv)
}

func TestSaveIsStatNeutral(t *testing.T) {
	ms := preparedState(t)
	gk, _ := ms.Away.GK()

	_, err := ms.Apply(events.Event{
		Type:            events.EventShotOnTarget,
		Team:            domain.SideHome,
		PrimaryPlayerID: outfielder(ms.Home).Player.ID,
	})
	require.NoError(t, err)
	_, err = ms.Apply(events.Event{
		Type:            events.EventSave,
		Team:            domain.SideAway,
		PrimaryPlayerID: gk.Player.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, ms.Stats.Home.Shots)
	assert.Equal(t, 1, ms.Stats.Home.ShotsOnTarget)
	assert.Equal(t, 0, ms.Stats.Away.Shots, "a save never counts as a shot")
}
