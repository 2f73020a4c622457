package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSquad(size int) *Team {
	positions := []Position{
		PosGK,
		PosLB, PosCB, PosCB, PosRB,
		PosDM, PosCM, PosCM,
		PosLW, PosST, PosRW,
		PosGK, PosCB, PosCM, PosAM, PosST, PosLW, PosRB,
	}
	team := &Team{ID: "test-team", Name: "Test Town"}
	for i := 0; i < size; i++ {
		pos := PosCM
		if i < len(positions) {
			pos = positions[i]
		}
		team.Players = append(team.Players, Player{
			ID:          fmt.Sprintf("p%02d", i+1),
			Name:        fmt.Sprintf("Player %d", i+1),
			ShirtNumber: i + 1,
			Position:    pos,
			Attributes:  AttributeBundle{AttrCurrentAbility: 10 + i%5},
		})
	}
	return team
}

func validStarting(team *Team, formation Formation) []LineupSlot {
	var out []LineupSlot
	for i, slot := range formation.Slots {
		out = append(out, LineupSlot{
			PlayerID: team.Players[i].ID,
			Position: slot.Position,
			X:        slot.X,
			Y:        slot.Y,
		})
	}
	return out
}

func TestResolveLineupAcceptsValidSubmission(t *testing.T) {
	team := testSquad(18)
	formation := Formation433()
	submitted := &MatchLineup{
		Starting: validStarting(team, formation),
		Bench:    []string{"p12", "p13", "p14"},
	}

	got, err := ResolveLineup(team, formation, submitted)
	require.NoError(t, err)
	assert.Equal(t, *submitted, got)
}

func TestResolveLineupRejectsWrongStarterCount(t *testing.T) {
	team := testSquad(18)
	formation := Formation433()
	submitted := &MatchLineup{Starting: validStarting(team, formation)[:10]}

	_, err := ResolveLineup(team, formation, submitted)
	require.Error(t, err)
	var lineupErr *InvalidLineupError
	require.ErrorAs(t, err, &lineupErr)
	assert.Contains(t, err.Error(), "exactly 11 starters")
}

func TestResolveLineupRejectsMissingGK(t *testing.T) {
	team := testSquad(18)
	formation := Formation433()
	starting := validStarting(team, formation)
	starting[0].Position = PosCB // demote the only GK slot

	_, err := ResolveLineup(team, formation, &MatchLineup{Starting: starting})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must contain exactly 1 GK")
}

func TestResolveLineupRejectsDuplicatePlayer(t *testing.T) {
	team := testSquad(18)
	formation := Formation433()
	starting := validStarting(team, formation)
	starting[10].PlayerID = starting[9].PlayerID

	_, err := ResolveLineup(team, formation, &MatchLineup{Starting: starting})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listed twice")
}

func TestResolveLineupRejectsNonSquadPlayer(t *testing.T) {
	team := testSquad(18)
	formation := Formation433()
	starting := validStarting(team, formation)
	starting[5].PlayerID = "stranger"

	_, err := ResolveLineup(team, formation, &MatchLineup{Starting: starting})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in squad")
}

func TestResolveLineupRejectsOversizedBench(t *testing.T) {
	team := testSquad(40)
	formation := Formation433()
	bench := make([]string, 0, 18)
	for i := 11; i < 29; i++ {
		bench = append(bench, fmt.Sprintf("p%02d", i+1))
	}

	_, err := ResolveLineup(team, formation, &MatchLineup{
		Starting: validStarting(team, formation),
		Bench:    bench,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bench")
}

func TestSuggestLineupFillsFormation(t *testing.T) {
	team := testSquad(18)
	formation := Formation433()

	got, err := ResolveLineup(team, formation, nil)
	require.NoError(t, err)
	require.Len(t, got.Starting, 11)

	gk := 0
	seen := make(map[string]bool)
	for _, s := range got.Starting {
		assert.False(t, seen[s.PlayerID], "player %s picked twice", s.PlayerID)
		seen[s.PlayerID] = true
		if s.Position == PosGK {
			gk++
			p, ok := team.Player(s.PlayerID)
			require.True(t, ok)
			assert.Equal(t, PosGK, p.Position, "outfielder suggested in goal")
		}
	}
	assert.Equal(t, 1, gk)
	assert.Len(t, got.Bench, 7)
}

func TestSuggestLineupIsDeterministic(t *testing.T) {
	team := testSquad(18)
	formation := Formation442()

	first, err := ResolveLineup(team, formation, nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := ResolveLineup(team, formation, nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSuggestLineupSkipsInjuredPlayers(t *testing.T) {
	team := testSquad(18)
	injured := team.Players[9].ID
	team.Players[9].Injured = true

	got, err := ResolveLineup(team, Formation433(), nil)
	require.NoError(t, err)
	for _, s := range got.Starting {
		assert.NotEqual(t, injured, s.PlayerID)
	}
	for _, id := range got.Bench {
		assert.NotEqual(t, injured, id)
	}
}

func TestSuggestLineupExactlyElevenNoBench(t *testing.T) {
	team := testSquad(11)

	got, err := ResolveLineup(team, Formation433(), nil)
	require.NoError(t, err)
	assert.Len(t, got.Starting, 11)
	assert.Empty(t, got.Bench)
}

func TestSuggestLineupTooFewPlayers(t *testing.T) {
	team := testSquad(10)

	_, err := ResolveLineup(team, Formation433(), nil)
	require.Error(t, err)
	var lineupErr *InvalidLineupError
	assert.ErrorAs(t, err, &lineupErr)
}
