package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charleschow/matchday/internal/domain"
)

func TestTeamsAreDeterministic(t *testing.T) {
	h1, a1 := Teams()
	h2, a2 := Teams()
	assert.Equal(t, h1, h2)
	assert.Equal(t, a1, a2)
}

func TestSquadsAreMatchReady(t *testing.T) {
	for _, team := range All() {
		require.Len(t, team.Players, 18, "team %s", team.ID)

		gk := 0
		seen := make(map[string]bool)
		for _, p := range team.Players {
			assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
			seen[p.ID] = true
			assert.True(t, p.Position.Valid(), "player %s position %q", p.ID, p.Position)
			if p.Position == domain.PosGK {
				gk++
			}
			for name, v := range p.Attributes {
				assert.GreaterOrEqual(t, v, 1, "%s %s", p.ID, name)
				assert.LessOrEqual(t, v, 20, "%s %s", p.ID, name)
			}
		}
		assert.Equal(t, 2, gk, "team %s needs a starting and a backup keeper", team.ID)

		// both stock formations must resolve without a submitted lineup
		for _, f := range []domain.Formation{domain.Formation433(), domain.Formation442()} {
			team := team
			lineup, err := domain.ResolveLineup(&team, f, nil)
			require.NoError(t, err, "team %s formation %s", team.ID, f.Name)
			assert.Len(t, lineup.Starting, 11)
		}
	}
}
