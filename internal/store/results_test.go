package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charleschow/matchday/internal/domain"
	"github.com/charleschow/matchday/internal/events"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(id string) MatchResult {
	return MatchResult{
		MatchID:    id,
		PlayedAt:   time.Date(2026, 8, 20, 19, 45, 0, 0, time.UTC),
		HomeTeam:   "Harbour Rovers",
		AwayTeam:   "Eastgate Athletic",
		FinalScore: events.Score{Home: 2, Away: 1},
		Stats: events.MatchStats{
			Home: events.SideStats{Shots: 9, ShotsOnTarget: 5, Corners: 4},
			Away: events.SideStats{Shots: 6, ShotsOnTarget: 2, Corners: 3},
		},
		Goals: []events.GoalRecord{
			{Minute: 23, Event: events.Event{Type: events.EventGoal, Team: domain.SideHome, PrimaryPlayerID: "p9", PrimaryPlayerName: "Ade Bakare"}},
			{Minute: 58, Event: events.Event{Type: events.EventGoal, Team: domain.SideAway, PrimaryPlayerID: "q10", PrimaryPlayerName: "Aaron Beckett"}},
			{Minute: 81, Event: events.Event{Type: events.EventGoal, Team: domain.SideHome, PrimaryPlayerID: "p11", PrimaryPlayerName: "Theo Marchetti"}},
		},
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := tempStore(t)
	want := sampleResult("m1")
	require.NoError(t, s.Save(want))

	got, err := s.Get("m1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveIsWriteOnce(t *testing.T) {
	s := tempStore(t)
	first := sampleResult("m1")
	require.NoError(t, s.Save(first))

	second := first
	second.FinalScore = events.Score{Home: 9, Away: 9}
	err := s.Save(second)
	require.ErrorIs(t, err, ErrAlreadySaved)

	got, err := s.Get("m1")
	require.NoError(t, err)
	assert.Equal(t, first.FinalScore, got.FinalScore, "the first result must stick")
}

func TestGetMissing(t *testing.T) {
	s := tempStore(t)
	_, err := s.Get("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := tempStore(t)
	for i, id := range []string{"old", "mid", "new"} {
		r := sampleResult(id)
		r.PlayedAt = r.PlayedAt.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.Save(r))
	}

	results, err := s.List(10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "new", results[0].MatchID)
	assert.Equal(t, "old", results[2].MatchID)

	limited, err := s.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
