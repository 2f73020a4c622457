package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charleschow/matchday/internal/config"
	"github.com/charleschow/matchday/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	results, err := store.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { results.Close() })

	cfg := &config.Config{
		DefaultSpeed: "instant",
		Commentary:   true,
		AutoLineup:   true,
		StoppageBias: 5,
	}
	return New(cfg, config.DefaultTuning(), results)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func createMatch(t *testing.T, srv *Server, seed uint64) string {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/matches", map[string]any{
		"home": map[string]any{"team_id": "team-rovers"},
		"away": map[string]any{"team_id": "team-athletic", "formation": "4-4-2"},
		"seed": seed,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		MatchID string `json:"match_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.MatchID)
	return resp.MatchID
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, testServer(t), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListTeamsSeeded(t *testing.T) {
	rec := doJSON(t, testServer(t), http.MethodGet, "/teams", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Teams []struct {
			ID      string `json:"id"`
			Players int    `json:"players"`
		} `json:"teams"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Teams, 2)
	for _, team := range resp.Teams {
		assert.Equal(t, 18, team.Players)
	}
}

type failureResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) failureResponse {
	t.Helper()
	var resp failureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateMatchUnknownTeam(t *testing.T) {
	rec := doJSON(t, testServer(t), http.MethodPost, "/matches", map[string]any{
		"home": map[string]any{"team_id": "team-rovers"},
		"away": map[string]any{"team_id": "team-ghosts"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeFailure(t, rec)
	assert.Equal(t, "PreconditionFailure", resp.Error)
	assert.Contains(t, resp.Reason, "unknown team")
}

func TestCreateMatchSameTeamTwice(t *testing.T) {
	rec := doJSON(t, testServer(t), http.MethodPost, "/matches", map[string]any{
		"home": map[string]any{"team_id": "team-rovers"},
		"away": map[string]any{"team_id": "team-rovers"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateMatchInvalidLineup(t *testing.T) {
	rec := doJSON(t, testServer(t), http.MethodPost, "/matches", map[string]any{
		"home": map[string]any{
			"team_id": "team-rovers",
			"lineup":  map[string]any{"starting": []any{}},
		},
		"away": map[string]any{"team_id": "team-athletic"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeFailure(t, rec)
	assert.Equal(t, "InvalidLineup", resp.Error)
	assert.Contains(t, resp.Reason, "11 starters")
}

func TestCreateMatchLineupNeedsExactlyOneGK(t *testing.T) {
	starting := make([]map[string]any, 0, 11)
	for i := 1; i <= 11; i++ {
		pos := "CM"
		if i <= 2 {
			pos = "GK"
		}
		starting = append(starting, map[string]any{
			"player_id": fmt.Sprintf("team-rovers-p%02d", i),
			"position":  pos,
		})
	}
	rec := doJSON(t, testServer(t), http.MethodPost, "/matches", map[string]any{
		"home": map[string]any{
			"team_id": "team-rovers",
			"lineup":  map[string]any{"starting": starting},
		},
		"away": map[string]any{"team_id": "team-athletic"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeFailure(t, rec)
	assert.Equal(t, "InvalidLineup", resp.Error)
	assert.Equal(t, "must contain exactly 1 GK", resp.Reason)
}

func TestSimulateInstantAndResult(t *testing.T) {
	srv := testServer(t)
	id := createMatch(t, srv, 42)

	// result does not exist until the match is played
	rec := doJSON(t, srv, http.MethodGet, "/matches/"+id+"/result", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/matches/"+id+"/simulate-instant", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		MatchID string `json:"match_id"`
		Minutes []struct {
			Minute int    `json:"minute"`
			Phase  string `json:"phase"`
		} `json:"minutes"`
		FinalScore struct {
			Home int `json:"home"`
			Away int `json:"away"`
		} `json:"final_score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, id, doc.MatchID)
	require.NotEmpty(t, doc.Minutes)
	assert.Equal(t, "full_time", doc.Minutes[len(doc.Minutes)-1].Phase)

	rec = doJSON(t, srv, http.MethodGet, "/matches/"+id+"/result", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		FinalScore struct {
			Home int `json:"home"`
			Away int `json:"away"`
		} `json:"final_score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, doc.FinalScore, result.FinalScore)
}

func TestSimulateInstantIsRepeatable(t *testing.T) {
	srv := testServer(t)
	id := createMatch(t, srv, 123)

	first := doJSON(t, srv, http.MethodGet, "/matches/"+id+"/simulate-instant", nil)
	require.Equal(t, http.StatusOK, first.Code)
	second := doJSON(t, srv, http.MethodGet, "/matches/"+id+"/simulate-instant", nil)
	require.Equal(t, http.StatusOK, second.Code)

	assert.JSONEq(t, first.Body.String(), second.Body.String(), "a seeded match replays identically")
}

func TestSimulateStreamEmitsSSE(t *testing.T) {
	srv := testServer(t)
	id := createMatch(t, srv, 9)

	rec := doJSON(t, srv, http.MethodPost, "/matches/"+id+"/simulate-stream?speed=instant", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "event: lineup\n"), "stream must open with the lineup frame")
	assert.Contains(t, body, "event: full_time\n")
}

func TestSimulateMissingMatch(t *testing.T) {
	srv := testServer(t)
	for _, path := range []string{
		"/matches/nope/simulate-instant",
		"/matches/nope/result",
	} {
		rec := doJSON(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestCreateTeamValidation(t *testing.T) {
	srv := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/teams", map[string]any{"id": "t", "name": "Too Small FC"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	players := make([]map[string]any, 0, 11)
	for i := 0; i < 11; i++ {
		pos := "CM"
		if i == 0 {
			pos = "GK"
		}
		players = append(players, map[string]any{
			"id":           fmt.Sprintf("np%02d", i+1),
			"name":         fmt.Sprintf("New Player %d", i+1),
			"shirt_number": i + 1,
			"position":     pos,
		})
	}
	rec = doJSON(t, srv, http.MethodPost, "/teams", map[string]any{
		"id":      "team-new",
		"name":    "Newtown FC",
		"players": players,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// the new team is immediately schedulable
	rec = doJSON(t, srv, http.MethodPost, "/matches", map[string]any{
		"home": map[string]any{"team_id": "team-new"},
		"away": map[string]any{"team_id": "team-rovers"},
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
