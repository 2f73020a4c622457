package server

import (
	"errors"
	"sync"
	"time"

	"github.com/charleschow/matchday/internal/domain"
	"github.com/charleschow/matchday/internal/engine"
	"github.com/charleschow/matchday/internal/fixtures"
)

var (
	errTeamNotFound  = errors.New("team not found")
	errMatchNotFound = errors.New("match not found")
)

// MatchRecord is a scheduled match: the frozen input snapshot plus
// bookkeeping. Every simulation of the record replays the same input.
type MatchRecord struct {
	ID        string
	Input     engine.MatchInput
	CreatedAt time.Time
}

// Registry is the in-memory team and match catalogue. It is seeded with
// the demo squads so the server is playable out of the box.
type Registry struct {
	mu      sync.RWMutex
	teams   map[string]domain.Team
	matches map[string]*MatchRecord
}

func NewRegistry() *Registry {
	r := &Registry{
		teams:   make(map[string]domain.Team),
		matches: make(map[string]*MatchRecord),
	}
	for _, t := range fixtures.All() {
		r.teams[t.ID] = t
	}
	return r
}

func (r *Registry) Team(id string) (domain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.teams[id]
	if !ok {
		return domain.Team{}, errTeamNotFound
	}
	return t, nil
}

func (r *Registry) PutTeam(t domain.Team) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams[t.ID] = t
}

func (r *Registry) Teams() []domain.Team {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, t)
	}
	return out
}

func (r *Registry) PutMatch(rec *MatchRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[rec.ID] = rec
}

func (r *Registry) Match(id string) (*MatchRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.matches[id]
	if !ok {
		return nil, errMatchNotFound
	}
	return rec, nil
}
