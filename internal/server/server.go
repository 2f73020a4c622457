// Package server exposes the simulation engine over HTTP: a match
// registry, the SSE tick stream, the batch endpoint, stored results,
// and the read-only WebSocket spectator feed.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/charleschow/matchday/internal/config"
	"github.com/charleschow/matchday/internal/domain"
	"github.com/charleschow/matchday/internal/engine"
	"github.com/charleschow/matchday/internal/fanout"
	"github.com/charleschow/matchday/internal/store"
	"github.com/charleschow/matchday/internal/stream"
	"github.com/charleschow/matchday/internal/telemetry"
)

type Server struct {
	cfg      *config.Config
	tuning   config.Tuning
	registry *Registry
	results  *store.Store
	hub      *fanout.Hub
	pub      *stream.Publisher
	router   *gin.Engine
}

func New(cfg *config.Config, tuning config.Tuning, results *store.Store) *Server {
	hub := fanout.NewHub()
	s := &Server{
		cfg:      cfg,
		tuning:   tuning,
		registry: NewRegistry(),
		results:  results,
		hub:      hub,
		pub:      stream.NewPublisher(tuning, hub),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", s.handleMetrics)

	r.GET("/teams", s.handleListTeams)
	r.POST("/teams", s.handleCreateTeam)

	r.POST("/matches", s.handleCreateMatch)
	r.POST("/matches/:id/simulate-stream", s.handleSimulateStream)
	r.GET("/matches/:id/simulate-instant", s.handleSimulateInstant)
	r.GET("/matches/:id/result", s.handleGetResult)
	r.GET("/matches/:id/watch", s.handleWatch)

	return r
}

// Router exposes the handler for the HTTP server and tests.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, telemetry.Snapshot())
}

type teamSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
}

func (s *Server) handleListTeams(c *gin.Context) {
	var out []teamSummary
	for _, t := range s.registry.Teams() {
		out = append(out, teamSummary{ID: t.ID, Name: t.Name, Players: len(t.Players)})
	}
	c.JSON(http.StatusOK, gin.H{"teams": out})
}

func (s *Server) handleCreateTeam(c *gin.Context) {
	var team domain.Team
	if err := c.ShouldBindJSON(&team); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team payload: " + err.Error()})
		return
	}
	if team.ID == "" || team.Name == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "team id and name are required"})
		return
	}
	if len(team.Players) < 11 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "team needs at least 11 players"})
		return
	}
	for _, p := range team.Players {
		if !p.Position.Valid() {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("player %s has invalid position %q", p.ID, p.Position)})
			return
		}
	}
	s.registry.PutTeam(team)
	c.JSON(http.StatusCreated, gin.H{"team_id": team.ID})
}

type sideRequest struct {
	TeamID    string              `json:"team_id"`
	Formation string              `json:"formation,omitempty"`
	Tactic    domain.Tactic       `json:"tactic,omitempty"`
	Lineup    *domain.MatchLineup `json:"lineup,omitempty"`
}

type createMatchRequest struct {
	Home sideRequest `json:"home"`
	Away sideRequest `json:"away"`
	Seed uint64      `json:"seed,omitempty"`
}

func (s *Server) handleCreateMatch(c *gin.Context) {
	var req createMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match payload: " + err.Error()})
		return
	}

	home, err := s.sideInput("home", req.Home)
	if err != nil {
		c.JSON(statusFor(err), failureBody(err))
		return
	}
	away, err := s.sideInput("away", req.Away)
	if err != nil {
		c.JSON(statusFor(err), failureBody(err))
		return
	}
	if home.Team.ID == away.Team.ID {
		c.JSON(http.StatusUnprocessableEntity, failureBody(&engine.PreconditionError{Reason: "a team cannot play itself"}))
		return
	}

	rec := &MatchRecord{
		ID: uuid.NewString(),
		Input: engine.MatchInput{
			Home:       home,
			Away:       away,
			Seed:       req.Seed,
			Commentary: s.cfg.Commentary,
			AutoLineup: s.cfg.AutoLineup,
		},
		CreatedAt: time.Now().UTC(),
	}
	rec.Input.MatchID = rec.ID

	// Resolve once now so bad lineups fail at creation, not at kickoff.
	if _, err := engine.Prepare(rec.Input, s.tuning); err != nil {
		c.JSON(statusFor(err), failureBody(err))
		return
	}

	s.registry.PutMatch(rec)
	telemetry.Infof("server: match created id=%s %s vs %s seed=%d",
		rec.ID, home.Team.Name, away.Team.Name, req.Seed)
	c.JSON(http.StatusCreated, gin.H{
		"match_id":  rec.ID,
		"home_team": home.Team.Name,
		"away_team": away.Team.Name,
		"seed":      req.Seed,
	})
}

func (s *Server) sideInput(label string, req sideRequest) (engine.SideInput, error) {
	team, err := s.registry.Team(req.TeamID)
	if err != nil {
		return engine.SideInput{}, &engine.PreconditionError{Reason: fmt.Sprintf("%s: unknown team %q", label, req.TeamID)}
	}
	formation, err := formationByName(req.Formation)
	if err != nil {
		return engine.SideInput{}, &engine.PreconditionError{Reason: fmt.Sprintf("%s: %v", label, err)}
	}
	return engine.SideInput{
		Team:      team,
		Formation: formation,
		Tactic:    req.Tactic,
		Lineup:    req.Lineup,
	}, nil
}

func formationByName(name string) (domain.Formation, error) {
	switch name {
	case "", "4-3-3":
		return domain.Formation433(), nil
	case "4-4-2":
		return domain.Formation442(), nil
	default:
		return domain.Formation{}, fmt.Errorf("unknown formation %q", name)
	}
}

func (s *Server) handleSimulateStream(c *gin.Context) {
	rec, err := s.registry.Match(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	sim, err := engine.Prepare(rec.Input, s.tuning)
	if err != nil {
		c.JSON(statusFor(err), failureBody(err))
		return
	}

	speed := stream.ParseSpeed(c.Query("speed"), stream.ParseSpeed(s.cfg.DefaultSpeed, stream.SpeedRealtime))
	completed, err := s.pub.Stream(c.Request.Context(), c.Writer, sim, speed)
	if err != nil {
		telemetry.Warnf("server: stream ended early match=%s: %v", rec.ID, err)
		return
	}
	if completed {
		s.persistResult(sim)
	}
}

func (s *Server) handleSimulateInstant(c *gin.Context) {
	rec, err := s.registry.Match(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	sim, err := engine.Prepare(rec.Input, s.tuning)
	if err != nil {
		c.JSON(statusFor(err), failureBody(err))
		return
	}

	doc, err := s.pub.Collect(c.Request.Context(), sim)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.persistResult(sim)
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleGetResult(c *gin.Context) {
	res, err := s.results.Get(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleWatch(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.registry.Match(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.hub.HandleWS(c.Writer, c.Request, id)
}

// persistResult writes the frozen final state. Re-simulating a stored
// match is allowed (it is deterministic); only the first result sticks.
func (s *Server) persistResult(sim *engine.Simulation) {
	st := sim.State()
	err := s.results.Save(store.MatchResult{
		MatchID:    st.MatchID,
		PlayedAt:   time.Now().UTC(),
		HomeTeam:   st.Home.Team.Name,
		AwayTeam:   st.Away.Team.Name,
		FinalScore: st.Score,
		Stats:      st.Stats,
		Goals:      st.Goals,
	})
	if err != nil && !errors.Is(err, store.ErrAlreadySaved) {
		telemetry.Errorf("server: persist result match=%s: %v", st.MatchID, err)
	}
}

// statusFor maps engine setup failures to HTTP codes: bad inputs are the
// caller's fault, everything else is ours.
func statusFor(err error) int {
	var pre *engine.PreconditionError
	var lineup *domain.InvalidLineupError
	if errors.As(err, &pre) || errors.As(err, &lineup) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// failureBody splits a setup failure into the taxonomy name callers switch
// on and the human-readable reason.
func failureBody(err error) gin.H {
	var pre *engine.PreconditionError
	if errors.As(err, &pre) {
		return gin.H{"error": "PreconditionFailure", "reason": pre.Reason}
	}
	var lineup *domain.InvalidLineupError
	if errors.As(err, &lineup) {
		return gin.H{"error": "InvalidLineup", "reason": lineup.Reason}
	}
	return gin.H{"error": "InternalFailure", "reason": err.Error()}
}
