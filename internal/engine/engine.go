package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/charleschow/matchday/internal/config"
	"github.com/charleschow/matchday/internal/domain"
	"github.com/charleschow/matchday/internal/events"
	"github.com/charleschow/matchday/internal/telemetry"
)

// SideInput is one team's slice of the match input snapshot.
type SideInput struct {
	Team      domain.Team
	Formation domain.Formation
	Tactic    domain.Tactic
	Lineup    *domain.MatchLineup
}

// MatchInput is the full, deep-cloned input to one simulation. The engine
// never consults a repository mid-match.
type MatchInput struct {
	MatchID    string
	Home       SideInput
	Away       SideInput
	Seed       uint64
	Commentary bool
	AutoLineup bool
}

// TickResult carries one tick or the terminal error, never both.
type TickResult struct {
	Tick events.Tick
	Err  error
}

// Simulation is one prepared match: lineups resolved, state initialized,
// RNG seeded. Run may be called once.
type Simulation struct {
	input  MatchInput
	tuning config.Tuning
	state  *MatchState
	rng    *rand.Rand

	homeLineup domain.MatchLineup
	awayLineup domain.MatchLineup

	poss  possessionEngine
	chain chainBuilder
}

// Prepare validates the input, resolves lineups, and builds the initial
// state. All PreconditionFailure and InvalidLineup cases surface here,
// before any tick exists.
func Prepare(in MatchInput, tuning config.Tuning) (*Simulation, error) {
	if in.Home.Team.ID == "" || len(in.Home.Team.Players) == 0 {
		return nil, precondition("home team missing or empty")
	}
	if in.Away.Team.ID == "" || len(in.Away.Team.Players) == 0 {
		return nil, precondition("away team missing or empty")
	}
	if len(in.Home.Formation.Slots) == 0 || len(in.Away.Formation.Slots) == 0 {
		return nil, precondition("formation missing")
	}
	if in.Home.Lineup == nil && !in.AutoLineup {
		return nil, precondition("home lineup missing and auto-lineup disabled")
	}
	if in.Away.Lineup == nil && !in.AutoLineup {
		return nil, precondition("away lineup missing and auto-lineup disabled")
	}

	homeLineup, err := domain.ResolveLineup(&in.Home.Team, in.Home.Formation, in.Home.Lineup)
	if err != nil {
		return nil, err
	}
	awayLineup, err := domain.ResolveLineup(&in.Away.Team, in.Away.Formation, in.Away.Lineup)
	if err != nil {
		return nil, err
	}
	telemetry.Debugf("engine: match %s home XI %v away XI %v",
		in.MatchID, homeLineup.StartingIDs(), awayLineup.StartingIDs())

	seed := in.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(int64(seed)))

	state := &MatchState{
		MatchID:    in.MatchID,
		Phase:      events.PhasePreMatch,
		Possession: events.PossessionContested,
		Zone:       events.ZoneMiddle,
		Home:       newTeamState(domain.SideHome, in.Home, homeLineup),
		Away:       newTeamState(domain.SideAway, in.Away, awayLineup),
		MaxSubs:    tuning.MaxSubstitutions,
	}

	sim := &Simulation{
		input:      in,
		tuning:     tuning,
		state:      state,
		rng:        rng,
		homeLineup: homeLineup,
		awayLineup: awayLineup,
	}
	sim.poss = possessionEngine{rng: rng}
	sel := &playerSelector{rng: rng}
	sim.chain = chainBuilder{rng: rng, sel: sel, res: &outcomeResolver{rng: rng}}
	return sim, nil
}

// Lineups returns both sides' resolved starting lineups.
func (s *Simulation) Lineups() (home, away domain.MatchLineup) {
	return s.homeLineup, s.awayLineup
}

// State exposes the match state; callers must treat it as read-only and
// only consult it after the stream has ended.
func (s *Simulation) State() *MatchState { return s.state }

// Run produces one tick per simulated minute on an unbuffered channel:
// the producer computes a tick, then suspends until the consumer takes it.
// Cancellation is observed at tick boundaries only, so no tick is ever
// partially emitted. The channel closes after full time or a terminal
// error result.
func (s *Simulation) Run(ctx context.Context) <-chan TickResult {
	out := make(chan TickResult)
	go func() {
		defer close(out)
		telemetry.Metrics.SimulationsStarted.Inc()

		stoppage := -1 // drawn when regulation ends
		budget := s.tuning.TickBudget()

		for minute := 1; ; minute++ {
			select {
			case <-ctx.Done():
				telemetry.Metrics.SimulationsAborted.Inc()
				return
			default:
			}

			if minute == 90 {
				stoppage = s.drawStoppage()
			}
			last := stoppage >= 0 && minute == 90+stoppage
			if minute > 95 {
				// hard upper bound; regulation math should never get here
				out <- TickResult{Err: invariant(minute, "minute beyond 95")}
				return
			}

			started := time.Now()
			tick, err := s.advanceMinute(minute, last)
			elapsed := time.Since(started)
			telemetry.Metrics.TickLatency.Record(elapsed)
			if err == nil && elapsed > budget {
				err = invariant(minute, "tick exceeded %s budget", budget)
			}
			if err != nil {
				telemetry.Metrics.SimulationsAborted.Inc()
				out <- TickResult{Err: err}
				return
			}

			telemetry.Metrics.TicksEmitted.Inc()
			select {
			case out <- TickResult{Tick: tick}:
			case <-ctx.Done():
				telemetry.Metrics.SimulationsAborted.Inc()
				return
			}

			if last {
				s.state.Freeze()
				telemetry.Metrics.SimulationsCompleted.Inc()
				return
			}
		}
	}()
	return out
}

// advanceMinute runs the §4.11 per-minute algorithm and snapshots the tick.
func (s *Simulation) advanceMinute(minute int, last bool) (events.Tick, error) {
	ms := s.state
	ms.Minute = minute
	switch {
	case minute <= 44:
		ms.Phase = events.PhaseFirstHalf
	case minute == 45:
		ms.Phase = events.PhaseHalfTime
	case last:
		ms.Phase = events.PhaseFullTime
	default:
		ms.Phase = events.PhaseSecondHalf
	}

	advanceFatigue(ms)
	s.poss.advance(ms)

	var tickEvents []events.Event
	if s.rng.Float64() < s.poss.ignitionProbability(ms, s.tuning.IgnitionScale) {
		for _, ev := range s.chain.build(ms) {
			applied, err := s.applyOne(ev)
			if err != nil {
				return events.Tick{}, err
			}
			tickEvents = append(tickEvents, applied...)
		}
	}

	// at most one substitution per side per minute
	for _, ts := range []*TeamState{ms.Home, ms.Away} {
		if sub := managerTick(ms, ts); sub != nil {
			applied, err := s.applyOne(*sub)
			if err != nil {
				return events.Tick{}, err
			}
			tickEvents = append(tickEvents, applied...)
		}
	}

	// possession_ticks accrues every minute the ball belongs to a side
	switch ms.Possession {
	case events.PossessionHome:
		ms.Stats.Home.PossessionTicks++
	case events.PossessionAway:
		ms.Stats.Away.PossessionTicks++
	}

	if minute == 45 {
		s.halfTimeReset()
	}

	var commentary string
	if s.input.Commentary {
		commentary = buildCommentary(ms, tickEvents)
	}
	return ms.Snapshot(tickEvents, commentary), nil
}

// applyOne feeds an event through MatchState.Apply and folds in any
// derived events (a second yellow's red card), preserving order.
func (s *Simulation) applyOne(ev events.Event) ([]events.Event, error) {
	derived, err := s.state.Apply(ev)
	if err != nil {
		if _, ok := err.(*InvariantError); ok {
			return nil, err
		}
		return nil, wrapInternal(s.state.Minute, string(ev.Type), err)
	}
	switch ev.Type {
	case events.EventGoal:
		telemetry.Metrics.GoalsScored.Inc()
	case events.EventYellowCard, events.EventRedCard:
		telemetry.Metrics.CardsIssued.Inc()
	}
	for _, d := range derived {
		if d.Type == events.EventRedCard {
			telemetry.Metrics.CardsIssued.Inc()
		}
	}
	return append([]events.Event{ev}, derived...), nil
}

// halfTimeReset restarts play from the centre circle and gives the squad a
// small breather.
func (s *Simulation) halfTimeReset() {
	ms := s.state
	ms.Possession = events.PossessionContested
	ms.Zone = events.ZoneMiddle
	for _, ts := range []*TeamState{ms.Home, ms.Away} {
		for id, f := range ts.Fatigue {
			ts.Fatigue[id] = minf(1.0, f+0.06)
		}
	}
}

// drawStoppage samples added time from the second half's incident count.
// Always within [0, bias] and fully driven by the match RNG stream.
func (s *Simulation) drawStoppage() int {
	bias := s.tuning.StoppageBias
	if bias <= 0 {
		return 0
	}
	incidents := s.state.Stats.Home.YellowCards + s.state.Stats.Away.YellowCards +
		s.state.Stats.Home.RedCards + s.state.Stats.Away.RedCards +
		s.state.Home.SubsUsed + s.state.Away.SubsUsed +
		s.state.Score.Home + s.state.Score.Away
	st := 1 + incidents/4 + s.rng.Intn(2)
	if st > bias {
		st = bias
	}
	if st < 0 {
		st = 0
	}
	return st
}
