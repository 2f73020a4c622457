package engine

import (
	"fmt"
	"math/rand"

	"github.com/charleschow/matchday/internal/domain"
	"github.com/charleschow/matchday/internal/events"
)

// chainBuilder expands an ignited minute into an ordered, fully resolved
// sequence of events. Every branch is resolved by the outcome resolver;
// the sub-action list on each event is the causal audit trail.
type chainBuilder struct {
	rng *rand.Rand
	sel *playerSelector
	res *outcomeResolver
}

// primary event categories, weighted per zone.
type primaryKind int

const (
	primaryAttack primaryKind = iota
	primaryTackleDuel
	primaryFoul
	primaryCorner
	primaryOffside
	primaryInjury
)

// pickPrimary draws the minute's primary event. The defending side's line
// height shifts the offside weight: a high line with the trap on catches
// more runs, a deep block concedes almost none.
func (cb *chainBuilder) pickPrimary(ms *MatchState, def *TeamState) primaryKind {
	type wk struct {
		k primaryKind
		w float64
	}
	var table []wk
	switch ms.Zone {
	case events.ZoneAttacking:
		table = []wk{
			{primaryAttack, 0.52},
			{primaryFoul, 0.14},
			{primaryCorner, 0.10},
			{primaryOffside, clamp(0.10+def.Mods.Offside, 0.01, 0.30)},
			{primaryTackleDuel, 0.12},
			{primaryInjury, 0.02},
		}
	case events.ZoneMiddle:
		table = []wk{
			{primaryAttack, 0.34},
			{primaryTackleDuel, 0.30},
			{primaryFoul, 0.24},
			{primaryOffside, clamp(0.06+def.Mods.Offside, 0.01, 0.30)},
			{primaryInjury, 0.06},
		}
	default:
		table = []wk{
			{primaryTackleDuel, 0.36},
			{primaryAttack, 0.30}, // playing out / counter launch
			{primaryFoul, 0.26},
			{primaryInjury, 0.08},
		}
	}

	var total float64
	for _, e := range table {
		total += e.w
	}
	r := cb.rng.Float64() * total
	for _, e := range table {
		r -= e.w
		if r < 0 {
			return e.k
		}
	}
	return primaryAttack
}

// build resolves one minute's chain and returns the ordered events.
// Events are NOT yet applied to state; the engine applies them in order.
func (cb *chainBuilder) build(ms *MatchState) []events.Event {
	side := possessingSide(ms)
	atk := ms.side(side)
	def := ms.side(side.Opponent())

	switch cb.pickPrimary(ms, def) {
	case primaryAttack:
		return cb.openPlayAttack(ms, atk, def)
	case primaryTackleDuel:
		return cb.tackleDuel(ms, atk, def)
	case primaryFoul:
		return cb.foulChain(ms, atk, def)
	case primaryCorner:
		return cb.wonCorner(ms, atk, def)
	case primaryOffside:
		return cb.offsideChain(ms, atk)
	default:
		return cb.injuryChain(ms, atk)
	}
}

// ── chain templates ─────────────────────────────────────────────

// openPlayAttack: pass → (dribble) → pass/cross → shot, with the shot
// branching to goal / save / off target / blocked → corner.
func (cb *chainBuilder) openPlayAttack(ms *MatchState, atk, def *TeamState) []events.Event {
	var evs []events.Event
	var seq []events.SubAction
	ball := cb.zoneCoord(ms.Zone)

	passer, ok := cb.sel.pick(atk, selectPasser, "")
	if !ok {
		return nil
	}
	receiver, ok := cb.sel.pick(atk, selectAssister, passer.Player.ID)
	if !ok {
		return nil
	}

	target := cb.forwardOf(ball)
	seq = append(seq, cb.sub(events.ActionPass, passer.Player.ID, receiver.Player.ID, ball, target))
	ball = target

	evs = append(evs, cb.event(events.EventPassAttempted, atk.Side, passer, nil, "attempted", ball, "", nil))

	passMod := -atk.Mods.PassRisk - def.Mods.Turnover*0.5
	if !cb.res.resolve(contestPass, passer, atk.Fatigue[passer.Player.ID], nil, passMod) {
		interceptor, ok := cb.sel.pick(def, selectDefender, "")
		if !ok {
			return evs
		}
		seq = append(seq, cb.sub(events.ActionIntercept, interceptor.Player.ID, "", mirror(ball), mirror(ball)))
		evs = append(evs, cb.event(events.EventInterception, def.Side, interceptor, nil, "won",
			mirror(ball), interceptor.Player.Name+" reads the pass and cuts it out", seq))
		return evs
	}
	evs = append(evs, cb.event(events.EventPassCompleted, atk.Side, passer, receiver, "completed", ball, "", nil))

	shooter := receiver
	assister := passer

	// optional take-on before the final ball
	if cb.rng.Float64() < 0.35 {
		marker, ok := cb.sel.pick(def, selectDefender, "")
		if ok {
			next := cb.forwardOf(ball)
			seq = append(seq, cb.sub(events.ActionDribble, receiver.Player.ID, marker.Player.ID, ball, next))
			if !cb.res.resolve(contestDribble, receiver, atk.Fatigue[receiver.Player.ID], marker, 0) {
				seq = append(seq, cb.sub(events.ActionTackle, marker.Player.ID, receiver.Player.ID, mirror(next), mirror(next)))
				evs = append(evs, cb.event(events.EventTackle, def.Side, marker, receiver, "won",
					mirror(next), marker.Player.Name+" dispossesses "+receiver.Player.Name, seq))
				return evs
			}
			ball = next
		}
	}

	// shot or one more ball into a better-placed teammate
	if roleWeight(selectShooter, shooter.Role) < 0.5 || cb.rng.Float64() < 0.40 {
		finisher, ok := cb.sel.pick(atk, selectShooter, shooter.Player.ID)
		if ok {
			action := events.ActionPass
			if shooter.Role == domain.PosLW || shooter.Role == domain.PosRW ||
				shooter.Role == domain.PosLM || shooter.Role == domain.PosRM {
				action = events.ActionCross
			}
			box := cb.boxCoord()
			seq = append(seq, cb.sub(action, shooter.Player.ID, finisher.Player.ID, ball, box))
			ball = box
			assister = shooter
			shooter = finisher
		}
	}

	return append(evs, cb.finishShot(ms, atk, def, shooter, assister, ball, seq)...)
}

// finishShot resolves the terminal shot of a move, including the blocked,
// saved, and corner follow-ups.
func (cb *chainBuilder) finishShot(ms *MatchState, atk, def *TeamState, shooter, assister *PlayerState, ball events.Coord, seq []events.SubAction) []events.Event {
	var evs []events.Event
	goalMouth := events.Coord{X: 98, Y: 50}
	seq = append(seq, cb.sub(events.ActionShoot, shooter.Player.ID, "", ball, goalMouth))

	// blocked before it reaches the frame
	if cb.rng.Float64() < 0.12 {
		blocker, ok := cb.sel.pick(def, selectDefender, "")
		if ok {
			seq = append(seq, cb.sub(events.ActionBlock, blocker.Player.ID, "", mirror(goalMouth), mirror(goalMouth)))
			evs = append(evs, cb.event(events.EventShotOffTarget, atk.Side, shooter, assister, "blocked",
				ball, shooter.Player.Name+"'s effort is charged down", seq))
			if cb.rng.Float64() < 0.55 {
				evs = append(evs, cb.cornerChain(ms, atk, def, seq)...)
			}
			return evs
		}
	}

	if !cb.res.resolve(contestShotOnTarget, shooter, atk.Fatigue[shooter.Player.ID], nil, atk.Mods.ShotQuality) {
		evs = append(evs, cb.event(events.EventShotOffTarget, atk.Side, shooter, assister, "off_target",
			ball, shooter.Player.Name+" drags it wide", seq))
		return evs
	}

	gk, hasGK := def.GK()
	if cb.res.resolve(contestGoal, shooter, atk.Fatigue[shooter.Player.ID], gk, atk.Mods.ShotQuality) || !hasGK {
		evs = append(evs, cb.event(events.EventGoal, atk.Side, shooter, assister, "goal",
			goalMouth, goalDescription(shooter.Player.Name), seq))
		return evs
	}

	// kept out
	saveSeq := append(seq, cb.sub(events.ActionSave, gk.Player.ID, "", mirror(goalMouth), mirror(goalMouth)))
	evs = append(evs, cb.event(events.EventShotOnTarget, atk.Side, shooter, assister, "saved",
		goalMouth, shooter.Player.Name+" forces a save", seq))
	evs = append(evs, cb.event(events.EventSave, def.Side, gk, shooter, "saved",
		mirror(goalMouth), gk.Player.Name+" keeps it out", saveSeq))

	if cb.rng.Float64() < 0.35 {
		evs = append(evs, cb.cornerChain(ms, atk, def, saveSeq)...)
	}
	return evs
}

// wonCorner earns a corner from open play: a cross into the box is turned
// behind by a defender, then the set piece itself plays out.
func (cb *chainBuilder) wonCorner(ms *MatchState, atk, def *TeamState) []events.Event {
	crosser, ok := cb.sel.pick(atk, selectAssister, "")
	if !ok {
		return nil
	}
	clearer, ok := cb.sel.pick(def, selectDefender, "")
	if !ok {
		return nil
	}
	ball := cb.zoneCoord(events.ZoneAttacking)
	box := cb.boxCoord()
	seq := []events.SubAction{
		cb.sub(events.ActionCross, crosser.Player.ID, "", ball, box),
		cb.sub(events.ActionClearance, clearer.Player.ID, "", mirror(box), mirror(box)),
	}
	return cb.cornerChain(ms, atk, def, seq)
}

// cornerChain: delivery → header → goal / save / cleared. prior carries the
// sub-actions that earned the corner, satisfying causal soundness.
func (cb *chainBuilder) cornerChain(ms *MatchState, atk, def *TeamState, prior []events.SubAction) []events.Event {
	var evs []events.Event
	taker, ok := cb.sel.taker(atk, atk.CornerTaker, selectAssister)
	if !ok {
		return nil
	}

	corner := events.Coord{X: 100, Y: cornerY(cb.rng)}
	box := cb.boxCoord()
	seq := append(append([]events.SubAction{}, prior...),
		cb.sub(events.ActionCornerKick, taker.Player.ID, "", corner, box))

	evs = append(evs, cb.event(events.EventCorner, atk.Side, taker, nil, "taken",
		corner, taker.Player.Name+" swings in the corner", seq))

	header, ok := cb.sel.pick(atk, selectHeader, taker.Player.ID)
	if !ok {
		return evs
	}
	marker, _ := cb.sel.pick(def, selectHeader, "")

	goalMouth := events.Coord{X: 98, Y: 50}
	action := events.ActionHeader
	if cb.rng.Float64() < 0.15 {
		action = events.ActionVolley
	}
	seq = append(seq, cb.sub(action, header.Player.ID, "", box, goalMouth))

	if !cb.res.resolve(contestHeaderOnTarget, header, atk.Fatigue[header.Player.ID], marker, 0) {
		if cb.rng.Float64() < 0.5 {
			evs = append(evs, cb.event(events.EventShotOffTarget, atk.Side, header, taker, "off_target",
				box, header.Player.Name+"'s header loops over", seq))
		} else if clearer, ok := cb.sel.pick(def, selectDefender, ""); ok {
			seq = append(seq, cb.sub(events.ActionClearance, clearer.Player.ID, "", mirror(box), mirror(box)))
			evs = append(evs, cb.event(events.EventTackle, def.Side, clearer, nil, "cleared",
				mirror(box), clearer.Player.Name+" heads it clear", seq))
		}
		return evs
	}

	gk, hasGK := def.GK()
	if cb.res.resolve(contestGoal, header, atk.Fatigue[header.Player.ID], gk, 0) || !hasGK {
		evs = append(evs, cb.event(events.EventGoal, atk.Side, header, taker, "goal",
			goalMouth, header.Player.Name+" rises highest and scores", seq))
		return evs
	}

	saveSeq := append(seq, cb.sub(events.ActionSave, gk.Player.ID, "", mirror(goalMouth), mirror(goalMouth)))
	evs = append(evs, cb.event(events.EventShotOnTarget, atk.Side, header, taker, "saved", goalMouth, "", seq))
	evs = append(evs, cb.event(events.EventSave, def.Side, gk, header, "saved",
		mirror(goalMouth), gk.Player.Name+" claws it away", saveSeq))
	return evs
}

// tackleDuel: a defender challenges the ball carrier in open play.
func (cb *chainBuilder) tackleDuel(ms *MatchState, atk, def *TeamState) []events.Event {
	carrier, ok := cb.sel.pick(atk, selectDribbler, "")
	if !ok {
		return nil
	}
	tackler, ok := cb.sel.pick(def, selectDefender, "")
	if !ok {
		return nil
	}
	ball := cb.zoneCoord(ms.Zone)
	seq := []events.SubAction{cb.sub(events.ActionTackle, tackler.Player.ID, carrier.Player.ID, mirror(ball), mirror(ball))}

	if cb.res.resolve(contestTackle, tackler, def.Fatigue[tackler.Player.ID], carrier, def.Mods.Turnover) {
		return []events.Event{cb.event(events.EventTackle, def.Side, tackler, carrier, "won",
			mirror(ball), tackler.Player.Name+" wins the ball cleanly", seq)}
	}

	// failed challenge sometimes brings the man down
	if cb.rng.Float64() < 0.30 {
		return cb.foulByPlayer(ms, atk, def, tackler, carrier)
	}
	return nil
}

// foulChain: a defending player fouls; cards and set pieces may follow.
func (cb *chainBuilder) foulChain(ms *MatchState, atk, def *TeamState) []events.Event {
	fouler, ok := cb.sel.pick(def, selectFouler, "")
	if !ok {
		return nil
	}
	victim, ok := cb.sel.pick(atk, selectDribbler, "")
	if !ok {
		return nil
	}
	return cb.foulByPlayer(ms, atk, def, fouler, victim)
}

func (cb *chainBuilder) foulByPlayer(ms *MatchState, atk, def *TeamState, fouler, victim *PlayerState) []events.Event {
	var evs []events.Event
	spot := cb.zoneCoord(ms.Zone)
	seq := []events.SubAction{cb.sub(events.ActionFoul, fouler.Player.ID, victim.Player.ID, mirror(spot), mirror(spot))}

	evs = append(evs, cb.event(events.EventFoul, def.Side, fouler, victim, "committed",
		mirror(spot), fouler.Player.Name+" brings down "+victim.Player.Name, seq))

	// card roll scales with aggression
	aggr := float64(fouler.Player.Attributes.Get(domain.AttrAggression))
	cardP := clamp(0.10+aggr*0.012, 0.05, 0.45)
	if cb.rng.Float64() < cardP {
		cardSeq := append(seq, cb.sub(events.ActionCardShown, fouler.Player.ID, "", mirror(spot), mirror(spot)))
		if cb.rng.Float64() < 0.05 {
			evs = append(evs, cb.event(events.EventRedCard, def.Side, fouler, nil, "straight_red",
				mirror(spot), fouler.Player.Name+" is shown a straight red", cardSeq))
		} else {
			evs = append(evs, cb.event(events.EventYellowCard, def.Side, fouler, nil, "yellow",
				mirror(spot), fouler.Player.Name+" goes into the book", cardSeq))
		}
	}

	// penalty or free kick when the foul is in a dangerous area
	if ms.Zone == events.ZoneAttacking {
		if cb.rng.Float64() < 0.10 {
			evs = append(evs, cb.penaltyChain(atk, def, seq)...)
			return evs
		}
		evs = append(evs, cb.freeKickChain(ms, atk, def, seq)...)
	}
	return evs
}

// penaltyChain: penalty → goal / save / miss.
func (cb *chainBuilder) penaltyChain(atk, def *TeamState, prior []events.SubAction) []events.Event {
	var evs []events.Event
	taker, ok := cb.sel.taker(atk, atk.PenaltyTaker, selectShooter)
	if !ok {
		return nil
	}
	spot := events.Coord{X: 94, Y: 50}
	goalMouth := events.Coord{X: 100, Y: 50}
	seq := append(append([]events.SubAction{}, prior...),
		cb.sub(events.ActionPenalty, taker.Player.ID, "", spot, goalMouth))

	evs = append(evs, cb.event(events.EventPenalty, atk.Side, taker, nil, "awarded",
		spot, "Penalty to "+atk.Team.Name, prior))

	gk, hasGK := def.GK()
	if cb.res.resolve(contestPenaltyGoal, taker, atk.Fatigue[taker.Player.ID], gk, 0) || !hasGK {
		evs = append(evs, cb.event(events.EventGoal, atk.Side, taker, nil, "penalty",
			goalMouth, taker.Player.Name+" converts from the spot", seq))
		return evs
	}
	if cb.rng.Float64() < 0.6 {
		saveSeq := append(seq, cb.sub(events.ActionSave, gk.Player.ID, "", mirror(goalMouth), mirror(goalMouth)))
		evs = append(evs, cb.event(events.EventShotOnTarget, atk.Side, taker, nil, "saved", goalMouth, "", seq))
		evs = append(evs, cb.event(events.EventSave, def.Side, gk, taker, "penalty_save",
			mirror(goalMouth), gk.Player.Name+" saves the penalty", saveSeq))
	} else {
		evs = append(evs, cb.event(events.EventShotOffTarget, atk.Side, taker, nil, "missed",
			goalMouth, taker.Player.Name+" blazes it over", seq))
	}
	return evs
}

// freeKickChain: direct shot or a cross met by a header.
func (cb *chainBuilder) freeKickChain(ms *MatchState, atk, def *TeamState, prior []events.SubAction) []events.Event {
	taker, ok := cb.sel.taker(atk, atk.FreeKickTaker, selectAssister)
	if !ok {
		return nil
	}
	spot := cb.zoneCoord(events.ZoneAttacking)
	seq := append(append([]events.SubAction{}, prior...),
		cb.sub(events.ActionFreeKick, taker.Player.ID, "", spot, events.Coord{X: 96, Y: 50}))

	if cb.rng.Float64() < 0.40 {
		// direct attempt
		return cb.finishShot(ms, atk, def, taker, nil, spot, seq[:len(seq)-1])
	}

	header, ok := cb.sel.pick(atk, selectHeader, taker.Player.ID)
	if !ok {
		return nil
	}
	box := cb.boxCoord()
	seq = append(seq, cb.sub(events.ActionHeader, header.Player.ID, "", box, events.Coord{X: 98, Y: 50}))

	marker, _ := cb.sel.pick(def, selectHeader, "")
	if !cb.res.resolve(contestHeaderOnTarget, header, atk.Fatigue[header.Player.ID], marker, 0) {
		return []events.Event{cb.event(events.EventShotOffTarget, atk.Side, header, taker, "off_target",
			box, header.Player.Name+" glances it wide", seq)}
	}
	gk, hasGK := def.GK()
	if cb.res.resolve(contestGoal, header, atk.Fatigue[header.Player.ID], gk, 0) || !hasGK {
		return []events.Event{cb.event(events.EventGoal, atk.Side, header, taker, "goal",
			events.Coord{X: 98, Y: 50}, header.Player.Name+" heads home the free kick", seq)}
	}
	saveSeq := append(seq, cb.sub(events.ActionSave, gk.Player.ID, "", events.Coord{X: 2, Y: 50}, events.Coord{X: 2, Y: 50}))
	return []events.Event{
		cb.event(events.EventShotOnTarget, atk.Side, header, taker, "saved", events.Coord{X: 98, Y: 50}, "", seq),
		cb.event(events.EventSave, def.Side, gk, header, "saved", events.Coord{X: 2, Y: 50}, "", saveSeq),
	}
}

func (cb *chainBuilder) offsideChain(ms *MatchState, atk *TeamState) []events.Event {
	runner, ok := cb.sel.pick(atk, selectShooter, "")
	if !ok {
		return nil
	}
	spot := cb.zoneCoord(events.ZoneAttacking)
	return []events.Event{cb.event(events.EventOffside, atk.Side, runner, nil, "flagged",
		spot, runner.Player.Name+" strays offside", nil)}
}

// injuryChain knocks a player's fatigue down so the substitution heuristic
// reacts on the following minutes.
func (cb *chainBuilder) injuryChain(ms *MatchState, atk *TeamState) []events.Event {
	victim, ok := cb.sel.pick(atk, selectPasser, "")
	if !ok {
		return nil
	}
	atk.Fatigue[victim.Player.ID] = minf(atk.Fatigue[victim.Player.ID], 0.25)
	spot := cb.zoneCoord(ms.Zone)
	return []events.Event{cb.event(events.EventInjury, atk.Side, victim, nil, "knock",
		spot, victim.Player.Name+" is down and needs treatment", nil)}
}

// ── helpers ─────────────────────────────────────────────────────

func (cb *chainBuilder) event(t events.EventType, side domain.Side, primary, secondary *PlayerState, outcome string, at events.Coord, desc string, seq []events.SubAction) events.Event {
	ev := events.Event{
		Type:              t,
		Team:              side,
		PrimaryPlayerID:   primary.Player.ID,
		PrimaryPlayerName: primary.Player.Name,
		Outcome:           outcome,
		Coordinates:       at,
		Description:       desc,
	}
	if secondary != nil {
		ev.SecondaryPlayerID = secondary.Player.ID
		ev.SecondaryPlayer = secondary.Player.Name
	}
	if len(seq) > 0 {
		ev.Sequence = append([]events.SubAction{}, seq...)
	}
	return ev
}

func (cb *chainBuilder) sub(a events.Action, actor, target string, from, to events.Coord) events.SubAction {
	return events.SubAction{
		Action:     a,
		ActorID:    actor,
		TargetID:   target,
		BallStart:  from,
		BallEnd:    to,
		DurationMs: 800 + cb.rng.Intn(2200),
	}
}

// zoneCoord samples a point in the acting team's frame for a zone.
func (cb *chainBuilder) zoneCoord(z events.BallZone) events.Coord {
	var lo, hi float64
	switch z {
	case events.ZoneAttacking:
		lo, hi = 70, 92
	case events.ZoneMiddle:
		lo, hi = 40, 60
	default:
		lo, hi = 10, 30
	}
	return events.Coord{
		X: lo + cb.rng.Float64()*(hi-lo),
		Y: 10 + cb.rng.Float64()*80,
	}
}

func (cb *chainBuilder) boxCoord() events.Coord {
	return events.Coord{X: 88 + cb.rng.Float64()*8, Y: 35 + cb.rng.Float64()*30}
}

// forwardOf advances the ball toward the opposition goal with jitter.
func (cb *chainBuilder) forwardOf(c events.Coord) events.Coord {
	x := c.X + 8 + cb.rng.Float64()*15
	if x > 95 {
		x = 95
	}
	y := c.Y + (cb.rng.Float64()-0.5)*30
	if y < 2 {
		y = 2
	}
	if y > 98 {
		y = 98
	}
	return events.Coord{X: x, Y: y}
}

// mirror converts a coordinate into the other team's attacking frame.
func mirror(c events.Coord) events.Coord {
	return events.Coord{X: 100 - c.X, Y: 100 - c.Y}
}

func cornerY(rng *rand.Rand) float64 {
	if rng.Float64() < 0.5 {
		return 0
	}
	return 100
}

func goalDescription(name string) string {
	return fmt.Sprintf("GOAL! %s finds the back of the net", name)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
