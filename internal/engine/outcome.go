package engine

import (
	"math/rand"

	"github.com/charleschow/matchday/internal/domain"
)

// contest names an attempted action the outcome resolver can judge.
type contest int

const (
	contestShotOnTarget contest = iota // shot → on target
	contestGoal                        // on target → goal, GK opposes
	contestDribble                     // dribble past a defender
	contestPass                        // pass completion
	contestTackle                      // tackle wins the ball
	contestHeaderOnTarget              // headed attempt from a delivery
	contestPenaltyGoal                 // penalty → goal, GK opposes
)

// base success probabilities before attribute and tactic adjustment.
var contestBase = map[contest]float64{
	contestShotOnTarget:   0.40,
	contestGoal:           0.28,
	contestDribble:        0.50,
	contestPass:           0.85,
	contestTackle:         0.50,
	contestHeaderOnTarget: 0.32,
	contestPenaltyGoal:    0.76,
}

const (
	actorAlpha = 0.025 // per rating point above 10
	oppBeta    = 0.020
	probFloor  = 0.02
	probCeil   = 0.98
)

// outcomeResolver turns a contested action into a single clamped draw.
type outcomeResolver struct {
	rng *rand.Rand
}

// resolve returns success for the acting player. opponent may be nil for
// uncontested attempts. tacticsMod is the acting side's relevant additive
// modifier (already signed).
func (or *outcomeResolver) resolve(c contest, actor *PlayerState, actorFatigue float64, opponent *PlayerState, tacticsMod float64) bool {
	p := or.probability(c, actor, actorFatigue, opponent, tacticsMod)
	return or.rng.Float64() < p
}

func (or *outcomeResolver) probability(c contest, actor *PlayerState, actorFatigue float64, opponent *PlayerState, tacticsMod float64) float64 {
	p := contestBase[c]

	p += actorAlpha * (actorRating(c, actor) - 10)
	if opponent != nil {
		p -= oppBeta * (opponentRating(c, opponent) - 10)
	}
	p += tacticsMod
	p -= fatiguePenalty(actorFatigue)

	return clamp(p, probFloor, probCeil)
}

func actorRating(c contest, actor *PlayerState) float64 {
	switch c {
	case contestShotOnTarget:
		return avg2(actor.Player.Attributes.Get(domain.AttrFinishing), actor.Player.Attributes.Get(domain.AttrTechnique))
	case contestGoal:
		return avg2(actor.Player.Attributes.Get(domain.AttrComposure), actor.Player.Attributes.Get(domain.AttrFinishing))
	case contestDribble:
		return (domain.Effective(actor.Player, domain.RatingPace) + float64(actor.Player.Attributes.Get(domain.AttrDribbling))) / 2
	case contestPass:
		return avg2(actor.Player.Attributes.Get(domain.AttrPassing), actor.Player.Attributes.Get(domain.AttrVision))
	case contestTackle:
		return (domain.Effective(actor.Player, domain.RatingDef) + float64(actor.Player.Attributes.Get(domain.AttrAnticipation))) / 2
	case contestHeaderOnTarget:
		return domain.Effective(actor.Player, domain.RatingAerial)
	case contestPenaltyGoal:
		return avg2(actor.Player.Attributes.Get(domain.AttrPenaltyTaking), actor.Player.Attributes.Get(domain.AttrComposure))
	}
	return 10
}

func opponentRating(c contest, opp *PlayerState) float64 {
	switch c {
	case contestGoal, contestPenaltyGoal:
		return avg2(opp.Player.Attributes.Get(domain.AttrReflexes), opp.Player.Attributes.Get(domain.AttrHandling))
	case contestDribble:
		return (domain.Effective(opp.Player, domain.RatingDef) + domain.Effective(opp.Player, domain.RatingPace)) / 2
	case contestTackle:
		return avg2(opp.Player.Attributes.Get(domain.AttrDribbling), opp.Player.Attributes.Get(domain.AttrBalance))
	case contestHeaderOnTarget:
		return domain.Effective(opp.Player, domain.RatingAerial)
	}
	return 10
}

func avg2(a, b int) float64 { return float64(a+b) / 2 }
