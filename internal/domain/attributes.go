package domain

// RatingKind names the position-weighted effective ratings the engine
// resolves outcomes against.
type RatingKind string

const (
	RatingGK         RatingKind = "gk"
	RatingDef        RatingKind = "def"
	RatingMid        RatingKind = "mid"
	RatingAtt        RatingKind = "att"
	RatingPace       RatingKind = "pace"
	RatingAerial     RatingKind = "aerial"
	RatingDiscipline RatingKind = "discipline"
	RatingSetPiece   RatingKind = "set_piece"
)

type ratingWeight struct {
	attr   string
	weight float64
	invert bool // read as (21 - value): higher attribute lowers the rating
}

// Fixed weight tables. Each sums to 1.0 so effective ratings stay on the
// 1–20 attribute scale. The spec's source material disagrees with itself on
// exact weights; these are the canonical set for this engine.
var ratingWeights = map[RatingKind][]ratingWeight{
	RatingGK: {
		{attr: AttrReflexes, weight: 0.30},
		{attr: AttrHandling, weight: 0.20},
		{attr: AttrPositioning, weight: 0.15},
		{attr: AttrOneOnOnes, weight: 0.15},
		{attr: AttrCommandOfArea, weight: 0.10},
		{attr: AttrAerialReach, weight: 0.10},
	},
	RatingDef: {
		{attr: AttrPositioning, weight: 0.30},
		{attr: AttrAnticipation, weight: 0.25},
		{attr: AttrStrength, weight: 0.20},
		{attr: AttrConcentration, weight: 0.15},
		{attr: AttrBravery, weight: 0.10},
	},
	RatingMid: {
		{attr: AttrPassing, weight: 0.35},
		{attr: AttrVision, weight: 0.25},
		{attr: AttrTechnique, weight: 0.20},
		{attr: AttrFirstTouch, weight: 0.10},
		{attr: AttrTeamwork, weight: 0.10},
	},
	RatingAtt: {
		{attr: AttrFinishing, weight: 0.35},
		{attr: AttrComposure, weight: 0.20},
		{attr: AttrOffTheBall, weight: 0.15},
		{attr: AttrTechnique, weight: 0.15},
		{attr: AttrAnticipation, weight: 0.15},
	},
	RatingPace: {
		{attr: AttrPace, weight: 0.50},
		{attr: AttrAcceleration, weight: 0.30},
		{attr: AttrAgility, weight: 0.20},
	},
	RatingAerial: {
		{attr: AttrHeading, weight: 0.40},
		{attr: AttrJumpingReach, weight: 0.35},
		{attr: AttrStrength, weight: 0.25},
	},
	RatingDiscipline: {
		{attr: AttrAggression, weight: 0.50, invert: true},
		{attr: AttrComposure, weight: 0.30},
		{attr: AttrConcentration, weight: 0.20},
	},
	RatingSetPiece: {
		{attr: AttrFreeKicks, weight: 0.40},
		{attr: AttrCorners, weight: 0.30},
		{attr: AttrTechnique, weight: 0.30},
	},
}

// Effective computes the player's weighted rating for a kind, clamped to
// [1, 20]. Missing attributes contribute the default of 10.
func Effective(p Player, kind RatingKind) float64 {
	weights, ok := ratingWeights[kind]
	if !ok {
		return defaultAttribute
	}
	var sum float64
	for _, w := range weights {
		v := float64(p.Attributes.Get(w.attr))
		if w.invert {
			v = 21 - v
		}
		sum += w.weight * v
	}
	if sum < 1 {
		return 1
	}
	if sum > 20 {
		return 20
	}
	return sum
}

// RelevantRating maps a slot's group to the rating kind used when weighting
// generic selections for that role.
func RelevantRating(slot Position) RatingKind {
	switch slot.Group() {
	case GroupGoalkeeper:
		return RatingGK
	case GroupDefence:
		return RatingDef
	case GroupMidfield:
		return RatingMid
	default:
		return RatingAtt
	}
}
