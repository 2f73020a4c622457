package events

import "github.com/charleschow/matchday/internal/domain"

// Phase is the coarse match stage.
type Phase string

const (
	PhasePreMatch   Phase = "pre_match"
	PhaseFirstHalf  Phase = "first_half"
	PhaseHalfTime   Phase = "half_time"
	PhaseSecondHalf Phase = "second_half"
	PhaseFullTime   Phase = "full_time"
)

// Possession is which side controls the ball this minute.
type Possession string

const (
	PossessionHome      Possession = "home"
	PossessionAway      Possession = "away"
	PossessionContested Possession = "contested"
)

func PossessionOf(s domain.Side) Possession {
	if s == domain.SideHome {
		return PossessionHome
	}
	return PossessionAway
}

// BallZone is the coarse pitch region from the possessing team's view.
type BallZone string

const (
	ZoneDefensive BallZone = "defensive"
	ZoneMiddle    BallZone = "middle"
	ZoneAttacking BallZone = "attacking"
)

type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// SideStats is the cumulative stat line for one side. Monotone per tick.
type SideStats struct {
	PossessionTicks int `json:"possession_ticks"`
	Shots           int `json:"shots"`
	ShotsOnTarget   int `json:"shots_on_target"`
	Corners         int `json:"corners"`
	Fouls           int `json:"fouls"`
	PassesAttempted int `json:"passes_attempted"`
	PassesCompleted int `json:"passes_completed"`
	Tackles         int `json:"tackles"`
	Interceptions   int `json:"interceptions"`
	Offsides        int `json:"offsides"`
	YellowCards     int `json:"yellow_cards"`
	RedCards        int `json:"red_cards"`
}

// GTE reports whether every field of s is >= o. Used by monotonicity checks.
func (s SideStats) GTE(o SideStats) bool {
	return s.PossessionTicks >= o.PossessionTicks &&
		s.Shots >= o.Shots &&
		s.ShotsOnTarget >= o.ShotsOnTarget &&
		s.Corners >= o.Corners &&
		s.Fouls >= o.Fouls &&
		s.PassesAttempted >= o.PassesAttempted &&
		s.PassesCompleted >= o.PassesCompleted &&
		s.Tackles >= o.Tackles &&
		s.Interceptions >= o.Interceptions &&
		s.Offsides >= o.Offsides &&
		s.YellowCards >= o.YellowCards &&
		s.RedCards >= o.RedCards
}

type MatchStats struct {
	Home SideStats `json:"home"`
	Away SideStats `json:"away"`
}

// Tick is the per-minute frame the engine yields.
type Tick struct {
	Minute     int        `json:"minute"`
	Phase      Phase      `json:"phase"`
	Possession Possession `json:"possession"`
	BallZone   BallZone   `json:"ball_zone"`
	Score      Score      `json:"score"`
	Stats      MatchStats `json:"stats"`
	Events     []Event    `json:"events"`
	Commentary string     `json:"commentary,omitempty"`
}
