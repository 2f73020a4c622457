package events

import "github.com/charleschow/matchday/internal/domain"

// EventType is the closed set of match events. Score and stats are derived
// exclusively from these; there are no side counters.
type EventType string

const (
	EventGoal          EventType = "goal"
	EventShotOnTarget  EventType = "shot_on_target"
	EventShotOffTarget EventType = "shot_off_target"
	EventSave          EventType = "save"
	EventCorner        EventType = "corner"
	EventFoul          EventType = "foul"
	EventOffside       EventType = "offside"
	EventYellowCard    EventType = "yellow_card"
	EventRedCard       EventType = "red_card"
	EventSubstitution  EventType = "substitution"
	EventPassAttempted EventType = "pass_attempted"
	EventPassCompleted EventType = "pass_completed"
	EventTackle        EventType = "tackle"
	EventInterception  EventType = "interception"
	EventPenalty       EventType = "penalty"
	EventInjury        EventType = "injury"
)

// Action names the sub-steps inside a causal chain.
type Action string

const (
	ActionPass         Action = "pass"
	ActionCross        Action = "cross"
	ActionDribble      Action = "dribble"
	ActionShoot        Action = "shoot"
	ActionHeader       Action = "header"
	ActionVolley       Action = "volley"
	ActionTapIn        Action = "tap_in"
	ActionPenalty      Action = "penalty"
	ActionSave         Action = "save"
	ActionCatch        Action = "catch"
	ActionBlock        Action = "block"
	ActionClearance    Action = "clearance"
	ActionTackle       Action = "tackle"
	ActionIntercept    Action = "intercept"
	ActionFoul         Action = "foul"
	ActionFreeKick     Action = "free_kick"
	ActionCornerKick   Action = "corner_kick"
	ActionCardShown    Action = "card_shown"
	ActionSubstitution Action = "substitution"
)

// Coord is a pitch coordinate in [0,100]×[0,100]; the acting team always
// attacks x→100.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SubAction is one step of a causal chain.
type SubAction struct {
	Action     Action `json:"action"`
	ActorID    string `json:"actor_id"`
	TargetID   string `json:"target_id,omitempty"`
	BallStart  Coord  `json:"ball_start"`
	BallEnd    Coord  `json:"ball_end"`
	DurationMs int    `json:"duration_ms"`
}

// GoalRecord pairs a goal event with the minute it happened; the tick,
// not the event, owns the clock, so summaries carry it explicitly.
type GoalRecord struct {
	Minute int   `json:"minute"`
	Event  Event `json:"event"`
}

// Event is a resolved match event with its causal chain.
type Event struct {
	Type              EventType   `json:"type"`
	Team              domain.Side `json:"team"`
	PrimaryPlayerID   string      `json:"primary_player_id"`
	PrimaryPlayerName string      `json:"primary_player_name"`
	SecondaryPlayerID string      `json:"secondary_player_id,omitempty"`
	SecondaryPlayer   string      `json:"secondary_player_name,omitempty"`
	Outcome           string      `json:"outcome"`
	Coordinates       Coord       `json:"coordinates"`
	Description       string      `json:"description"`
	Sequence          []SubAction `json:"sequence,omitempty"`
}
