package stream

import (
	"github.com/charleschow/matchday/internal/domain"
	"github.com/charleschow/matchday/internal/engine"
	"github.com/charleschow/matchday/internal/events"
)

// Frame names, in stream order. minute frames carry events.Tick directly.
const (
	FrameLineup       = "lineup"
	FrameMinute       = "minute"
	FrameGoal         = "goal"
	FrameCard         = "card"
	FrameSubstitution = "substitution"
	FrameHalfTime     = "half_time"
	FrameFullTime     = "full_time"
	FrameError        = "error"
)

type StarterInfo struct {
	PlayerID    string          `json:"player_id"`
	Name        string          `json:"name"`
	Position    domain.Position `json:"position"`
	ShirtNumber int             `json:"shirt_number"`
}

type SideLineup struct {
	TeamName  string        `json:"team_name"`
	Formation string        `json:"formation"`
	Starting  []StarterInfo `json:"starting"`
}

type LineupFrame struct {
	Home SideLineup `json:"home"`
	Away SideLineup `json:"away"`
}

type GoalFrame struct {
	Minute   int          `json:"minute"`
	Team     domain.Side  `json:"team"`
	Scorer   string       `json:"scorer"`
	Assister string       `json:"assister,omitempty"`
	Score    events.Score `json:"score"`
}

type CardFrame struct {
	Minute   int         `json:"minute"`
	Team     domain.Side `json:"team"`
	Player   string      `json:"player"`
	CardType string      `json:"card_type"` // "yellow" or "red"
}

type SubstitutionFrame struct {
	Minute int         `json:"minute"`
	Team   domain.Side `json:"team"`
	Off    string      `json:"off"`
	On     string      `json:"on"`
}

type PhaseFrame struct {
	Score events.Score      `json:"score"`
	Stats events.MatchStats `json:"stats"`
}

type ErrorFrame struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// MatchDocument is the batch response: the whole chronicle in one JSON body.
type MatchDocument struct {
	MatchID       string            `json:"match_id"`
	Lineups       LineupFrame       `json:"lineups"`
	Minutes       []events.Tick     `json:"minutes"`
	FinalScore    events.Score      `json:"final_score"`
	FullTimeStats events.MatchStats `json:"full_time_stats"`
}

// BuildLineupFrame assembles the opening frame from a prepared simulation.
func BuildLineupFrame(sim *engine.Simulation) LineupFrame {
	st := sim.State()
	home, away := sim.Lineups()
	return LineupFrame{
		Home: sideLineup(&st.Home.Team, st.Home.Formation.Name, home),
		Away: sideLineup(&st.Away.Team, st.Away.Formation.Name, away),
	}
}

func sideLineup(team *domain.Team, formation string, lineup domain.MatchLineup) SideLineup {
	sl := SideLineup{TeamName: team.Name, Formation: formation}
	for _, slot := range lineup.Starting {
		p, _ := team.Player(slot.PlayerID)
		sl.Starting = append(sl.Starting, StarterInfo{
			PlayerID:    p.ID,
			Name:        p.Name,
			Position:    slot.Position,
			ShirtNumber: p.ShirtNumber,
		})
	}
	return sl
}

// NamedFrame pairs a frame name with its payload.
type NamedFrame struct {
	Name string
	Data any
}

// ConvenienceFrames derives the named goal/card/substitution frames that
// follow a minute frame, in event order.
func ConvenienceFrames(tick events.Tick) []NamedFrame {
	var out []NamedFrame
	for _, ev := range tick.Events {
		switch ev.Type {
		case events.EventGoal:
			out = append(out, NamedFrame{FrameGoal, GoalFrame{
				Minute:   tick.Minute,
				Team:     ev.Team,
				Scorer:   ev.PrimaryPlayerName,
				Assister: ev.SecondaryPlayer,
				Score:    tick.Score,
			}})
		case events.EventYellowCard:
			out = append(out, NamedFrame{FrameCard, CardFrame{
				Minute: tick.Minute, Team: ev.Team, Player: ev.PrimaryPlayerName, CardType: "yellow"}})
		case events.EventRedCard:
			out = append(out, NamedFrame{FrameCard, CardFrame{
				Minute: tick.Minute, Team: ev.Team, Player: ev.PrimaryPlayerName, CardType: "red"}})
		case events.EventSubstitution:
			out = append(out, NamedFrame{FrameSubstitution, SubstitutionFrame{
				Minute: tick.Minute, Team: ev.Team, Off: ev.PrimaryPlayerName, On: ev.SecondaryPlayer}})
		}
	}
	return out
}
