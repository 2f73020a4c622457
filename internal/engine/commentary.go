package engine

import (
	"fmt"

	"github.com/charleschow/matchday/internal/events"
)

// buildCommentary is a deterministic template over a tick's events. No
// model calls, no state: the structured events stay the source of truth.
func buildCommentary(ms *MatchState, evs []events.Event) string {
	if len(evs) == 0 {
		return quietLine(ms)
	}
	// the most significant event wins the line
	best := evs[0]
	for _, ev := range evs[1:] {
		if eventRank(ev.Type) > eventRank(best.Type) {
			best = ev
		}
	}

	team := ms.side(best.Team).Team.Name
	switch best.Type {
	case events.EventGoal:
		return fmt.Sprintf("%d' GOAL for %s! %s makes it %d-%d.",
			ms.Minute, team, best.PrimaryPlayerName, ms.Score.Home, ms.Score.Away)
	case events.EventRedCard:
		return fmt.Sprintf("%d' Red card! %s (%s) is off.", ms.Minute, best.PrimaryPlayerName, team)
	case events.EventYellowCard:
		return fmt.Sprintf("%d' %s (%s) is booked.", ms.Minute, best.PrimaryPlayerName, team)
	case events.EventPenalty:
		return fmt.Sprintf("%d' Penalty to %s!", ms.Minute, team)
	case events.EventSave:
		return fmt.Sprintf("%d' Big save by %s (%s).", ms.Minute, best.PrimaryPlayerName, team)
	case events.EventShotOnTarget:
		return fmt.Sprintf("%d' %s tests the keeper.", ms.Minute, best.PrimaryPlayerName)
	case events.EventShotOffTarget:
		return fmt.Sprintf("%d' %s shoots, but it's off target.", ms.Minute, best.PrimaryPlayerName)
	case events.EventSubstitution:
		return fmt.Sprintf("%d' Change for %s: %s on for %s.",
			ms.Minute, team, best.SecondaryPlayer, best.PrimaryPlayerName)
	case events.EventCorner:
		return fmt.Sprintf("%d' Corner to %s.", ms.Minute, team)
	case events.EventFoul:
		return fmt.Sprintf("%d' Free kick: %s fouls %s.", ms.Minute, best.PrimaryPlayerName, best.SecondaryPlayer)
	case events.EventOffside:
		return fmt.Sprintf("%d' %s is flagged offside.", ms.Minute, best.PrimaryPlayerName)
	case events.EventInjury:
		return fmt.Sprintf("%d' %s is down injured.", ms.Minute, best.PrimaryPlayerName)
	case events.EventTackle, events.EventInterception:
		return fmt.Sprintf("%d' %s breaks up the attack.", ms.Minute, best.PrimaryPlayerName)
	default:
		return quietLine(ms)
	}
}

func eventRank(t events.EventType) int {
	switch t {
	case events.EventGoal:
		return 100
	case events.EventRedCard:
		return 90
	case events.EventPenalty:
		return 80
	case events.EventYellowCard:
		return 70
	case events.EventSave:
		return 60
	case events.EventShotOnTarget:
		return 55
	case events.EventShotOffTarget:
		return 50
	case events.EventSubstitution:
		return 45
	case events.EventCorner:
		return 40
	case events.EventFoul:
		return 35
	case events.EventOffside, events.EventInjury:
		return 30
	default:
		return 10
	}
}

func quietLine(ms *MatchState) string {
	holder := ms.Home
	if ms.Possession == events.PossessionAway {
		holder = ms.Away
	}
	zone := "in midfield"
	switch ms.Zone {
	case events.ZoneAttacking:
		zone = "in the final third"
	case events.ZoneDefensive:
		zone = "at the back"
	}
	return fmt.Sprintf("%d' %s keep the ball %s.", ms.Minute, holder.Team.Name, zone)
}
