// Package fixtures provides deterministic demo squads for the server's
// seeded registry, the CLI, and tests. Attributes are generated from a
// fixed per-team seed so every build sees identical players.
package fixtures

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/charleschow/matchday/internal/domain"
)

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type squadSpec struct {
	teamID   string
	name     string
	color    string
	seed     int64
	baseline int // squad quality centre, 1–20
	names    []string
	slots    []domain.Position
}

// Starting XI position plan (4-3-3 shape) followed by a seven-man bench.
var squadPositions = []domain.Position{
	domain.PosGK,
	domain.PosRB, domain.PosCB, domain.PosCB, domain.PosLB,
	domain.PosDM, domain.PosCM, domain.PosCM,
	domain.PosRW, domain.PosST, domain.PosLW,
	// bench
	domain.PosGK,
	domain.PosCB, domain.PosRB,
	domain.PosCM, domain.PosAM,
	domain.PosST, domain.PosLW,
}

var rovers = squadSpec{
	teamID:   "team-rovers",
	name:     "Harbour Rovers",
	color:    "#1d3557",
	seed:     101,
	baseline: 14,
	names: []string{
		"Eli Draper", "Marcus Webb", "Tomas Koval", "Dan Okafor", "Luca Ferretti",
		"Sam Whitlock", "Jonah Reyes", "Karl Lindgren", "Ade Bakare", "Viktor Hansen",
		"Theo Marchetti", "Owen Pryce", "Nico Vidal", "Harry Slate", "Ben Achterberg",
		"Rafa Campos", "Idris Toure", "Cole Bannister",
	},
	slots: squadPositions,
}

var athletic = squadSpec{
	teamID:   "team-athletic",
	name:     "Eastgate Athletic",
	color:    "#9d2235",
	seed:     202,
	baseline: 13,
	names: []string{
		"Piotr Zalewski", "Jamie Crowe", "Felix Brandt", "Oscar Nunez", "Rory Gallagher",
		"Mats Verhoeven", "Dele Adeyemi", "Stefan Ilic", "Kenji Morita", "Aaron Beckett",
		"Diego Salcedo", "Milan Horvat", "Zack Pemberton", "Emil Dragan", "Yusuf Kaya",
		"Brett Hollis", "Andre Fontaine", "Casper Lund",
	},
	slots: squadPositions,
}

// Teams returns both demo squads, rebuilt fresh on every call so callers
// can mutate their copies freely.
func Teams() (home, away domain.Team) {
	return buildSquad(rovers), buildSquad(athletic)
}

// All returns every demo team keyed by id, for registry seeding.
func All() []domain.Team {
	return []domain.Team{buildSquad(rovers), buildSquad(athletic)}
}

func buildSquad(spec squadSpec) domain.Team {
	rng := rand.New(rand.NewSource(spec.seed))
	team := domain.Team{ID: spec.teamID, Name: spec.name, Color: spec.color}
	for i, pos := range spec.slots {
		team.Players = append(team.Players, buildPlayer(spec, rng, i, pos))
	}
	return team
}

func buildPlayer(spec squadSpec, rng *rand.Rand, idx int, pos domain.Position) domain.Player {
	p := domain.Player{
		ID:          fmt.Sprintf("%s-p%02d", spec.teamID, idx+1),
		Name:        spec.names[idx],
		ShirtNumber: idx + 1,
		Position:    pos,
		Attributes:  domain.AttributeBundle{},
	}

	// Bench players trail the first team a touch.
	base := spec.baseline
	if idx >= 11 {
		base--
	}

	roll := func(skew int) int {
		v := base + skew + rng.Intn(5) - 2
		if v < 3 {
			v = 3
		}
		if v > 20 {
			v = 20
		}
		return v
	}

	for _, name := range commonAttributes {
		p.Attributes[name] = roll(0)
	}
	// sorted so the rng stream, and therefore every attribute, is stable
	skews := positionSkew(pos)
	for _, name := range sortedKeys(skews) {
		p.Attributes[name] = roll(skews[name])
	}
	p.Attributes[domain.AttrCurrentAbility] = roll(1)

	if sec, ok := secondarySlots[pos]; ok {
		p.SecondaryPositions = sec
	}
	return p
}

var commonAttributes = []string{
	domain.AttrFirstTouch, domain.AttrPassing, domain.AttrTechnique,
	domain.AttrComposure, domain.AttrDecisions, domain.AttrAnticipation,
	domain.AttrPositioning, domain.AttrConcentration, domain.AttrAggression,
	domain.AttrWorkRate, domain.AttrTeamwork, domain.AttrOffTheBall,
	domain.AttrBravery, domain.AttrVision,
	domain.AttrPace, domain.AttrAcceleration, domain.AttrStamina,
	domain.AttrStrength, domain.AttrAgility, domain.AttrJumpingReach,
	domain.AttrBalance, domain.AttrNaturalFitness,
	domain.AttrHeading, domain.AttrDribbling, domain.AttrFinishing,
	domain.AttrCrossing, domain.AttrLongShots, domain.AttrFlair,
	domain.AttrFreeKicks, domain.AttrCorners, domain.AttrPenaltyTaking,
	domain.AttrTackling, domain.AttrMarking,
}

func positionSkew(pos domain.Position) map[string]int {
	switch pos {
	case domain.PosGK:
		return map[string]int{
			domain.AttrReflexes: 3, domain.AttrHandling: 3,
			domain.AttrCommandOfArea: 2, domain.AttrAerialReach: 2,
			domain.AttrKicking: 1, domain.AttrOneOnOnes: 2,
			domain.AttrFinishing: -6, domain.AttrDribbling: -4,
		}
	case domain.PosCB:
		return map[string]int{
			domain.AttrTackling: 3, domain.AttrMarking: 3,
			domain.AttrHeading: 3, domain.AttrStrength: 2,
			domain.AttrJumpingReach: 2, domain.AttrFinishing: -3,
		}
	case domain.PosLB, domain.PosRB, domain.PosWB:
		return map[string]int{
			domain.AttrTackling: 2, domain.AttrMarking: 2,
			domain.AttrCrossing: 2, domain.AttrPace: 2,
			domain.AttrStamina: 2,
		}
	case domain.PosDM:
		return map[string]int{
			domain.AttrTackling: 3, domain.AttrPositioning: 2,
			domain.AttrPassing: 2, domain.AttrStrength: 1,
		}
	case domain.PosCM:
		return map[string]int{
			domain.AttrPassing: 3, domain.AttrVision: 2,
			domain.AttrStamina: 2, domain.AttrTeamwork: 2,
		}
	case domain.PosAM:
		return map[string]int{
			domain.AttrPassing: 2, domain.AttrVision: 3,
			domain.AttrTechnique: 2, domain.AttrLongShots: 2,
			domain.AttrFlair: 2,
		}
	case domain.PosLW, domain.PosRW, domain.PosLM, domain.PosRM:
		return map[string]int{
			domain.AttrDribbling: 3, domain.AttrPace: 3,
			domain.AttrAcceleration: 2, domain.AttrCrossing: 2,
			domain.AttrFlair: 2,
		}
	case domain.PosST, domain.PosCF, domain.PosF9:
		return map[string]int{
			domain.AttrFinishing: 4, domain.AttrOffTheBall: 3,
			domain.AttrComposure: 2, domain.AttrHeading: 2,
			domain.AttrAcceleration: 2,
		}
	default:
		return nil
	}
}

var secondarySlots = map[domain.Position][]domain.Position{
	domain.PosDM: {domain.PosCB, domain.PosCM},
	domain.PosCM: {domain.PosDM, domain.PosAM},
	domain.PosAM: {domain.PosCM, domain.PosLW},
	domain.PosLW: {domain.PosLM, domain.PosST},
	domain.PosRW: {domain.PosRM, domain.PosST},
	domain.PosST: {domain.PosCF},
	domain.PosLB: {domain.PosWB},
	domain.PosRB: {domain.PosWB},
}
