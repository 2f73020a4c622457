package domain

// Side identifies which team an event or stat belongs to.
// Passed explicitly alongside every event; never inferred from names.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

func (s Side) Opponent() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// Team is a read-only input to the engine.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Color   string   `json:"color,omitempty"`
	Players []Player `json:"players"`
}

func (t *Team) Player(id string) (Player, bool) {
	for _, p := range t.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Player is a read-only input to the engine.
type Player struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	ShirtNumber        int             `json:"shirt_number"`
	Position           Position        `json:"position"`
	SecondaryPositions []Position      `json:"secondary_positions,omitempty"`
	Injured            bool            `json:"is_injured,omitempty"`
	Attributes         AttributeBundle `json:"attributes"`
}

// AttributeBundle maps attribute name to a 1–20 rating.
// Missing attributes read as 10.
type AttributeBundle map[string]int

const defaultAttribute = 10

func (a AttributeBundle) Get(name string) int {
	if a == nil {
		return defaultAttribute
	}
	v, ok := a[name]
	if !ok {
		return defaultAttribute
	}
	if v < 1 {
		return 1
	}
	if v > 20 {
		return 20
	}
	return v
}

// CurrentAbility is the aggregate rating used for lineup ordering.
func (p Player) CurrentAbility() int { return p.Attributes.Get(AttrCurrentAbility) }

// Attribute name constants for the ones the engine consults directly.
// The bundle accepts arbitrary names; unknown ones simply never get read.
const (
	AttrFinishing      = "finishing"
	AttrFirstTouch     = "first_touch"
	AttrPassing        = "passing"
	AttrCrossing       = "crossing"
	AttrHeading        = "heading"
	AttrLongShots      = "long_shots"
	AttrDribbling      = "dribbling"
	AttrTechnique      = "technique"
	AttrFreeKicks      = "free_kick_taking"
	AttrCorners        = "corners"
	AttrPenaltyTaking  = "penalty_taking"
	AttrTackling       = "tackling"
	AttrMarking        = "marking"

	AttrComposure     = "composure"
	AttrVision        = "vision"
	AttrDecisions     = "decisions"
	AttrAnticipation  = "anticipation"
	AttrPositioning   = "positioning"
	AttrConcentration = "concentration"
	AttrAggression    = "aggression"
	AttrWorkRate      = "work_rate"
	AttrTeamwork      = "teamwork"
	AttrOffTheBall    = "off_the_ball"
	AttrBravery       = "bravery"
	AttrFlair         = "flair"

	AttrPace           = "pace"
	AttrAcceleration   = "acceleration"
	AttrStamina        = "stamina"
	AttrStrength       = "strength"
	AttrAgility        = "agility"
	AttrJumpingReach   = "jumping_reach"
	AttrBalance        = "balance"
	AttrNaturalFitness = "natural_fitness"

	AttrReflexes      = "reflexes"
	AttrHandling      = "handling"
	AttrCommandOfArea = "command_of_area"
	AttrAerialReach   = "aerial_reach"
	AttrKicking       = "kicking"
	AttrOneOnOnes     = "one_on_ones"

	AttrCurrentAbility   = "current_ability"
	AttrPotentialAbility = "potential_ability"
)
