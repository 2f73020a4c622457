package domain

// Tactic enums. Zero values mean "balanced/standard" so a partially
// populated tactic record behaves sensibly.

type Mentality string

const (
	MentalityVeryDefensive Mentality = "very_defensive"
	MentalityDefensive     Mentality = "defensive"
	MentalityBalanced      Mentality = "balanced"
	MentalityAttacking     Mentality = "attacking"
	MentalityVeryAttacking Mentality = "very_attacking"
)

type Pressing string

const (
	PressingNever     Pressing = "never"
	PressingRarely    Pressing = "rarely"
	PressingSometimes Pressing = "sometimes"
	PressingOften     Pressing = "often"
	PressingAlways    Pressing = "always"
)

type Tempo string

const (
	TempoSlow     Tempo = "slow"
	TempoStandard Tempo = "standard"
	TempoFast     Tempo = "fast"
)

type Width string

const (
	WidthNarrow   Width = "narrow"
	WidthStandard Width = "standard"
	WidthWide     Width = "wide"
)

type DefensiveLine string

const (
	LineVeryDeep DefensiveLine = "very_deep"
	LineDeep     DefensiveLine = "deep"
	LineStandard DefensiveLine = "standard"
	LineHigh     DefensiveLine = "high"
	LineVeryHigh DefensiveLine = "very_high"
)

// Tactic is a read-only input. Empty fields read as the standard setting.
type Tactic struct {
	Mentality     Mentality     `json:"mentality,omitempty"`
	Pressing      Pressing      `json:"pressing,omitempty"`
	Tempo         Tempo         `json:"tempo,omitempty"`
	Width         Width         `json:"width,omitempty"`
	DefensiveLine DefensiveLine `json:"defensive_line,omitempty"`

	OffsideTrap      bool `json:"offside_trap,omitempty"`
	CounterAttack    bool `json:"counter_attack,omitempty"`
	PlayOutOfDefence bool `json:"play_out_of_defence,omitempty"`
}

// Normalized returns the tactic with empty fields replaced by defaults.
func (t Tactic) Normalized() Tactic {
	if t.Mentality == "" {
		t.Mentality = MentalityBalanced
	}
	if t.Pressing == "" {
		t.Pressing = PressingSometimes
	}
	if t.Tempo == "" {
		t.Tempo = TempoStandard
	}
	if t.Width == "" {
		t.Width = WidthStandard
	}
	if t.DefensiveLine == "" {
		t.DefensiveLine = LineStandard
	}
	return t
}
