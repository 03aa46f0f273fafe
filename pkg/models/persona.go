package models

// Persona is a fixed audience category receiving its own styling of the same
// insight. The set is closed; stages iterate over AllPersonas and never accept
// arbitrary labels.
type Persona string

const (
	PersonaExecutive  Persona = "executive"
	PersonaOperations Persona = "operations"
	PersonaDataTeam   Persona = "data-team"
)

// AllPersonas returns the closed persona set in rendering order.
func AllPersonas() []Persona {
	return []Persona{PersonaExecutive, PersonaOperations, PersonaDataTeam}
}

func (p Persona) Valid() bool {
	switch p {
	case PersonaExecutive, PersonaOperations, PersonaDataTeam:
		return true
	}

	return false
}

// Label returns the human-facing heading label used in report documents.
func (p Persona) Label() string {
	switch p {
	case PersonaExecutive:
		return "Executive"
	case PersonaOperations:
		return "Operations"
	case PersonaDataTeam:
		return "Data Team"
	}

	return string(p)
}
