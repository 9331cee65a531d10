package viewstate

// PetStatus indica si un pet ya fue confirmado por el backend.
type PetStatus string

const (
	PetStatusPending   PetStatus = "pending"
	PetStatusConfirmed PetStatus = "confirmed"
	PetStatusFailed    PetStatus = "failed"
)

// DraftPet guarda lo que el usuario va tipeando, tal cual (Age sin parsear).
type DraftPet struct {
	Name  string
	Breed string
	Age   string
}

// Pet es la vista de un pet en la lista.
// LocalID solo existe para appends optimistas; ID lo asigna el backend.
type Pet struct {
	LocalID string
	ID      string

	Name  string
	Breed string
	Age   int

	Status PetStatus
}

type PetsState struct {
	Items  []Pet
	Active int // índice del pet resaltado
}

type UIState struct {
	ShowCreatePet bool
}

// State es el único valor mutable de una sesión. Solo se reemplaza vía Apply.
type State struct {
	Draft  DraftPet
	Pets   PetsState
	Breeds []string
	UI     UIState
}

// Initial devuelve el estado vacío de inicio de sesión.
func Initial() State {
	return State{
		Pets:   PetsState{Items: []Pet{}},
		Breeds: []string{},
	}
}
