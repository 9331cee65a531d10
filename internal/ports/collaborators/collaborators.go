package collaborators

import "context"

// RemotePet es un pet tal como lo devuelve el backend.
type RemotePet struct {
	ID    string
	Name  string
	Breed string
	Age   int
}

// PetInput es el payload del create.
type PetInput struct {
	Name  string `json:"name"`
	Breed string `json:"breed"`
	Age   int    `json:"age"`
}

// PetLister es el colaborador de consulta (listPets).
type PetLister interface {
	ListPets(ctx context.Context) ([]RemotePet, error)
}

// BreedLister es el colaborador REST de razas.
type BreedLister interface {
	ListBreeds(ctx context.Context) ([]string, error)
}

// PetCreator es el colaborador de mutación (createPet).
type PetCreator interface {
	CreatePet(ctx context.Context, in PetInput) (RemotePet, error)
}
