package pets

import (
	"strings"
	"time"
)

type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesOther Species = "other"
)

// Breed es una entrada del catálogo de GET /breeds.
type Breed struct {
	Name    string
	Species Species
}

// catalogue: perros primero, después gatos. El orden es el del dropdown.
var catalogue = []Breed{
	{"labrador", SpeciesDog},
	{"golden_retriever", SpeciesDog},
	{"german_shepherd", SpeciesDog},
	{"bulldog", SpeciesDog},
	{"poodle", SpeciesDog},
	{"chihuahua", SpeciesDog},
	{"beagle", SpeciesDog},
	{"persian", SpeciesCat},
	{"siamese", SpeciesCat},
	{"maine_coon", SpeciesCat},
	{"bengal", SpeciesCat},
	{"sphynx", SpeciesCat},
	{"common", SpeciesCat},
}

// SpeciesOf busca la raza en el catálogo. El create acepta razas libres;
// esas quedan como SpeciesOther.
func SpeciesOf(breed string) Species {
	breed = strings.ToLower(strings.TrimSpace(breed))
	for _, b := range catalogue {
		if b.Name == breed {
			return b.Species
		}
	}
	return SpeciesOther
}

// Pet es el registro persistido. Inmutable una vez creado.
type Pet struct {
	ID          string
	OwnerUserID string

	Name  string
	Breed string
	Age   int

	CreatedAt time.Time
}
