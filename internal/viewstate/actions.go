package viewstate

import "strings"

// Action es cualquier transición que se puede despachar al store.
// Acciones que Apply no reconoce se ignoran.
type Action interface {
	Kind() string
}

// Field identifica un campo del draft (conjunto cerrado).
type Field int

const (
	FieldUnknown Field = iota
	FieldName
	FieldBreed
	FieldAge
)

// ParseField mapea el nombre del input ("name", "breed", "age") a Field.
func ParseField(s string) Field {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return FieldName
	case "breed":
		return FieldBreed
	case "age":
		return FieldAge
	default:
		return FieldUnknown
	}
}

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldBreed:
		return "breed"
	case FieldAge:
		return "age"
	default:
		return "unknown"
	}
}

// SetPets reemplaza la lista completa.
type SetPets struct {
	Pets []Pet
}

// SetBreeds reemplaza las opciones de raza.
type SetBreeds struct {
	Breeds []string
}

// SetInput actualiza un campo del draft.
type SetInput struct {
	Field Field
	Value string
}

// ShowCreatePet abre el formulario de alta. No hay acción para cerrarlo.
type ShowCreatePet struct{}

// SetActivePet marca el pet resaltado.
type SetActivePet struct {
	Index int
}

// AppendPet agrega un pet al final (append optimista).
type AppendPet struct {
	Pet Pet
}

// MergePets aplica el resultado de un listado remoto sin perder los
// appends locales que todavía no están confirmados.
type MergePets struct {
	Pets []Pet
}

// ReconcilePet actualiza el estado de un append local cuando vuelve el write.
type ReconcilePet struct {
	LocalID string
	ID      string
	Status  PetStatus
}

func (SetPets) Kind() string       { return "SET_PETS" }
func (SetBreeds) Kind() string     { return "SET_BREEDS" }
func (SetInput) Kind() string      { return "SET_INPUT" }
func (ShowCreatePet) Kind() string { return "CREATE_PET" }
func (SetActivePet) Kind() string  { return "ACTIVE_PET" }
func (AppendPet) Kind() string     { return "APPEND_PET" }
func (MergePets) Kind() string     { return "MERGE_PETS" }
func (ReconcilePet) Kind() string  { return "RECONCILE_PET" }
