package petsync

import (
	"context"
	"errors"
	"sync/atomic"

	"pet-sync/internal/platform/logger"
	"pet-sync/internal/ports/collaborators"
	"pet-sync/internal/viewstate"

	"github.com/google/uuid"
)

const defaultFailureBuffer = 32

// Dispatcher es lo que el controller necesita del store.
type Dispatcher interface {
	Dispatch(a viewstate.Action) viewstate.State
	State() viewstate.State
}

type Deps struct {
	Store Dispatcher

	Pets    collaborators.PetLister
	Breeds  collaborators.BreedLister // opcional: sin razas el select queda vacío
	Creator collaborators.PetCreator

	Logger        logger.Logger
	FailureBuffer int
}

// Controller conecta los colaboradores remotos con el store de la sesión.
type Controller struct {
	store   Dispatcher
	pets    collaborators.PetLister
	breeds  collaborators.BreedLister
	creator collaborators.PetCreator
	log     logger.Logger

	failures chan Failure
	loaded   atomic.Bool

	newID func() string
}

func New(d Deps) *Controller {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	n := d.FailureBuffer
	if n <= 0 {
		n = defaultFailureBuffer
	}
	return &Controller{
		store:    d.Store,
		pets:     d.Pets,
		breeds:   d.Breeds,
		creator:  d.Creator,
		log:      log,
		failures: make(chan Failure, n),
		newID:    uuid.NewString,
	}
}

// Failures publica cada fetch/write fallido. Si nadie lee y el buffer se
// llena, los siguientes se descartan (quedan en el log).
func (c *Controller) Failures() <-chan Failure {
	return c.failures
}

func (c *Controller) State() viewstate.State {
	return c.store.State()
}

// LoadAll corre una sola vez por sesión: razas y después pets, en secuencia.
// Cada fetch tiene su propio scope de error: si falla razas igual se cargan pets.
func (c *Controller) LoadAll(ctx context.Context) error {
	if !c.loaded.CompareAndSwap(false, true) {
		return ErrAlreadyLoaded
	}

	var errs []error

	if c.breeds != nil {
		breeds, err := c.breeds.ListBreeds(ctx)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			errs = append(errs, c.fail(Failure{Kind: FailureFetch, Op: "listBreeds", Err: err}))
		default:
			c.log.Debug("breeds loaded", map[string]any{"count": len(breeds)})
			c.dispatch(ctx, viewstate.SetBreeds{Breeds: breeds})
		}
	}

	if c.pets != nil {
		remote, err := c.pets.ListPets(ctx)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			errs = append(errs, c.fail(Failure{Kind: FailureFetch, Op: "listPets", Err: err}))
		default:
			c.log.Debug("pets loaded", map[string]any{"count": len(remote)})
			c.dispatch(ctx, viewstate.MergePets{Pets: toViewPets(remote)})
		}
	}

	return errors.Join(errs...)
}

func (c *Controller) SetInput(field viewstate.Field, value string) viewstate.State {
	return c.store.Dispatch(viewstate.SetInput{Field: field, Value: value})
}

func (c *Controller) ShowCreatePet() viewstate.State {
	return c.store.Dispatch(viewstate.ShowCreatePet{})
}

func (c *Controller) SetActivePet(index int) viewstate.State {
	return c.store.Dispatch(viewstate.SetActivePet{Index: index})
}

// DraftReady dice si el draft actual alcanza para un create, sin despachar nada.
func (c *Controller) DraftReady() bool {
	_, ok := draftInput(c.store.State().Draft)
	return ok
}

// PendingCreate es un append optimista ya aplicado cuyo write todavía no se hizo.
type PendingCreate struct {
	c     *Controller
	pet   viewstate.Pet
	input collaborators.PetInput
	done  atomic.Bool
}

func (p *PendingCreate) Pet() viewstate.Pet { return p.pet }

// BeginCreate valida el draft y agrega el pet (pending) al final de la lista.
// Draft incompleto => ErrIncompleteDraft, sin dispatch.
func (c *Controller) BeginCreate(ctx context.Context) (*PendingCreate, error) {
	in, ok := draftInput(c.store.State().Draft)
	if !ok {
		return nil, ErrIncompleteDraft
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pet := viewstate.Pet{
		LocalID: c.newID(),
		Name:    in.Name,
		Breed:   in.Breed,
		Age:     in.Age,
		Status:  viewstate.PetStatusPending,
	}
	c.store.Dispatch(viewstate.AppendPet{Pet: pet})
	c.log.Info("pet appended", map[string]any{"local_id": pet.LocalID, "name": pet.Name})

	return &PendingCreate{c: c, pet: pet, input: in}, nil
}

// Commit hace el write remoto y reconcilia el pet: confirmed con su ID, o failed.
// El append nunca se deshace.
func (p *PendingCreate) Commit(ctx context.Context) (viewstate.Pet, error) {
	if !p.done.CompareAndSwap(false, true) {
		return p.pet, nil
	}
	c := p.c

	created, err := c.creator.CreatePet(ctx, p.input)
	if err != nil {
		p.pet.Status = viewstate.PetStatusFailed
		c.store.Dispatch(viewstate.ReconcilePet{LocalID: p.pet.LocalID, Status: viewstate.PetStatusFailed})
		return p.pet, c.fail(Failure{Kind: FailureWrite, Op: "createPet", LocalID: p.pet.LocalID, Err: err})
	}

	p.pet.ID = created.ID
	p.pet.Status = viewstate.PetStatusConfirmed
	c.store.Dispatch(viewstate.ReconcilePet{
		LocalID: p.pet.LocalID,
		ID:      created.ID,
		Status:  viewstate.PetStatusConfirmed,
	})
	c.log.Info("pet created", map[string]any{"local_id": p.pet.LocalID, "id": created.ID})
	return p.pet, nil
}

// CreatePet es BeginCreate + Commit en el mismo goroutine.
func (c *Controller) CreatePet(ctx context.Context) (viewstate.Pet, error) {
	p, err := c.BeginCreate(ctx)
	if err != nil {
		return viewstate.Pet{}, err
	}
	return p.Commit(ctx)
}

// dispatch descarta resultados que llegan con la sesión ya cancelada.
func (c *Controller) dispatch(ctx context.Context, a viewstate.Action) bool {
	if ctx.Err() != nil {
		c.log.Debug("dropping late result", map[string]any{"action": a.Kind()})
		return false
	}
	c.store.Dispatch(a)
	return true
}

func (c *Controller) fail(f Failure) error {
	fields := map[string]any{"kind": string(f.Kind), "op": f.Op, "err": f.Err}
	if f.LocalID != "" {
		fields["local_id"] = f.LocalID
	}
	c.log.Warn("remote call failed", fields)

	select {
	case c.failures <- f:
	default:
		c.log.Warn("failure channel full, dropping", map[string]any{"op": f.Op})
	}
	return f
}

// draftInput: name y breed van tal cual se tipearon; solo el vacío es incompleto.
// Espacios en blanco los rechaza el backend y el pet queda failed.
func draftInput(d viewstate.DraftPet) (collaborators.PetInput, bool) {
	if d.Name == "" || d.Breed == "" {
		return collaborators.PetInput{}, false
	}
	age, ok := parseAge(d.Age)
	if !ok || age == 0 {
		return collaborators.PetInput{}, false
	}
	return collaborators.PetInput{Name: d.Name, Breed: d.Breed, Age: age}, true
}

func toViewPets(in []collaborators.RemotePet) []viewstate.Pet {
	out := make([]viewstate.Pet, 0, len(in))
	for _, p := range in {
		out = append(out, viewstate.Pet{
			ID:     p.ID,
			Name:   p.Name,
			Breed:  p.Breed,
			Age:    p.Age,
			Status: viewstate.PetStatusConfirmed,
		})
	}
	return out
}
