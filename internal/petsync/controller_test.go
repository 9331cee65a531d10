package petsync

import (
	"context"
	"errors"
	"sync"
	"testing"

	"pet-sync/internal/ports/collaborators"
	"pet-sync/internal/viewstate"
)

// -------------------------
// Fakes
// -------------------------

type recordingStore struct {
	mu    sync.Mutex
	inner *viewstate.Store
	kinds []string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{inner: viewstate.NewStore(viewstate.Initial())}
}

func (r *recordingStore) Dispatch(a viewstate.Action) viewstate.State {
	r.mu.Lock()
	r.kinds = append(r.kinds, a.Kind())
	r.mu.Unlock()
	return r.inner.Dispatch(a)
}

func (r *recordingStore) State() viewstate.State { return r.inner.State() }

func (r *recordingStore) dispatched() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.kinds...)
}

type fakeRemote struct {
	mu sync.Mutex

	pets      []collaborators.RemotePet
	breeds    []string
	petsErr   error
	breedsErr error
	createErr error

	created []collaborators.PetInput
}

func (f *fakeRemote) ListPets(context.Context) ([]collaborators.RemotePet, error) {
	return f.pets, f.petsErr
}

func (f *fakeRemote) ListBreeds(context.Context) ([]string, error) {
	return f.breeds, f.breedsErr
}

func (f *fakeRemote) CreatePet(_ context.Context, in collaborators.PetInput) (collaborators.RemotePet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	if f.createErr != nil {
		return collaborators.RemotePet{}, f.createErr
	}
	return collaborators.RemotePet{ID: "srv-1", Name: in.Name, Breed: in.Breed, Age: in.Age}, nil
}

func newController(store Dispatcher, remote *fakeRemote) *Controller {
	c := New(Deps{Store: store, Pets: remote, Breeds: remote, Creator: remote})
	c.newID = func() string { return "local-1" }
	return c
}

func typeDraft(c *Controller, name, breed, age string) {
	c.SetInput(viewstate.FieldName, name)
	c.SetInput(viewstate.FieldBreed, breed)
	c.SetInput(viewstate.FieldAge, age)
}

// -------------------------
// CreatePet
// -------------------------

func TestCreatePet_ValidDraft_AppendsAndWritesOnce(t *testing.T) {
	store := newRecordingStore()
	remote := &fakeRemote{}
	c := newController(store, remote)

	typeDraft(c, "Rex", "Lab", "3")

	pet, err := c.CreatePet(context.Background())
	if err != nil {
		t.Fatalf("CreatePet: %v", err)
	}

	if len(remote.created) != 1 {
		t.Fatalf("expected exactly one write, got %d", len(remote.created))
	}
	want := collaborators.PetInput{Name: "Rex", Breed: "Lab", Age: 3}
	if remote.created[0] != want {
		t.Fatalf("expected payload %#v, got %#v", want, remote.created[0])
	}

	items := c.State().Pets.Items
	if len(items) != 1 {
		t.Fatalf("expected one pet, got %#v", items)
	}
	got := items[0]
	if got.Name != "Rex" || got.Breed != "Lab" || got.Age != 3 {
		t.Fatalf("unexpected appended pet %#v", got)
	}
	if got.Status != viewstate.PetStatusConfirmed || got.ID != "srv-1" || pet.ID != "srv-1" {
		t.Fatalf("expected confirmed srv-1, got %#v", got)
	}
}

func TestCreatePet_AppendHappensBeforeWrite(t *testing.T) {
	store := newRecordingStore()
	c := newController(store, &fakeRemote{})

	var seenPending bool
	c.creator = creatorFunc(func(ctx context.Context, in collaborators.PetInput) (collaborators.RemotePet, error) {
		items := store.State().Pets.Items
		seenPending = len(items) == 1 && items[0].Status == viewstate.PetStatusPending
		return collaborators.RemotePet{ID: "x"}, nil
	})

	typeDraft(c, "Rex", "Lab", "3")
	if _, err := c.CreatePet(context.Background()); err != nil {
		t.Fatalf("CreatePet: %v", err)
	}
	if !seenPending {
		t.Fatalf("expected pending pet in state while the write runs")
	}
}

type creatorFunc func(ctx context.Context, in collaborators.PetInput) (collaborators.RemotePet, error)

func (f creatorFunc) CreatePet(ctx context.Context, in collaborators.PetInput) (collaborators.RemotePet, error) {
	return f(ctx, in)
}

func TestCreatePet_IncompleteDraft_NoDispatchNoWrite(t *testing.T) {
	cases := []struct {
		name, breed, age string
	}{
		{"", "Lab", "3"},
		{"Rex", "", "3"},
		{"Rex", "Lab", ""},
		{"Rex", "Lab", "0"},
		{"Rex", "Lab", "abc"},
	}

	for _, tc := range cases {
		store := newRecordingStore()
		remote := &fakeRemote{}
		c := newController(store, remote)
		typeDraft(c, tc.name, tc.breed, tc.age)
		before := len(store.dispatched())

		_, err := c.CreatePet(context.Background())
		if !errors.Is(err, ErrIncompleteDraft) {
			t.Fatalf("%+v: expected ErrIncompleteDraft, got %v", tc, err)
		}
		if n := len(store.dispatched()) - before; n != 0 {
			t.Fatalf("%+v: expected zero dispatches, got %d", tc, n)
		}
		if len(remote.created) != 0 {
			t.Fatalf("%+v: expected zero writes", tc)
		}
	}
}

func TestCreatePet_BlankButNonEmpty_IsSent(t *testing.T) {
	store := newRecordingStore()
	remote := &fakeRemote{}
	c := newController(store, remote)
	typeDraft(c, "  ", "Lab", "3")

	if !c.DraftReady() {
		t.Fatalf("non-empty name must count as filled")
	}
	if _, err := c.CreatePet(context.Background()); err != nil {
		t.Fatalf("CreatePet: %v", err)
	}
	if len(remote.created) != 1 || remote.created[0].Name != "  " {
		t.Fatalf("expected the typed name to be written as is, got %#v", remote.created)
	}
}

func TestDraftReady(t *testing.T) {
	c := newController(newRecordingStore(), &fakeRemote{})
	if c.DraftReady() {
		t.Fatalf("empty draft must not be ready")
	}
	typeDraft(c, "Rex", "Lab", "0")
	if c.DraftReady() {
		t.Fatalf("age 0 must not be ready")
	}
	c.SetInput(viewstate.FieldAge, "2")
	if !c.DraftReady() {
		t.Fatalf("complete draft must be ready")
	}
}

func TestCreatePet_WriteFailure_FlagsAndReports(t *testing.T) {
	store := newRecordingStore()
	remote := &fakeRemote{createErr: errors.New("backend down")}
	c := newController(store, remote)
	typeDraft(c, "Rex", "Lab", "3")

	pet, err := c.CreatePet(context.Background())
	if !errors.Is(err, ErrWriteFailure) {
		t.Fatalf("expected ErrWriteFailure, got %v", err)
	}
	if pet.Status != viewstate.PetStatusFailed {
		t.Fatalf("expected failed pet, got %s", pet.Status)
	}

	items := c.State().Pets.Items
	if len(items) != 1 || items[0].Status != viewstate.PetStatusFailed {
		t.Fatalf("append must stay and be flagged failed, got %#v", items)
	}

	select {
	case f := <-c.Failures():
		if f.Kind != FailureWrite || f.LocalID != "local-1" {
			t.Fatalf("unexpected failure %#v", f)
		}
	default:
		t.Fatalf("expected failure on channel")
	}
}

func TestPendingCreate_CommitOnce(t *testing.T) {
	remote := &fakeRemote{}
	c := newController(newRecordingStore(), remote)
	typeDraft(c, "Rex", "Lab", "3")

	p, err := c.BeginCreate(context.Background())
	if err != nil {
		t.Fatalf("BeginCreate: %v", err)
	}
	if p.Pet().Status != viewstate.PetStatusPending {
		t.Fatalf("expected pending, got %s", p.Pet().Status)
	}
	_, _ = p.Commit(context.Background())
	_, _ = p.Commit(context.Background())

	if len(remote.created) != 1 {
		t.Fatalf("expected one write, got %d", len(remote.created))
	}
}

// -------------------------
// LoadAll
// -------------------------

func TestLoadAll_BreedsBeforePets(t *testing.T) {
	store := newRecordingStore()
	remote := &fakeRemote{
		breeds: []string{"labrador"},
		pets:   []collaborators.RemotePet{{ID: "p1", Name: "Milo", Breed: "beagle", Age: 2}},
	}
	c := newController(store, remote)

	if err := c.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	kinds := store.dispatched()
	if len(kinds) != 2 || kinds[0] != "SET_BREEDS" || kinds[1] != "MERGE_PETS" {
		t.Fatalf("unexpected dispatch order %v", kinds)
	}

	s := c.State()
	if len(s.Breeds) != 1 || len(s.Pets.Items) != 1 || s.Pets.Items[0].Status != viewstate.PetStatusConfirmed {
		t.Fatalf("unexpected state %#v", s)
	}
}

func TestLoadAll_BreedFailure_StillLoadsPets(t *testing.T) {
	store := newRecordingStore()
	remote := &fakeRemote{
		breedsErr: errors.New("breeds api down"),
		pets:      []collaborators.RemotePet{{ID: "p1", Name: "Milo"}},
	}
	c := newController(store, remote)

	err := c.LoadAll(context.Background())
	if !errors.Is(err, ErrFetchFailure) {
		t.Fatalf("expected fetch failure, got %v", err)
	}

	kinds := store.dispatched()
	if len(kinds) != 1 || kinds[0] != "MERGE_PETS" {
		t.Fatalf("expected only MERGE_PETS, got %v", kinds)
	}

	f := <-c.Failures()
	if f.Op != "listBreeds" {
		t.Fatalf("expected listBreeds failure, got %#v", f)
	}
}

func TestLoadAll_EmptyItems(t *testing.T) {
	c := newController(newRecordingStore(), &fakeRemote{pets: []collaborators.RemotePet{}})
	if err := c.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if n := len(c.State().Pets.Items); n != 0 {
		t.Fatalf("expected no pets, got %d", n)
	}
}

func TestLoadAll_OnlyOnce(t *testing.T) {
	c := newController(newRecordingStore(), &fakeRemote{})
	_ = c.LoadAll(context.Background())
	if err := c.LoadAll(context.Background()); !errors.Is(err, ErrAlreadyLoaded) {
		t.Fatalf("expected ErrAlreadyLoaded, got %v", err)
	}
}

func TestLoadAll_CancelledContext_NoDispatch(t *testing.T) {
	store := newRecordingStore()
	c := newController(store, &fakeRemote{breeds: []string{"x"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.LoadAll(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(store.dispatched()) != 0 {
		t.Fatalf("expected no dispatches, got %v", store.dispatched())
	}
	select {
	case f := <-c.Failures():
		t.Fatalf("cancellation must not be reported as failure: %#v", f)
	default:
	}
}

func TestLoadAll_KeepsPendingAppend(t *testing.T) {
	store := newRecordingStore()
	remote := &fakeRemote{pets: []collaborators.RemotePet{{ID: "p1", Name: "Milo"}}}
	c := newController(store, remote)
	typeDraft(c, "Rex", "Lab", "3")

	if _, err := c.BeginCreate(context.Background()); err != nil {
		t.Fatalf("BeginCreate: %v", err)
	}
	if err := c.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	items := c.State().Pets.Items
	if len(items) != 2 || items[1].LocalID != "local-1" {
		t.Fatalf("expected pending append kept after load, got %#v", items)
	}
}

func TestCreatePet_ReadDuringWrite_NoDuplicate(t *testing.T) {
	store := newRecordingStore()
	remote := &fakeRemote{pets: []collaborators.RemotePet{{ID: "srv-1", Name: "Rex", Breed: "Lab", Age: 3}}}
	c := newController(store, remote)
	typeDraft(c, "Rex", "Lab", "3")

	pending, err := c.BeginCreate(context.Background())
	if err != nil {
		t.Fatalf("BeginCreate: %v", err)
	}
	if err := c.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if _, err := pending.Commit(context.Background()); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	items := c.State().Pets.Items
	n := 0
	for _, p := range items {
		if p.ID == "srv-1" {
			n++
		}
	}
	if n != 1 || len(items) != 1 {
		t.Fatalf("expected srv-1 exactly once, got %#v", items)
	}
}

func TestParseAge(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{" 12 años", 12, true},
		{"-2", -2, true},
		{"+7", 7, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"99999999999", 0, false},
		{"2147483647", 2147483647, true},
		{"2147483648", 0, false},
		{"2147483649", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseAge(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("parseAge(%q) = %d,%v want %d,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
