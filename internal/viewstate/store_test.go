package viewstate

import (
	"sync"
	"testing"
)

func TestStore_Dispatch_AppliesAndNotifies(t *testing.T) {
	st := NewStore(Initial())

	var kinds []string
	st.OnDispatch(func(a Action, _ State) { kinds = append(kinds, a.Kind()) })

	st.Dispatch(SetBreeds{Breeds: []string{"beagle"}})
	st.Dispatch(SetInput{Field: FieldName, Value: "Rex"})

	s := st.State()
	if s.Draft.Name != "Rex" || len(s.Breeds) != 1 {
		t.Fatalf("unexpected state %#v", s)
	}
	if len(kinds) != 2 || kinds[0] != "SET_BREEDS" || kinds[1] != "SET_INPUT" {
		t.Fatalf("unexpected hook calls %v", kinds)
	}
}

func TestStore_Close_DropsLateDispatches(t *testing.T) {
	st := NewStore(Initial())
	st.Dispatch(SetInput{Field: FieldName, Value: "Rex"})
	st.Close()

	got := st.Dispatch(SetPets{Pets: []Pet{{ID: "late"}}})
	if len(got.Pets.Items) != 0 {
		t.Fatalf("expected late dispatch to be dropped, got %#v", got.Pets.Items)
	}
	if !st.Closed() {
		t.Fatalf("expected closed store")
	}
}

func TestStore_ConcurrentAppends_AllLand(t *testing.T) {
	st := NewStore(Initial())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Dispatch(AppendPet{Pet: Pet{Name: "x"}})
		}()
	}
	wg.Wait()

	if n := len(st.State().Pets.Items); n != 50 {
		t.Fatalf("expected 50 pets, got %d", n)
	}
}
