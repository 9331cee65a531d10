package viewstate

import "sync"

// Store mantiene el State de una sesión y aplica acciones de a una.
type Store struct {
	mu     sync.Mutex
	state  State
	closed bool
	hooks  []func(Action, State)
}

func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Dispatch aplica la acción y devuelve el estado resultante.
// Con el store cerrado la acción se descarta.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	if s.closed {
		st := s.state
		s.mu.Unlock()
		return st
	}
	s.state = Apply(s.state, a)
	st := s.state
	hooks := s.hooks
	s.mu.Unlock()

	for _, h := range hooks {
		h(a, st)
	}
	return st
}

// State devuelve el snapshot actual. Apply nunca muta slices existentes,
// así que el snapshot se puede leer sin copiar.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnDispatch registra un hook que se llama después de cada acción aplicada.
func (s *Store) OnDispatch(fn func(Action, State)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	hooks := make([]func(Action, State), 0, len(s.hooks)+1)
	hooks = append(hooks, s.hooks...)
	s.hooks = append(hooks, fn)
}

// Close corta la sesión: resultados que lleguen tarde ya no se aplican.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
