package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"pet-sync/internal/petsync"
	"pet-sync/internal/platform/logger"
	"pet-sync/internal/viewstate"

	"golang.org/x/time/rate"
)

// FailureRecord es un Failure del controller con timestamp, para el snapshot.
type FailureRecord struct {
	petsync.Failure
	At time.Time
}

// Session es el par store + controller de un usuario.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time

	store   *viewstate.Store
	ctrl    *petsync.Controller
	limiter *rate.Limiter
	log     logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	writeTimeout time.Duration
	maxFailures  int

	loaded    chan struct{}
	mu        sync.Mutex
	failures  []FailureRecord
	writes    sync.WaitGroup
	closeOnce sync.Once
	now       func() time.Time
}

func (s *Session) State() viewstate.State { return s.ctrl.State() }

// Loaded se cierra cuando termina el LoadAll inicial (con o sin error).
func (s *Session) Loaded() <-chan struct{} { return s.loaded }

// Done se cierra cuando la sesión se cierra o expira.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

func (s *Session) Loading() bool {
	select {
	case <-s.loaded:
		return false
	default:
		return true
	}
}

func (s *Session) SetInput(field viewstate.Field, value string) (viewstate.State, error) {
	if field == viewstate.FieldUnknown {
		return viewstate.State{}, ErrInvalidInput
	}
	return s.ctrl.SetInput(field, value), nil
}

func (s *Session) ShowCreatePet() viewstate.State { return s.ctrl.ShowCreatePet() }

func (s *Session) SetActivePet(index int) (viewstate.State, error) {
	if index < 0 {
		return viewstate.State{}, ErrInvalidInput
	}
	return s.ctrl.SetActivePet(index), nil
}

// CreatePet hace el append optimista ya y deja el write corriendo en background,
// atado a la vida de la sesión. Draft incompleto => petsync.ErrIncompleteDraft.
func (s *Session) CreatePet() (viewstate.Pet, error) {
	if s.ctx.Err() != nil {
		return viewstate.Pet{}, ErrSessionNotFound
	}
	// Un draft incompleto no gasta cupo: no hay write.
	if !s.ctrl.DraftReady() {
		return viewstate.Pet{}, petsync.ErrIncompleteDraft
	}
	if !s.limiter.Allow() {
		return viewstate.Pet{}, ErrRateLimited
	}

	pending, err := s.ctrl.BeginCreate(s.ctx)
	if err != nil {
		return viewstate.Pet{}, err
	}

	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		ctx, cancel := context.WithTimeout(s.ctx, s.writeTimeout)
		defer cancel()
		// El resultado llega por ReconcilePet y, si falla, por Failures().
		_, _ = pending.Commit(ctx)
	}()

	return pending.Pet(), nil
}

// Failures devuelve los últimos fallos remotos (más viejo primero).
func (s *Session) Failures() []FailureRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FailureRecord, len(s.failures))
	copy(out, s.failures)
	return out
}

// Wait espera a que terminen los writes en background (tests / shutdown).
func (s *Session) Wait() {
	s.writes.Wait()
}

func (s *Session) start(loadTimeout time.Duration) {
	go s.collectFailures()

	go func() {
		defer close(s.loaded)
		ctx, cancel := context.WithTimeout(s.ctx, loadTimeout)
		defer cancel()

		if err := s.ctrl.LoadAll(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn("initial load incomplete", map[string]any{"err": err})
		}
	}()
}

func (s *Session) collectFailures() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case f := <-s.ctrl.Failures():
			s.mu.Lock()
			s.failures = append(s.failures, FailureRecord{Failure: f, At: s.now()})
			if over := len(s.failures) - s.maxFailures; over > 0 {
				s.failures = append([]FailureRecord(nil), s.failures[over:]...)
			}
			s.mu.Unlock()
		}
	}
}

// closed: shutdown ya corrió (el store deja de aceptar acciones).
func (s *Session) closed() bool { return s.store.Closed() }

// shutdown corta fetches/writes en vuelo y cierra el store.
func (s *Session) shutdown() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.store.Close()
		s.log.Info("session closed", nil)
	})
}
