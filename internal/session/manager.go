package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pet-sync/internal/petsync"
	"pet-sync/internal/platform/logger"
	"pet-sync/internal/ports/auth"
	"pet-sync/internal/ports/collaborators"
	"pet-sync/internal/viewstate"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	DefaultTTL             = 30 * time.Minute
	DefaultMaxSessions     = 1000
	DefaultCreatePerMinute = 30
	DefaultLoadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultFailureHistory  = 20
)

// Collaborators son los clientes remotos de una sesión, ya autenticados como el usuario.
type Collaborators struct {
	Pets    collaborators.PetLister
	Breeds  collaborators.BreedLister
	Creator collaborators.PetCreator
}

// CollaboratorFactory arma los colaboradores para las claims del usuario.
type CollaboratorFactory func(claims auth.Claims) (Collaborators, error)

type Config struct {
	TTL             time.Duration
	MaxSessions     int
	CreatePerMinute int
	LoadTimeout     time.Duration
	WriteTimeout    time.Duration
	FailureHistory  int
}

func (c Config) withDefaults() Config {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = DefaultMaxSessions
	}
	if c.CreatePerMinute == 0 {
		c.CreatePerMinute = DefaultCreatePerMinute
	}
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = DefaultLoadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.FailureHistory <= 0 {
		c.FailureHistory = DefaultFailureHistory
	}
	return c
}

// Manager guarda las sesiones vivas. Una sesión que sale del LRU
// (Close, TTL o capacidad) se apaga en el callback de eviction.
type Manager struct {
	cfg      Config
	factory  CollaboratorFactory
	log      logger.Logger
	sessions *expirable.LRU[string, *Session]
	now      func() time.Time
}

func NewManager(cfg Config, factory CollaboratorFactory, log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	cfg = cfg.withDefaults()

	m := &Manager{
		cfg:     cfg,
		factory: factory,
		log:     log,
		now:     time.Now,
	}
	m.sessions = expirable.NewLRU[string, *Session](cfg.MaxSessions, m.onEvict, cfg.TTL)
	return m
}

func (m *Manager) onEvict(id string, s *Session) {
	m.log.Debug("session evicted", map[string]any{"session_id": id})
	s.shutdown()
}

// Open crea la sesión y dispara el LoadAll inicial en background.
func (m *Manager) Open(claims auth.Claims) (*Session, error) {
	userID := strings.TrimSpace(claims.UserID)
	if userID == "" {
		return nil, ErrForbidden
	}
	if m.factory == nil {
		return nil, fmt.Errorf("session: no collaborator factory")
	}

	collabs, err := m.factory(claims)
	if err != nil {
		return nil, fmt.Errorf("session: collaborators: %w", err)
	}

	id := uuid.NewString()
	log := m.log.With(map[string]any{"session_id": id, "user_id": userID})

	store := viewstate.NewStore(viewstate.Initial())
	ctrl := petsync.New(petsync.Deps{
		Store:   store,
		Pets:    collabs.Pets,
		Breeds:  collabs.Breeds,
		Creator: collabs.Creator,
		Logger:  log,
	})

	store.OnDispatch(func(a viewstate.Action, st viewstate.State) {
		log.Debug("action applied", map[string]any{
			"action": a.Kind(),
			"pets":   len(st.Pets.Items),
		})
	})

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:           id,
		UserID:       userID,
		CreatedAt:    m.now(),
		store:        store,
		ctrl:         ctrl,
		limiter:      newLimiter(m.cfg.CreatePerMinute),
		log:          log,
		ctx:          ctx,
		cancel:       cancel,
		writeTimeout: m.cfg.WriteTimeout,
		maxFailures:  m.cfg.FailureHistory,
		loaded:       make(chan struct{}),
		now:          m.now,
	}

	m.sessions.Add(id, s)
	s.start(m.cfg.LoadTimeout)

	log.Info("session opened", map[string]any{"live_sessions": m.Len()})
	return s, nil
}

// Get busca la sesión del usuario y le renueva el TTL.
func (m *Manager) Get(id, userID string) (*Session, error) {
	s, ok := m.sessions.Get(strings.TrimSpace(id))
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.UserID != strings.TrimSpace(userID) {
		return nil, ErrForbidden
	}
	m.touch(s)
	if s.closed() {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// touch renueva el TTL. Un Close o una expiración entre el Get y el Add
// dejaría reinsertada una sesión ya apagada; el LRU llama a onEvict con su
// lock tomado, así que después del Add el ctx ya refleja ese cierre.
func (m *Manager) touch(s *Session) {
	if s.closed() {
		return
	}
	m.sessions.Add(s.ID, s)
	if s.closed() {
		m.sessions.Remove(s.ID)
	}
}

func (m *Manager) Close(id, userID string) error {
	s, err := m.Get(id, userID)
	if err != nil {
		return err
	}
	m.sessions.Remove(s.ID)
	return nil
}

func (m *Manager) Len() int {
	return m.sessions.Len()
}

// Shutdown cierra todas las sesiones.
func (m *Manager) Shutdown() {
	m.sessions.Purge()
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute < 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := perMinute / 10
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst)
}
