package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-sync/internal/middleware"
	"pet-sync/internal/petsync"
	"pet-sync/internal/viewstate"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, m *Manager) {
	r.Route("/sessions", func(sr chi.Router) {
		sr.Post("/", openSessionHandler(m))

		sr.Route("/{sessionID}", func(one chi.Router) {
			one.Get("/", getSessionHandler(m))
			one.Delete("/", closeSessionHandler(m))
			one.Patch("/draft", updateDraftHandler(m))
			one.Post("/create-form", showCreateFormHandler(m))
			one.Put("/active-pet", setActivePetHandler(m))
			one.Post("/pets", createPetHandler(m))
		})
	})
}

type draftResponse struct {
	Name  string `json:"name"`
	Breed string `json:"breed"`
	Age   string `json:"age"`
}

type petResponse struct {
	LocalID   string              `json:"local_id,omitempty"`
	ID        string              `json:"id,omitempty"`
	Name      string              `json:"name"`
	Breed     string              `json:"breed"`
	Age       int                 `json:"age"`
	Status    viewstate.PetStatus `json:"status"`
	AlbumPath string              `json:"album_path"`
}

type failureResponse struct {
	Kind    petsync.FailureKind `json:"kind"`
	Op      string              `json:"op"`
	LocalID string              `json:"local_id,omitempty"`
	Error   string              `json:"error"`
	At      time.Time           `json:"at"`
}

type stateResponse struct {
	SessionID     string            `json:"session_id"`
	Loading       bool              `json:"loading"`
	Draft         draftResponse     `json:"draft"`
	Pets          []petResponse     `json:"pets"`
	ActivePet     int               `json:"active_pet"`
	Breeds        []string          `json:"breeds"`
	ShowCreatePet bool              `json:"show_create_pet"`
	Failures      []failureResponse `json:"failures"`
}

type createPetResponse struct {
	Created bool         `json:"created"`
	Pet     *petResponse `json:"pet,omitempty"`
}

type activePetRequest struct {
	Index *int `json:"index"`
}

// openSessionHandler godoc
// @Summary  Open a view session
// @Tags     sessions
// @Produce  json
// @Success  201 {object} stateResponse
// @Failure  401 {string} string
// @Router   /sessions [post]
func openSessionHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		s, err := m.Open(claims)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toStateResponse(s))
	}
}

// getSessionHandler godoc
// @Summary  Session state snapshot
// @Tags     sessions
// @Produce  json
// @Param    sessionID path string true "session id"
// @Success  200 {object} stateResponse
// @Failure  404 {string} string
// @Router   /sessions/{sessionID} [get]
func getSessionHandler(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		writeJSON(w, http.StatusOK, toStateResponse(s))
	})
}

// closeSessionHandler godoc
// @Summary  Close a session
// @Tags     sessions
// @Param    sessionID path string true "session id"
// @Success  204
// @Router   /sessions/{sessionID} [delete]
func closeSessionHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := m.Close(chi.URLParam(r, "sessionID"), claims.UserID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// updateDraftHandler godoc
// @Summary  Update draft fields (name, breed, age)
// @Tags     sessions
// @Accept   json
// @Produce  json
// @Param    sessionID path string true "session id"
// @Success  200 {object} stateResponse
// @Failure  400 {string} string
// @Router   /sessions/{sessionID}/draft [patch]
func updateDraftHandler(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Validar todo antes de despachar: o entran todos los campos o ninguno.
		inputs := make([]viewstate.SetInput, 0, len(raw))
		for key, v := range raw {
			field := viewstate.ParseField(key)
			if field == viewstate.FieldUnknown {
				http.Error(w, "unknown field: "+key, http.StatusBadRequest)
				return
			}
			value, err := inputValue(v)
			if err != nil {
				http.Error(w, key+" must be a string or number", http.StatusBadRequest)
				return
			}
			inputs = append(inputs, viewstate.SetInput{Field: field, Value: value})
		}

		for _, in := range inputs {
			if _, err := s.SetInput(in.Field, in.Value); err != nil {
				writeError(w, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, toStateResponse(s))
	})
}

// showCreateFormHandler godoc
// @Summary  Show the create-pet form
// @Tags     sessions
// @Produce  json
// @Param    sessionID path string true "session id"
// @Success  200 {object} stateResponse
// @Router   /sessions/{sessionID}/create-form [post]
func showCreateFormHandler(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		s.ShowCreatePet()
		writeJSON(w, http.StatusOK, toStateResponse(s))
	})
}

// setActivePetHandler godoc
// @Summary  Highlight a pet by index
// @Tags     sessions
// @Accept   json
// @Produce  json
// @Param    sessionID path string true "session id"
// @Success  200 {object} stateResponse
// @Failure  400 {string} string
// @Router   /sessions/{sessionID}/active-pet [put]
func setActivePetHandler(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		var req activePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
			http.Error(w, "index required", http.StatusBadRequest)
			return
		}
		if _, err := s.SetActivePet(*req.Index); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStateResponse(s))
	})
}

// createPetHandler godoc
// @Summary  Create a pet from the current draft
// @Description Appends the pet locally (pending) and writes it to the backend in background.
// @Description An incomplete draft is skipped (200, created=false).
// @Tags     sessions
// @Produce  json
// @Param    sessionID path string true "session id"
// @Success  202 {object} createPetResponse
// @Success  200 {object} createPetResponse
// @Failure  429 {string} string
// @Router   /sessions/{sessionID}/pets [post]
func createPetHandler(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		pet, err := s.CreatePet()
		if errors.Is(err, petsync.ErrIncompleteDraft) {
			writeJSON(w, http.StatusOK, createPetResponse{Created: false})
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}

		p := toPetResponse(s.UserID, pet)
		writeJSON(w, http.StatusAccepted, createPetResponse{Created: true, Pet: &p})
	})
}

func withSession(m *Manager, next func(http.ResponseWriter, *http.Request, *Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		s, err := m.Get(chi.URLParam(r, "sessionID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r, s)
	}
}

// inputValue acepta "3" o 3: el input del form siempre es texto.
func inputValue(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func toStateResponse(s *Session) stateResponse {
	st := s.State()

	pets := make([]petResponse, 0, len(st.Pets.Items))
	for _, p := range st.Pets.Items {
		pets = append(pets, toPetResponse(s.UserID, p))
	}

	failures := make([]failureResponse, 0)
	for _, f := range s.Failures() {
		failures = append(failures, failureResponse{
			Kind:    f.Kind,
			Op:      f.Op,
			LocalID: f.LocalID,
			Error:   f.Err.Error(),
			At:      f.At,
		})
	}

	breeds := st.Breeds
	if breeds == nil {
		breeds = []string{}
	}

	return stateResponse{
		SessionID: s.ID,
		Loading:   s.Loading(),
		Draft: draftResponse{
			Name:  st.Draft.Name,
			Breed: st.Draft.Breed,
			Age:   st.Draft.Age,
		},
		Pets:          pets,
		ActivePet:     st.Pets.Active,
		Breeds:        breeds,
		ShowCreatePet: st.UI.ShowCreatePet,
		Failures:      failures,
	}
}

func toPetResponse(userID string, p viewstate.Pet) petResponse {
	return petResponse{
		LocalID:   p.LocalID,
		ID:        p.ID,
		Name:      p.Name,
		Breed:     p.Breed,
		Age:       p.Age,
		Status:    p.Status,
		AlbumPath: AlbumPath(userID, p.Name),
	}
}

// AlbumPath es el prefijo privado de fotos de un pet en object storage.
func AlbumPath(userID, petName string) string {
	return "private/" + userID + "/" + strings.Trim(petName, "/") + "/"
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrRateLimited):
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON duplicado a propósito (mismo criterio que en pets).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
