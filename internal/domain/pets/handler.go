package pets

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/graph-gophers/graphql-go/relay"
)

// RegisterRoutes monta la API "managed": GraphQL de pets + REST de razas.
// Se asume que el router ya exige claims (middleware.RequireClaims).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Method(http.MethodPost, "/graphql", &relay.Handler{Schema: NewSchema(svc)})
	r.Get("/breeds", listBreedsHandler(svc))
}

func listBreedsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		// Array pelado, sin envelope.
		writeJSON(w, http.StatusOK, svc.Breeds())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
