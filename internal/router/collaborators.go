package router

import (
	"net/http"
	"time"

	"pet-sync/internal/adapters/breedsapi"
	"pet-sync/internal/adapters/graphql"
	"pet-sync/internal/middleware"
	"pet-sync/internal/platform/httpclient"
	"pet-sync/internal/ports/auth"
	"pet-sync/internal/session"
)

// BackendOptions: cómo la api llega al backend de pets.
type BackendOptions struct {
	BaseURL     string
	GraphQLPath string
	BreedsPath  string
	Timeout     time.Duration
	Transport   http.RoundTripper // tests
}

// BackendCollaborators devuelve la factory que usa el session.Manager:
// un cliente HTTP compartido y headers de auth por usuario.
func BackendCollaborators(opts BackendOptions) (session.CollaboratorFactory, error) {
	hc, err := httpclient.New(httpclient.Config{
		BaseURL:   opts.BaseURL,
		Timeout:   opts.Timeout,
		Transport: opts.Transport,
	})
	if err != nil {
		return nil, err
	}
	if hc.BaseURL == "" {
		return nil, httpclient.ErrNeedBaseURL
	}

	return func(claims auth.Claims) (session.Collaborators, error) {
		h := middleware.ForwardHeaders(claims)
		gql := graphql.NewClient(hc, opts.GraphQLPath, h)
		return session.Collaborators{
			Pets:    gql,
			Breeds:  breedsapi.NewClient(hc, opts.BreedsPath, h),
			Creator: gql,
		}, nil
	}, nil
}
