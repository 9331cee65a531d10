package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pet-sync/internal/platform/httpclient"
	"pet-sync/internal/ports/collaborators"
)

const (
	DefaultPath = "/graphql"

	listPetsQuery = `query ListPets {
  listPets {
    items { id name breed age }
    nextToken
  }
}`

	createPetMutation = `mutation CreatePet($input: CreatePetInput!) {
  createPet(input: $input) { id name breed age }
}`
)

var ErrEmptyData = errors.New("graphql: empty data")

// ResponseError agrupa los "errors" de una respuesta GraphQL con status 200.
type ResponseError struct {
	Messages []string
}

func (e *ResponseError) Error() string {
	return "graphql: " + strings.Join(e.Messages, "; ")
}

// Client implementa los colaboradores de consulta y mutación sobre POST /graphql.
type Client struct {
	http    *httpclient.Client
	path    string
	headers http.Header
}

// NewClient: headers se mandan en cada request (auth del usuario de la sesión).
func NewClient(hc *httpclient.Client, path string, headers http.Header) *Client {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	return &Client{http: hc, path: path, headers: headers.Clone()}
}

var (
	_ collaborators.PetLister  = (*Client)(nil)
	_ collaborators.PetCreator = (*Client)(nil)
)

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type petNode struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Breed string `json:"breed"`
	Age   int    `json:"age"`
}

func (n petNode) toRemote() collaborators.RemotePet {
	return collaborators.RemotePet{ID: n.ID, Name: n.Name, Breed: n.Breed, Age: n.Age}
}

func (c *Client) ListPets(ctx context.Context) ([]collaborators.RemotePet, error) {
	var data struct {
		ListPets *struct {
			Items []petNode `json:"items"`
		} `json:"listPets"`
	}
	if err := c.do(ctx, request{Query: listPetsQuery, OperationName: "ListPets"}, &data); err != nil {
		return nil, fmt.Errorf("listPets: %w", err)
	}

	out := make([]collaborators.RemotePet, 0)
	if data.ListPets == nil {
		return out, nil
	}
	for _, n := range data.ListPets.Items {
		out = append(out, n.toRemote())
	}
	return out, nil
}

func (c *Client) CreatePet(ctx context.Context, in collaborators.PetInput) (collaborators.RemotePet, error) {
	var data struct {
		CreatePet *petNode `json:"createPet"`
	}
	req := request{
		Query:         createPetMutation,
		OperationName: "CreatePet",
		Variables:     map[string]any{"input": in},
	}
	if err := c.do(ctx, req, &data); err != nil {
		return collaborators.RemotePet{}, fmt.Errorf("createPet: %w", err)
	}
	if data.CreatePet == nil {
		return collaborators.RemotePet{}, fmt.Errorf("createPet: %w", ErrEmptyData)
	}
	return data.CreatePet.toRemote(), nil
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	var env envelope
	if err := c.http.DoJSON(ctx, http.MethodPost, c.path, c.headers, req, &env); err != nil {
		return err
	}

	if len(env.Errors) > 0 {
		msgs := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msgs = append(msgs, e.Message)
		}
		return &ResponseError{Messages: msgs}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrEmptyData
	}
	return json.Unmarshal(env.Data, out)
}
