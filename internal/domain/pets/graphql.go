package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-sync/internal/middleware"

	graphql "github.com/graph-gophers/graphql-go"
)

var ErrUnauthorized = errors.New("unauthorized")

const schemaSDL = `
schema {
  query: Query
  mutation: Mutation
}

type Query {
  listPets: PetConnection!
  pet(id: ID!): Pet
}

type Mutation {
  createPet(input: CreatePetInput!): Pet!
}

type Pet {
  id: ID!
  name: String!
  breed: String!
  age: Int!
  species: String!
  createdAt: String!
}

type PetConnection {
  items: [Pet!]!
  nextToken: String
}

input CreatePetInput {
  name: String!
  breed: String!
  age: Int!
}
`

// NewSchema parsea el schema con los resolvers del service.
func NewSchema(svc *Service) *graphql.Schema {
	return graphql.MustParseSchema(schemaSDL, &rootResolver{svc: svc})
}

type rootResolver struct {
	svc *Service
}

func ownerFrom(ctx context.Context) (string, error) {
	claims, ok := middleware.GetClaims(ctx)
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return "", ErrUnauthorized
	}
	return claims.UserID, nil
}

func (r *rootResolver) ListPets(ctx context.Context) (*petConnectionResolver, error) {
	owner, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}

	items, err := r.svc.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	out := make([]*petResolver, 0, len(items))
	for _, p := range items {
		out = append(out, &petResolver{p: p})
	}
	return &petConnectionResolver{items: out}, nil
}

// Pet devuelve null si no existe o es de otro owner.
func (r *rootResolver) Pet(ctx context.Context, args struct{ ID graphql.ID }) (*petResolver, error) {
	owner, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}

	p, err := r.svc.GetByID(ctx, string(args.ID))
	if err != nil || p.OwnerUserID != owner {
		return nil, nil
	}
	return &petResolver{p: p}, nil
}

type createPetInput struct {
	Name  string
	Breed string
	Age   int32
}

func (r *rootResolver) CreatePet(ctx context.Context, args struct{ Input createPetInput }) (*petResolver, error) {
	owner, err := ownerFrom(ctx)
	if err != nil {
		return nil, err
	}

	p, err := r.svc.Create(ctx, owner, CreateInput{
		Name:  args.Input.Name,
		Breed: args.Input.Breed,
		Age:   int(args.Input.Age),
	})
	if err != nil {
		return nil, err
	}
	return &petResolver{p: p}, nil
}

type petConnectionResolver struct {
	items []*petResolver
}

func (c *petConnectionResolver) Items() []*petResolver { return c.items }

// NextToken: sin paginación por ahora, siempre null.
func (c *petConnectionResolver) NextToken() *string { return nil }

type petResolver struct {
	p Pet
}

func (r *petResolver) ID() graphql.ID    { return graphql.ID(r.p.ID) }
func (r *petResolver) Name() string      { return r.p.Name }
func (r *petResolver) Breed() string     { return r.p.Breed }
func (r *petResolver) Age() int32        { return int32(r.p.Age) }
func (r *petResolver) Species() string   { return string(SpeciesOf(r.p.Breed)) }
func (r *petResolver) CreatedAt() string { return r.p.CreatedAt.UTC().Format(time.RFC3339) }
