package gateway

import (
	_ "embed"
	"fmt"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

//go:embed schema.graphql
var schemaSDL string

// maxQueryDepth bounds nesting; the deepest legal query is four levels
const maxQueryDepth = 8

// NewSchema parses the embedded schema against the root resolver
func NewSchema(resolver *Resolver) (*graphql.Schema, error) {
	schema, err := graphql.ParseSchema(schemaSDL, resolver,
		graphql.MaxDepth(maxQueryDepth),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL schema: %w", err)
	}
	return schema, nil
}

// Handler serves GraphQL requests posted as JSON
func Handler(schema *graphql.Schema) http.Handler {
	return &relay.Handler{Schema: schema}
}
