package graph

import (
	_ "embed"

	"github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaSDL string

const maxQueryDepth = 8

// NewSchema parses the SDL against the resolver. It panics if the resolver does
// not cover the schema, which surfaces at startup.
func NewSchema(resolver *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(schemaSDL, resolver,
		graphql.MaxDepth(maxQueryDepth),
	)
}
