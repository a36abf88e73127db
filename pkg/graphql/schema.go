// Package graphql serves a graphql-go schema over HTTP.
//
//	schema, err := graphql.NewSchema(query)
//	r.Post("/graphql", "graphql", graphql.Handler(schema))
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/logger"
	"github.com/shashiranjanraj/catalogue/pkg/response"
)

// NewSchema builds a read-only schema from a root query.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

// Request is the standard GraphQL-over-HTTP POST body.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler executes POSTed queries against schema. Resolver errors are
// returned in the "errors" member with status 200, as GraphQL clients expect.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		body := http.MaxBytesReader(w, r.Body, config.MaxBodyBytes())
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid GraphQL request body")
			return
		}
		if req.Query == "" {
			response.ValidationError(w, map[string]string{"query": "The query field is required."})
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        r.Context(),
		})
		if result.HasErrors() {
			logger.WithCtx(r.Context()).Debug("graphql errors", "errors", result.Errors)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithCtx(r.Context()).Warn("graphql: write response", "error", err)
		}
	}
}

// IntArg reads an optional Int argument.
func IntArg(p graphql.ResolveParams, name string, def int) int {
	if v, ok := p.Args[name].(int); ok {
		return v
	}
	return def
}

// StringArg reads an optional String argument.
func StringArg(p graphql.ResolveParams, name string) string {
	v, _ := p.Args[name].(string)
	return v
}
