package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/nearmeconnect/internal/core/domain"
	"github.com/samirrijal/nearmeconnect/internal/core/ports"
)

type gqlCallerKey struct{}

// buildSchema creates the read-only GraphQL schema wired to our services.
// Field names follow the REST JSON names, which graphql-go resolves from
// struct json tags.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.Int},
			"name": &graphql.Field{Type: graphql.String},
		},
	})

	providerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Provider",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.Int},
			"user_id":       &graphql.Field{Type: graphql.Int},
			"category":      &graphql.Field{Type: categoryType},
			"bio":           &graphql.Field{Type: graphql.String},
			"phone":         &graphql.Field{Type: graphql.String},
			"address":       &graphql.Field{Type: graphql.String},
			"location":      &graphql.Field{Type: geoPointType},
			"profile_image": &graphql.Field{Type: graphql.String},
			"rating":        &graphql.Field{Type: graphql.Float},
			"name": &graphql.Field{
				Type:        graphql.String,
				Description: "Full name of the provider's user, or the username",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if prov, ok := p.Source.(domain.Provider); ok && prov.User != nil {
						return prov.User.DisplayName(), nil
					}
					if prov, ok := p.Source.(*domain.Provider); ok && prov.User != nil {
						return prov.User.DisplayName(), nil
					}
					return nil, nil
				},
			},
		},
	})

	reviewType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Review",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"customer_id": &graphql.Field{Type: graphql.Int},
			"provider_id": &graphql.Field{Type: graphql.Int},
			"rating":      &graphql.Field{Type: graphql.Int},
			"comment":     &graphql.Field{Type: graphql.String},
			"created_at":  &graphql.Field{Type: graphql.DateTime},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"categories": &graphql.Field{
				Type:        graphql.NewList(categoryType),
				Description: "List all service categories",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Categories.List(p.Context)
				},
			},
			"providers": &graphql.Field{
				Type:        graphql.NewList(providerType),
				Description: "List providers, optionally by category name",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					category, _ := p.Args["category"].(string)
					return deps.Providers.List(p.Context, ports.ProviderFilter{Category: category})
				},
			},
			"provider": &graphql.Field{
				Type:        providerType,
				Description: "Get a provider by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(int)
					return deps.Providers.Get(p.Context, int64(id))
				},
			},
			"reviews": &graphql.Field{
				Type:        graphql.NewList(reviewType),
				Description: "Reviews of a provider, or the caller's own when provider_id is omitted",
				Args: graphql.FieldConfigArgument{
					"provider_id": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					caller, _ := p.Context.Value(gqlCallerKey{}).(domain.Principal)
					var providerID *int64
					if id, ok := p.Args["provider_id"].(int); ok {
						pid := int64(id)
						providerID = &pid
					}
					return deps.Reviews.List(p.Context, caller, providerID)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint. Must run after RequireAuth.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil || req.Query == "" {
			return errBadRequest(c, "invalid request body")
		}

		ctx := c.UserContext()
		if caller, ok := principal(c); ok {
			ctx = context.WithValue(ctx, gqlCallerKey{}, caller)
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        ctx,
		})

		return c.JSON(result)
	}
}
