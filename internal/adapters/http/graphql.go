package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/busticket/internal/core/usecases"
)

// buildSchema creates the GraphQL schema wired to our services.
// Field names follow the JSON tags of the domain types.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"display":    &graphql.Field{Type: graphql.String},
			"city_name":  &graphql.Field{Type: graphql.String},
			"slug":       &graphql.Field{Type: graphql.String},
			"state":      &graphql.Field{Type: graphql.String},
			"country":    &graphql.Field{Type: graphql.String},
			"popularity": &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
		},
	})

	endpointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Endpoint",
		Fields: graphql.Fields{
			"city":     &graphql.Field{Type: graphql.String},
			"terminal": &graphql.Field{Type: graphql.String},
			"time":     &graphql.Field{Type: graphql.String},
			"date":     &graphql.Field{Type: graphql.String},
		},
	})

	priceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Price",
		Fields: graphql.Fields{
			"current":   &graphql.Field{Type: graphql.Int},
			"original":  &graphql.Field{Type: graphql.Int},
			"formatted": &graphql.Field{Type: graphql.String},
		},
	})

	tripType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Trip",
		Fields: graphql.Fields{
			"id":                  &graphql.Field{Type: graphql.String},
			"serviceName":         &graphql.Field{Type: graphql.String},
			"serviceType":         &graphql.Field{Type: graphql.String},
			"departure":           &graphql.Field{Type: endpointType},
			"arrival":             &graphql.Field{Type: endpointType},
			"duration":            &graphql.Field{Type: graphql.String},
			"price":               &graphql.Field{Type: priceType},
			"availableSeats":      &graphql.Field{Type: graphql.Int},
			"amenities":           &graphql.Field{Type: graphql.NewList(graphql.String)},
			"badges":              &graphql.Field{Type: graphql.NewList(graphql.String)},
			"lineId":              &graphql.Field{Type: graphql.String},
			"allowsSeatSelection": &graphql.Field{Type: graphql.Boolean},
		},
	})

	searchResultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SearchResult",
		Fields: graphql.Fields{
			"origin":       &graphql.Field{Type: graphql.String},
			"destination":  &graphql.Field{Type: graphql.String},
			"date":         &graphql.Field{Type: graphql.String},
			"trips":        &graphql.Field{Type: graphql.NewList(tripType)},
			"totalResults": &graphql.Field{Type: graphql.Int},
		},
	})

	seatType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Seat",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.String},
			"row":    &graphql.Field{Type: graphql.Int},
			"column": &graphql.Field{Type: graphql.String},
			"status": &graphql.Field{Type: graphql.String},
			"price":  &graphql.Field{Type: graphql.Int},
			"type":   &graphql.Field{Type: graphql.String},
		},
	})

	seatMapType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SeatMap",
		Fields: graphql.Fields{
			"tripId":         &graphql.Field{Type: graphql.String},
			"seats":          &graphql.Field{Type: graphql.NewList(seatType)},
			"totalSeats":     &graphql.Field{Type: graphql.Int},
			"availableSeats": &graphql.Field{Type: graphql.Int},
			"isMock":         &graphql.Field{Type: graphql.Boolean},
		},
	})

	destinationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Destination",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.Int},
			"name":     &graphql.Field{Type: graphql.String},
			"image":    &graphql.Field{Type: graphql.String},
			"from":     &graphql.Field{Type: graphql.String},
			"price":    &graphql.Field{Type: graphql.Int},
			"currency": &graphql.Field{Type: graphql.String},
		},
	})

	serviceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Service",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.Int},
			"name": &graphql.Field{Type: graphql.String},
			"logo": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"places": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "List or search cities",
				Args: graphql.FieldConfigArgument{
					"q":        &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"prefetch": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q, _ := p.Args["q"].(string)
					prefetch, _ := p.Args["prefetch"].(bool)
					return deps.Places.List(p.Context, q, prefetch), nil
				},
			},
			"searchTrips": &graphql.Field{
				Type:        searchResultType,
				Description: "Search trips between two places",
				Args: graphql.FieldConfigArgument{
					"origin":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"destination": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"date":        &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					origin := p.Args["origin"].(string)
					destination := p.Args["destination"].(string)
					date, _ := p.Args["date"].(string)
					return deps.Search.Search(p.Context, origin, destination, date)
				},
			},
			"seats": &graphql.Field{
				Type:        seatMapType,
				Description: "Seat map of a trip",
				Args: graphql.FieldConfigArgument{
					"tripId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Seats.Seats(p.Context, p.Args["tripId"].(string))
				},
			},
			"destinations": &graphql.Field{
				Type:        graphql.NewList(destinationType),
				Description: "Featured destinations",
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: usecases.DefaultDestinationLimit},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit, _ := p.Args["limit"].(int)
					destinations, _ := deps.Catalog.Destinations(limit)
					return destinations, nil
				},
			},
			"services": &graphql.Field{
				Type:        graphql.NewList(serviceType),
				Description: "Company services",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Catalog.Services(), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
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
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, msgInvalidBody)
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
