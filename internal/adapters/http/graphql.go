package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
)

// pointArgs reads optional lat/lon arguments. Both absent selects the
// default location.
func pointArgs(args map[string]interface{}) (domain.GeoPoint, error) {
	lat, hasLat := args["lat"].(float64)
	lon, hasLon := args["lon"].(float64)
	switch {
	case !hasLat && !hasLon:
		return domain.DefaultQueryLocation, nil
	case hasLat != hasLon:
		return domain.GeoPoint{}, errors.New("lat and lon must be given together")
	}
	return domain.GeoPoint{Lat: lat, Lon: lon}, nil
}

func radiusArg(args map[string]interface{}) (float64, error) {
	r, ok := args["radius"].(float64)
	if !ok {
		return 0, nil
	}
	if err := checkRadius(r); err != nil {
		return 0, err
	}
	return r, nil
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	stationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TransitStation",
		Fields: graphql.Fields{
			"name":     &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: geoPointType},
			"line":     &graphql.Field{Type: graphql.String},
			"color":    &graphql.Field{Type: graphql.String},
		},
	})

	landmarkType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Landmark",
		Fields: graphql.Fields{
			"name":     &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: geoPointType},
			"category": &graphql.Field{Type: graphql.String},
			"icon":     &graphql.Field{Type: graphql.String},
		},
	})

	valuationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Valuation",
		Fields: graphql.Fields{
			"query":           &graphql.Field{Type: geoPointType},
			"station":         &graphql.Field{Type: stationType},
			"distance_meters": &graphql.Field{Type: graphql.Float},
			"price":           &graphql.Field{Type: graphql.Float, Description: "THB per square wah"},
			"tier":            &graphql.Field{Type: graphql.String},
			"tier_label":      &graphql.Field{Type: graphql.String},
			"premium_line":    &graphql.Field{Type: graphql.Boolean},
		},
	})

	nearbyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearbyLandmark",
		Fields: graphql.Fields{
			"landmark":        &graphql.Field{Type: landmarkType},
			"distance_meters": &graphql.Field{Type: graphql.Float},
		},
	})

	analysisType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Analysis",
		Fields: graphql.Fields{
			"valuation":     &graphql.Field{Type: valuationType},
			"landmarks":     &graphql.Field{Type: graphql.NewList(nearbyType)},
			"radius_meters": &graphql.Field{Type: graphql.Float},
		},
	})

	pointArgsConfig := func(withRadius bool) graphql.FieldConfigArgument {
		args := graphql.FieldConfigArgument{
			"lat": &graphql.ArgumentConfig{Type: graphql.Float},
			"lon": &graphql.ArgumentConfig{Type: graphql.Float},
		}
		if withRadius {
			args["radius"] = &graphql.ArgumentConfig{Type: graphql.Float, Description: "meters, defaults to the configured radius"}
		}
		return args
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"valuation": &graphql.Field{
				Type:        valuationType,
				Description: "Estimate land price from distance to the nearest station",
				Args:        pointArgsConfig(false),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q, err := pointArgs(p.Args)
					if err != nil {
						return nil, err
					}
					return deps.Analysis.Valuation().Estimate(p.Context, q)
				},
			},
			"nearbyLandmarks": &graphql.Field{
				Type:        graphql.NewList(nearbyType),
				Description: "Landmarks within a radius, closest first",
				Args:        pointArgsConfig(true),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q, err := pointArgs(p.Args)
					if err != nil {
						return nil, err
					}
					r, err := radiusArg(p.Args)
					if err != nil {
						return nil, err
					}
					return deps.Analysis.Landmarks().Nearby(p.Context, q, r)
				},
			},
			"analysis": &graphql.Field{
				Type:        analysisType,
				Description: "Valuation and nearby landmarks for one point",
				Args:        pointArgsConfig(true),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q, err := pointArgs(p.Args)
					if err != nil {
						return nil, err
					}
					r, err := radiusArg(p.Args)
					if err != nil {
						return nil, err
					}
					return deps.Analysis.Analyze(p.Context, q, r)
				},
			},
			"stations": &graphql.Field{
				Type:        graphql.NewList(stationType),
				Description: "Transit stations, optionally filtered by line",
				Args: graphql.FieldConfigArgument{
					"line": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					stations := deps.Analysis.Valuation().Stations()
					line, _ := p.Args["line"].(string)
					if line == "" {
						return stations, nil
					}
					var out []domain.TransitStation
					for _, s := range stations {
						if strings.Contains(strings.ToLower(s.Line), strings.ToLower(line)) {
							out = append(out, s)
						}
					}
					return out, nil
				},
			},
			"landmarks": &graphql.Field{
				Type:        graphql.NewList(landmarkType),
				Description: "Landmarks, optionally filtered by category",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					landmarks := deps.Analysis.Landmarks().Landmarks()
					cat, _ := p.Args["category"].(string)
					if cat == "" {
						return landmarks, nil
					}
					category, ok := parseCategory(cat)
					if !ok {
						return nil, errors.New("unknown category: " + cat)
					}
					var out []domain.Landmark
					for _, l := range landmarks {
						if l.Category == category {
							out = append(out, l)
						}
					}
					return out, nil
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
			return errBadRequest(c, "invalid request body")
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
