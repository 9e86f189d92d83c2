package handlers

import (
	"encoding/json"
	"net/http"
)

func queryParam(name, description, typ string, required bool) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"in":          "query",
		"description": description,
		"required":    required,
		"schema":      map[string]string{"type": typ},
	}
}

func listResponse(properties map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"200": map[string]interface{}{
			"description": "Successful response",
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{
					"schema": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"data": map[string]interface{}{
								"type": "array",
								"items": map[string]interface{}{
									"type":       "object",
									"properties": properties,
								},
							},
							"total": map[string]string{"type": "integer"},
						},
					},
				},
			},
		},
	}
}

func typed(t string) map[string]string {
	return map[string]string{"type": t}
}

// OpenAPISpec returns the OpenAPI 3.0 specification for the model inspection API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "Energy Model Database API",
			"description": "Read-only inspection of a built energy-system model database",
			"version":     "1.0.0",
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/technologies": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "List technologies",
					"description": "Technology registry rows ordered by name",
					"parameters": []map[string]interface{}{
						queryParam("sector", "Filter by sector (generation, storage, import, distribution)", "string", false),
					},
					"responses": listResponse(map[string]interface{}{
						"tech":          typed("string"),
						"flag":          typed("string"),
						"sector":        typed("string"),
						"tech_desc":     typed("string"),
						"tech_category": typed("string"),
						"unlim_cap":     map[string]interface{}{"type": "integer", "nullable": true},
					}),
				},
			},
			"/api/efficiency": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "List efficiency rows",
					"description": "Efficiency per region, technology, and vintage",
					"parameters": []map[string]interface{}{
						queryParam("region", "Filter by region", "string", false),
						queryParam("tech", "Filter by technology name", "string", false),
					},
					"responses": listResponse(map[string]interface{}{
						"regions":     typed("string"),
						"input_comm":  typed("string"),
						"tech":        typed("string"),
						"vintage":     typed("integer"),
						"output_comm": typed("string"),
						"efficiency":  typed("number"),
						"eff_notes":   typed("string"),
					}),
				},
			},
			"/api/costs/variable": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "List variable costs",
					"description": "Variable cost per region, period, technology, and vintage",
					"parameters": []map[string]interface{}{
						queryParam("region", "Filter by region", "string", false),
						queryParam("tech", "Filter by technology name", "string", false),
						queryParam("period", "Filter by model period (year)", "integer", false),
					},
					"responses": listResponse(map[string]interface{}{
						"regions":             typed("string"),
						"periods":             typed("integer"),
						"tech":                typed("string"),
						"vintage":             typed("integer"),
						"cost_variable":       typed("number"),
						"cost_variable_units": typed("string"),
						"cost_variable_notes": typed("string"),
					}),
				},
			},
			"/api/demand/distribution": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Demand distribution of a region",
					"description": "Hourly demand fractions ordered by hour of year",
					"parameters": []map[string]interface{}{
						queryParam("region", "Region name", "string", true),
					},
					"responses": listResponse(map[string]interface{}{
						"hour":        typed("integer"),
						"season":      typed("string"),
						"time_of_day": typed("string"),
						"demand":      typed("string"),
						"fraction":    typed("number"),
					}),
				},
			},
			"/api/tables": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Table row counts",
					"description": "Number of rows in every output table",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Map of table name to row count",
							"content": map[string]interface{}{
								"application/json": map[string]interface{}{
									"schema": map[string]interface{}{
										"type":                 "object",
										"additionalProperties": typed("integer"),
									},
								},
							},
						},
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Health check",
					"description": "Check the API and its database",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{"description": "API is healthy"},
						"503": map[string]interface{}{"description": "Database is unreachable"},
					},
				},
			},
			"/metrics": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": map[string]interface{}{
						"200": map[string]interface{}{
							"description": "Prometheus metrics in text format",
							"content": map[string]interface{}{
								"text/plain": map[string]interface{}{
									"schema": typed("string"),
								},
							},
						},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
