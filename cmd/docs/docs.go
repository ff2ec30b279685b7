// Package docs holds the OpenAPI description served under /swagger.
// Regenerate with: swag init -g cmd/fxengine/main.go -o cmd/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/currencies": {
            "get": {"tags": ["currencies"], "summary": "List all currencies", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/currencies/{code}": {
            "get": {"tags": ["currencies"], "summary": "Get a currency by code", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Currency not supported"}}}
        },
        "/rates": {
            "post": {"tags": ["exchange rates"], "summary": "Record a manual exchange rate", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}}
        },
        "/rates/daily": {
            "post": {"tags": ["exchange rates"], "summary": "Record a day's rates", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error"}}}
        },
        "/rates/{base}": {
            "get": {"tags": ["exchange rates"], "summary": "List a day's stored rates", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "base", "in": "path", "required": true},
                    {"type": "string", "name": "date", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid currency or date"}, "500": {"description": "Failed to list exchange rates"}}}
        },
        "/rates/{base}/{quote}": {
            "get": {"tags": ["exchange rates"], "summary": "Get an exchange rate", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "base", "in": "path", "required": true},
                    {"type": "string", "name": "quote", "in": "path", "required": true},
                    {"type": "string", "name": "date", "in": "query"},
                    {"type": "string", "name": "source", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "422": {"description": "No rate available"}}}
        },
        "/conversions": {
            "get": {"tags": ["conversions"], "summary": "List recorded conversions for an entity", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "entityID", "in": "query", "required": true}, {"type": "integer", "name": "limit", "in": "query"}, {"type": "string", "name": "nextToken", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid query"}}},
            "post": {"tags": ["conversions"], "summary": "Convert an amount", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "locale", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "No rate available"}}}
        },
        "/conversions/{conversionID}": {
            "get": {"tags": ["conversions"], "summary": "Get a recorded conversion", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "conversionID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Conversion not found"}}}
        },
        "/conversions/to-functional": {
            "post": {"tags": ["conversions"], "summary": "Express an amount in the functional currency", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/conversions/from-functional": {
            "post": {"tags": ["conversions"], "summary": "Express a functional amount in another currency", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/gain-loss/realized": {
            "post": {"tags": ["gain-loss"], "summary": "Calculate realized FX gain or loss", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/gain-loss/unrealized": {
            "post": {"tags": ["gain-loss"], "summary": "Calculate unrealized FX gain or loss", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/revaluations": {
            "post": {"tags": ["gain-loss"], "summary": "Revalue a batch of open positions", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/ledger/dual-amounts": {
            "post": {"tags": ["ledger"], "summary": "Build a dual-currency amount", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/ledger/aggregate": {
            "post": {"tags": ["ledger"], "summary": "Sum amounts in the functional currency", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/ledger/exposure": {
            "post": {"tags": ["ledger"], "summary": "Net foreign-currency exposure", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/ledger/trial-balance": {
            "post": {"tags": ["ledger"], "summary": "Multi-currency trial balance", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "FX Engine API",
	Description:      "Currency conversion, exchange-rate lookup, FX gain/loss and multi-currency ledger views.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
