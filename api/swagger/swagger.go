package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Calendar Builder API",
        "description": "Lecture calendars built from the university open-data timetables",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Calendars", "description": "Teaching selection and calendar export"},
        {"name": "Cache", "description": "Datastore response cache"}
    ],
    "paths": {
        "/curricula": {
            "get": {
                "tags": ["Calendars"],
                "summary": "List the curricula of a degree course",
                "parameters": [
                    {"name": "course", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No curriculum", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/lectures": {
            "get": {
                "tags": ["Calendars"],
                "summary": "List the lectures of the selected teachings",
                "parameters": [
                    {"name": "curriculum", "in": "query", "type": "string"},
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "teaching", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "fork", "in": "query", "type": "string"},
                    {"name": "inactive", "in": "query", "type": "boolean"},
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"},
                    {"name": "coordinates", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No teaching matches", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Forked teaching needs a fork hint", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/calendar": {
            "get": {
                "tags": ["Calendars"],
                "summary": "Download the calendar of the selected teachings",
                "produces": ["text/calendar", "text/csv", "application/pdf"],
                "parameters": [
                    {"name": "curriculum", "in": "query", "type": "string"},
                    {"name": "course", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "teaching", "in": "query", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "fork", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string", "format": "date"},
                    {"name": "to", "in": "query", "type": "string", "format": "date"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["ics", "csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Calendar file", "schema": {"type": "file"}}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Calendars"],
                "summary": "Store a calendar and return a signed download link",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CalendarQuery"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/download": {
            "get": {
                "tags": ["Calendars"],
                "summary": "Download a stored calendar via signed token",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Calendar file", "schema": {"type": "file"}},
                    "404": {"description": "Expired export", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cache": {
            "delete": {
                "tags": ["Cache"],
                "summary": "Drop every cached datastore response",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Shared cache unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CalendarQuery": {
            "type": "object",
            "properties": {
                "course": {"type": "string"},
                "curriculum": {"type": "string"},
                "year": {"type": "integer"},
                "teachings": {"type": "array", "items": {"type": "string"}},
                "fork": {"type": "string"},
                "inactive": {"type": "boolean"},
                "from": {"type": "string", "format": "date"},
                "to": {"type": "string", "format": "date"},
                "coordinates": {"type": "boolean"},
                "format": {"type": "string", "enum": ["ics", "csv", "pdf"]},
                "file_name": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
