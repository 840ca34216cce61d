// Package docs holds the OpenAPI document served by the Swagger UI.
// Keep it in sync with the handler annotations (swag init -g cmd/mbtid/docs.go).
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "mbtid maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "HTML page with the prediction form, or a JSON welcome when the client prefers JSON.",
                "produces": ["text/html", "application/json"],
                "tags": ["predict"],
                "summary": "Welcome page",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.WelcomeResponse"}}
                }
            }
        },
        "/predict": {
            "get": {
                "produces": ["application/json"],
                "tags": ["predict"],
                "summary": "Predict from a query parameter",
                "parameters": [
                    {"type": "string", "description": "Text to classify", "name": "message", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PredictResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Accepts urlencoded, multipart or JSON bodies. /predict renders the result page unless JSON is preferred; /api/predict always answers JSON.",
                "consumes": ["application/x-www-form-urlencoded", "multipart/form-data", "application/json"],
                "produces": ["text/html", "application/json"],
                "tags": ["predict"],
                "summary": "Predict from a form submission",
                "parameters": [
                    {"type": "string", "description": "Presentation-only name", "name": "name", "in": "formData"},
                    {"type": "string", "description": "Presentation-only country", "name": "country", "in": "formData"},
                    {"type": "string", "description": "Text to classify", "name": "message", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.FormPredictResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/predict": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded", "multipart/form-data", "application/json"],
                "produces": ["application/json"],
                "tags": ["predict"],
                "summary": "Predict from a form submission",
                "parameters": [
                    {"type": "string", "description": "Presentation-only name", "name": "name", "in": "formData"},
                    {"type": "string", "description": "Presentation-only country", "name": "country", "in": "formData"},
                    {"type": "string", "description": "Text to classify", "name": "message", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.FormPredictResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/labels": {
            "get": {
                "produces": ["application/json"],
                "tags": ["predict"],
                "summary": "List the personality type labels",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.LabelsResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Service status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.ArtifactEntry": {
            "type": "object",
            "properties": {
                "backend": {"type": "string", "example": "linear"},
                "dir": {"type": "string", "example": "/srv/mbtid/model"},
                "files": {"type": "array", "items": {"type": "string"}}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "description": {"type": "string", "example": "Bad Request. No message was provided."},
                "message": {"type": "string", "example": "Use the message parameter to make a GET request."}
            }
        },
        "types.FormPredictResponse": {
            "type": "object",
            "properties": {
                "country": {"type": "string", "example": "US"},
                "name": {"type": "string", "example": "Alice"},
                "prediction": {"type": "string", "example": "ENTJ (Extroversion, Intuition, Thinking, Judging)"}
            }
        },
        "types.Label": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "INTP"},
                "index": {"type": "integer", "example": 11},
                "label": {"type": "string", "example": "INTP (Introversion, Intuition, Thinking, Perceiving)"}
            }
        },
        "types.LabelsResponse": {
            "type": "object",
            "properties": {
                "labels": {"type": "array", "items": {"$ref": "#/definitions/types.Label"}}
            }
        },
        "types.PredictResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "I love quiet evenings with a good book."},
                "prediction": {"type": "string", "example": "INFP (Introversion, Intuition, Feeling, Perceiving)"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "artifact_dir": {"type": "string", "example": "/srv/mbtid/model"},
                "artifacts": {"type": "array", "items": {"$ref": "#/definitions/types.ArtifactEntry"}},
                "backend": {"type": "string", "example": "linear"},
                "failures_total": {"type": "integer", "example": 1},
                "last_error": {"type": "string"},
                "loaded_at_unix": {"type": "integer", "example": 1700000000},
                "predictions_total": {"type": "integer", "example": 42},
                "server_time_unix": {"type": "integer", "example": 1700000000},
                "state": {"type": "string", "example": "ready"},
                "uptime_seconds": {"type": "integer", "example": 3600}
            }
        },
        "types.WelcomeResponse": {
            "type": "object",
            "properties": {
                "description": {"type": "string", "example": "Welcome to the MBTI API!"},
                "message": {"type": "string", "example": "Use GET /predict?message=... or POST /api/predict with a form."}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "mbtid API",
	Description:      "Predicts a Myers-Briggs personality type from free text.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
