// Package docs holds the OpenAPI document registered with swaggo.
// Regenerate with `make swagger-gen` after changing API annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "summary": "Service health",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/adapters": {
            "get": {
                "produces": ["application/json"],
                "summary": "List available adapters",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "summary": "Service status",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/assistant": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Route a request by intent and generate a response",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/run/job_match": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Run the job_match adapter",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/run/resume_eval": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Run the resume_eval adapter",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/run/latex_resume": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Run the latex_resume adapter",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/run/recruiter_dialog": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Run the recruiter_dialog adapter",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
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
	Title:            "assistd API",
	Description:      "HTTP API for adapter-switching LLM assistance.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
