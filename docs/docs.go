// Package docs holds the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
        "/auth/register": {
            "post": {
                "description": "Create a free account with email and password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Register an account",
                "parameters": [
                    {"description": "Registration details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Account created", "schema": {"$ref": "#/definitions/dto.RegisterResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "User already exists or server error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "description": "Authenticate with email and password and receive a session token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "User login",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Session token", "schema": {"$ref": "#/definitions/dto.LoginResponse"}},
                    "400": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/youtube/getVideoInfo": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Proxies YouTube Data API videos.list with the caller's key. Free accounts get 3 successful lookups.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["YouTube"],
                "summary": "Get video metadata",
                "parameters": [
                    {"description": "Video URL and YouTube API key", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.VideoInfoRequest"}}
                ],
                "responses": {
                    "200": {"description": "Upstream payload, unmodified", "schema": {"type": "object"}},
                    "400": {"description": "Missing fields or invalid URL", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "402": {"description": "Free limit reached", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "504": {"description": "Upstream timeout", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/account": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Subscription state and remaining free lookups for the token holder",
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Current account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AccountResponse"}},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/paywall/plans": {
            "get": {
                "description": "Static plan list shown once the free lookups are used up",
                "produces": ["application/json"],
                "tags": ["Paywall"],
                "summary": "Paywall plans",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/paywall.Payload"}}
                }
            }
        }
    },
    "definitions": {
        "dto.RegisterRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "maxLength": 72, "minLength": 6}
            }
        },
        "dto.RegisterResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "string"}
            }
        },
        "dto.VideoInfoRequest": {
            "type": "object",
            "required": ["youtubeUrl", "userApiKey"],
            "properties": {
                "youtubeUrl": {"type": "string"},
                "userApiKey": {"type": "string"}
            }
        },
        "dto.AccountResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "subscription_status": {"type": "string"},
                "subscription_ends_at": {"type": "string"},
                "paid": {"type": "boolean"},
                "usage_count": {"type": "integer"},
                "free_limit": {"type": "integer"},
                "remaining": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "paywall.Plan": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "string"},
                "period": {"type": "string"},
                "note": {"type": "string"},
                "featured": {"type": "boolean"}
            }
        },
        "paywall.Payload": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "message": {"type": "string"},
                "plans": {"type": "array", "items": {"$ref": "#/definitions/paywall.Plan"}},
                "checkout_url": {"type": "string"}
            }
        },
        "utils.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"$ref": "#/definitions/utils.ErrorDetail"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the session token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "ytgate API",
	Description:      "YouTube metadata proxy with an account gate and a free-tier quota.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
