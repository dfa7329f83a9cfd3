package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "BimaPlus Portal API",
        "description": "Marketing site and back-office API for BimaPlus micro-insurance",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Sign-in, session and token lifecycle"},
        {"name": "Claims", "description": "Insurance claim submissions and workflow"},
        {"name": "Quotes", "description": "Quote requests and follow-up"},
        {"name": "Applications", "description": "Job applications"},
        {"name": "Whistleblowing", "description": "Misconduct reports"},
        {"name": "Contacts", "description": "Contact requests"},
        {"name": "Callbacks", "description": "Callback requests"},
        {"name": "News", "description": "News and announcements"},
        {"name": "Documents", "description": "Managed downloadable documents"},
        {"name": "Branches", "description": "Office locations"},
        {"name": "Users", "description": "Staff account administration"},
        {"name": "Exports", "description": "Register downloads"},
        {"name": "Ops", "description": "Probes and metrics"}
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in with email and password",
                "responses": {
                    "200": {"description": "Tokens issued"},
                    "401": {"description": "Invalid credentials"},
                    "403": {"description": "Account deactivated"}
                }
            }
        },
        "/auth/oauth": {
            "post": {
                "tags": ["Auth"],
                "summary": "Complete a provider-confirmed OAuth sign-in",
                "responses": {
                    "200": {"description": "Tokens issued"},
                    "403": {"description": "Identity not linked or account deactivated"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate a refresh token",
                "responses": {
                    "200": {"description": "New tokens"},
                    "401": {"description": "Token revoked, expired or unknown"}
                }
            }
        },
        "/auth/session": {
            "get": {
                "tags": ["Auth"],
                "summary": "Probe the current session",
                "responses": {
                    "200": {"description": "Session state"}
                }
            }
        },
        "/claims": {
            "post": {
                "tags": ["Claims"],
                "summary": "Submit an insurance claim",
                "responses": {
                    "201": {"description": "Claim recorded"},
                    "400": {"description": "Validation failed"},
                    "503": {"description": "Storage unavailable"}
                }
            },
            "get": {
                "tags": ["Claims"],
                "summary": "List claims",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Paginated claims"}
                }
            }
        },
        "/quotes": {
            "post": {
                "tags": ["Quotes"],
                "summary": "Request an insurance quote",
                "responses": {
                    "201": {"description": "Quote recorded"}
                }
            },
            "get": {
                "tags": ["Quotes"],
                "summary": "List quotes",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Paginated quotes"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List staff accounts",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Paginated users"}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create a staff account",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "User created"},
                    "403": {"description": "Role containment violated"}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["Ops"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Ops"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Storage unavailable"}
                }
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "error": {"type": "string"},
                "code": {"type": "string"},
                "pagination": {"$ref": "#/definitions/Pagination"}
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
