// Package docs holds the OpenAPI description served under /swagger when
// SWAGGER_ENABLED is set. Regenerate with:
//
//	swag init -g cmd/dailyquote/main.go -o docs
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
        "/comments": {
            "get": {
                "description": "Newest first. Hidden and deleted comments are never returned. Supports weak ETag via If-None-Match.",
                "produces": ["application/json"],
                "tags": ["Comments"],
                "summary": "List visible comments of a quote",
                "operationId": "listComments",
                "parameters": [
                    {"maxLength": 128, "minLength": 3, "type": "string", "description": "Quote id", "name": "quoteId", "in": "query", "required": true},
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListCommentsResponse"}, "headers": {"ETag": {"type": "string", "description": "Weak ETag for the visible thread"}}},
                    "304": {"description": "Not Modified", "schema": {"type": "string"}},
                    "400": {"description": "Invalid quote id", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Runs the submission pipeline: schema, honeypot, human verification, link limit, abuse window, duplicate check.\nA retry carrying the same Idempotency-Key from the same client returns the original comment with 200.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Comments"],
                "summary": "Post a comment",
                "operationId": "postComment",
                "parameters": [
                    {"type": "string", "description": "Key for safe retries", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Comment payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.PostCommentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Replayed", "schema": {"$ref": "#/definitions/handlers.PostCommentResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.PostCommentResponse"}},
                    "400": {"description": "invalid, bot or too_many_links", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "403": {"description": "bot_check_failed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "duplicate", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "rate_limited", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/report": {
            "post": {
                "description": "Stores the report for moderators. The comment itself is not changed.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Report a comment",
                "operationId": "submitReport",
                "parameters": [
                    {"description": "Report payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ReportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.OKResponse"}},
                    "400": {"description": "invalid", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "429": {"description": "rate_limited", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/track": {
            "post": {
                "description": "Best effort: storage failures are not reported to the caller.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tracking"],
                "summary": "Record a usage event",
                "operationId": "track",
                "parameters": [
                    {"description": "Event", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.TrackRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.OKResponse"}},
                    "400": {"description": "invalid", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/quote/today": {
            "get": {
                "description": "Deterministic for the calendar day in the site timezone.",
                "produces": ["application/json"],
                "tags": ["Quotes"],
                "summary": "Quote of the day",
                "operationId": "todayQuote",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/quotes.Pick"}},
                    "503": {"description": "No quotes loaded", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/quote/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Quotes"],
                "summary": "Look a quote up by id",
                "operationId": "getQuote",
                "parameters": [
                    {"type": "string", "example": "3f2a9c1b7d4e", "description": "Quote id (12 hex chars)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.QuoteResponse"}},
                    "404": {"description": "Unknown id", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/quotes/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Quotes"],
                "summary": "Recent daily quotes",
                "operationId": "quoteHistory",
                "parameters": [
                    {"maximum": 60, "minimum": 1, "type": "integer", "default": 14, "description": "Number of days", "name": "days", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HistoryResponse"}},
                    "503": {"description": "No quotes loaded", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/admin/comments": {
            "get": {
                "security": [{"AdminBearer": []}],
                "description": "Scope today resolves to the current daily quote unless quoteId is given.",
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Moderation listing",
                "operationId": "adminListComments",
                "parameters": [
                    {"type": "string", "default": "today", "description": "today | reported | all | hidden | deleted", "name": "scope", "in": "query"},
                    {"type": "string", "description": "Substring of body or display name", "name": "q", "in": "query"},
                    {"type": "string", "description": "Restrict to one quote", "name": "quoteId", "in": "query"},
                    {"type": "string", "description": "Inclusive lower bound (RFC 3339 or unix ms)", "name": "since", "in": "query"},
                    {"type": "string", "description": "Inclusive upper bound (RFC 3339 or unix ms)", "name": "until", "in": "query"},
                    {"type": "string", "description": "nextCursor of the previous page", "name": "cursor", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 50, "description": "Page size", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.ListResult"}},
                    "400": {"description": "invalid", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/admin/comments/action": {
            "post": {
                "security": [{"AdminBearer": []}],
                "description": "Idempotent: repeating an action succeeds with changed=false. Every call is audited.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Apply a moderation action",
                "operationId": "adminAction",
                "parameters": [
                    {"description": "Action", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.AdminActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.AdminActionResponse"}},
                    "400": {"description": "invalid or unknown_action", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/admin/comments/hide": {
            "post": {
                "security": [{"AdminBearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Hide or unhide a comment",
                "operationId": "adminHide",
                "parameters": [
                    {"description": "Hide flag", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.AdminHideRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.AdminActionResponse"}},
                    "400": {"description": "invalid", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/admin/reports": {
            "get": {
                "security": [{"AdminBearer": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Latest reports",
                "operationId": "adminReports",
                "parameters": [
                    {"maximum": 200, "minimum": 1, "type": "integer", "default": 200, "description": "Max rows", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.AdminReportsResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/admin/comments/{id}/history": {
            "get": {
                "security": [{"AdminBearer": []}],
                "description": "Oldest first. Purged comments keep their trail.",
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Audit trail of a comment",
                "operationId": "adminHistory",
                "parameters": [
                    {"type": "string", "description": "Comment ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.AdminHistoryResponse"}},
                    "400": {"description": "invalid", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/admin/events": {
            "get": {
                "security": [{"AdminBearer": []}],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Read a daily usage counter",
                "operationId": "adminEventCount",
                "parameters": [
                    {"type": "string", "description": "view_quote | share | copy_link | post_ok | post_blocked", "name": "event", "in": "query", "required": true},
                    {"type": "string", "description": "Quote the counter is keyed on; empty for quote-less events", "name": "quoteId", "in": "query"},
                    {"type": "integer", "description": "Day as YYYYMMDD; defaults to today in the site zone", "name": "ymd", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.EventCount"}},
                    "400": {"description": "invalid", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.AdminAction": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "admin_hash": {"type": "string"},
                "action": {"type": "string"},
                "comment_id": {"type": "string"},
                "quote_id": {"type": "string"},
                "meta": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.Comment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "quote_id": {"type": "string"},
                "parent_id": {"type": "string"},
                "body": {"type": "string"},
                "display_name": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "score": {"type": "integer"},
                "hidden": {"type": "boolean"},
                "deleted_at": {"type": "string"}
            }
        },
        "domain.Quote": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "quote": {"type": "string"},
                "source": {"type": "string"},
                "translationAuthor": {"type": "string"},
                "translationSource": {"type": "string"},
                "topComment": {"type": "string"}
            }
        },
        "handlers.AdminActionRequest": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["hide", "unhide", "delete", "restore", "purge"], "example": "hide"},
                "commentId": {"type": "string", "example": "141add05-4415-4938-b5a1-17e0d3171aff"}
            }
        },
        "handlers.AdminActionResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": true},
                "changed": {"type": "boolean", "example": true}
            }
        },
        "handlers.AdminHideRequest": {
            "type": "object",
            "properties": {
                "commentId": {"type": "string", "example": "141add05-4415-4938-b5a1-17e0d3171aff"},
                "hide": {"type": "boolean", "example": true}
            }
        },
        "handlers.AdminHistoryResponse": {
            "type": "object",
            "properties": {
                "actions": {"type": "array", "items": {"$ref": "#/definitions/domain.AdminAction"}}
            }
        },
        "handlers.AdminReportsResponse": {
            "type": "object",
            "properties": {
                "reports": {"type": "array", "items": {"$ref": "#/definitions/repo.ReportRow"}}
            }
        },
        "handlers.CommentView": {
            "type": "object",
            "allOf": [{"$ref": "#/definitions/domain.Comment"}],
            "properties": {
                "body_html": {"type": "string", "example": "<p>So true.</p>"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"},
                "code": {"type": "string", "example": "invalid"},
                "message": {"type": "string", "example": "body must be 2 to 800 characters"}
            }
        },
        "handlers.HistoryResponse": {
            "type": "object",
            "properties": {
                "days": {"type": "array", "items": {"$ref": "#/definitions/quotes.Pick"}}
            }
        },
        "handlers.ListCommentsResponse": {
            "type": "object",
            "properties": {
                "comments": {"type": "array", "items": {"$ref": "#/definitions/handlers.CommentView"}}
            }
        },
        "handlers.OKResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": true}
            }
        },
        "handlers.PostCommentRequest": {
            "type": "object",
            "properties": {
                "quoteId": {"type": "string", "example": "3f2a9c1b7d4e"},
                "body": {"type": "string", "example": "So true."},
                "parentId": {"type": "string"},
                "displayName": {"type": "string", "example": "Ada"},
                "turnstileToken": {"type": "string", "example": "0.abcdef"},
                "honeypot": {"type": "string"}
            }
        },
        "handlers.PostCommentResponse": {
            "type": "object",
            "properties": {
                "ok": {"type": "boolean", "example": true},
                "id": {"type": "string", "example": "141add05-4415-4938-b5a1-17e0d3171aff"},
                "created_at": {"type": "integer", "example": 1735732800000}
            }
        },
        "handlers.QuoteResponse": {
            "type": "object",
            "properties": {
                "quote": {"$ref": "#/definitions/domain.Quote"}
            }
        },
        "handlers.ReportRequest": {
            "type": "object",
            "properties": {
                "commentId": {"type": "string", "example": "141add05-4415-4938-b5a1-17e0d3171aff"},
                "quoteId": {"type": "string", "example": "3f2a9c1b7d4e"},
                "reason": {"type": "string", "enum": ["spam", "abuse", "offtopic", "other"], "example": "spam"},
                "details": {"type": "string"}
            }
        },
        "handlers.TrackRequest": {
            "type": "object",
            "properties": {
                "event": {"type": "string", "enum": ["view_quote", "share", "copy_link", "post_ok", "post_blocked"], "example": "view_quote"},
                "quoteId": {"type": "string", "example": "3f2a9c1b7d4e"}
            }
        },
        "quotes.Pick": {
            "type": "object",
            "properties": {
                "quote": {"$ref": "#/definitions/domain.Quote"},
                "index": {"type": "integer"},
                "dateYmd": {"type": "integer"},
                "tz": {"type": "string"}
            }
        },
        "repo.ReportRow": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "comment_id": {"type": "string"},
                "quote_id": {"type": "string"},
                "reason": {"type": "string"},
                "details": {"type": "string"},
                "created_at": {"type": "string"},
                "body": {"type": "string"},
                "display_name": {"type": "string"},
                "hidden": {"type": "boolean"}
            }
        },
        "services.AdminItem": {
            "type": "object",
            "allOf": [{"$ref": "#/definitions/domain.Comment"}],
            "properties": {
                "reports_count": {"type": "integer"},
                "quote_preview": {"type": "string"},
                "quote_source": {"type": "string"}
            }
        },
        "services.ListResult": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/services.AdminItem"}},
                "nextCursor": {"type": "string"}
            }
        },
        "services.EventCount": {
            "type": "object",
            "properties": {
                "ymd": {"type": "integer", "example": 20250101},
                "event": {"type": "string", "example": "share"},
                "quoteId": {"type": "string", "example": "3f2a9c1b7d4e"},
                "n": {"type": "integer", "example": 12}
            }
        }
    },
    "securityDefinitions": {
        "AdminBearer": {
            "description": "\"Bearer <ADMIN_SECRET>\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Daily Quote API",
	Description:      "One quote per day, with a moderated comment thread.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
