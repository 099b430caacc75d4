// Package docs регистрирует описание операторского API для gin-swagger.
// Формат совпадает с выводом swag init, поэтому файл можно перегенерировать:
// swag init -g cmd/homework-bot/main.go
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
        "/api/auth/login": {
            "post": {
                "description": "Получение JWT токена по логину и паролю из конфигурации",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Аутентификация оператора",
                "parameters": [
                    {
                        "description": "Данные для аутентификации",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/health": {
            "get": {
                "description": "Проверяет доступность Telegram API",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Проверка состояния сервиса",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/notifications": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Последние уведомления",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.NotificationsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/notifications/sent": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Отправленные уведомления",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.SentNotificationsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/api/status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["status"],
                "summary": "Статус цикла опроса",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StatusResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "error_type": {"type": "string", "example": "Bad Request"},
                "message": {"type": "string", "example": "Invalid request parameters"},
                "status_code": {"type": "integer", "example": 400},
                "success": {"type": "boolean", "example": false}
            }
        },
        "api.HealthResponse": {
            "type": "object",
            "properties": {
                "app": {"type": "string", "example": "homework-bot"},
                "status": {"type": "string", "example": "ok"},
                "timestamp": {"type": "string", "example": "2024-01-01T12:00:00Z"},
                "version": {"type": "string", "example": "1.0.0"}
            }
        },
        "api.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string", "example": "secure_password"},
                "username": {"type": "string", "example": "admin"}
            }
        },
        "api.LoginResponse": {
            "type": "object",
            "properties": {
                "expires_at": {"type": "string", "example": "2024-01-01T12:00:00Z"},
                "success": {"type": "boolean", "example": true},
                "token": {"type": "string"},
                "token_type": {"type": "string", "example": "Bearer"}
            }
        },
        "api.NotificationsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"type": "object"}
            }
        },
        "api.SentNotificationsResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"type": "object"}
            }
        },
        "api.StatusResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"type": "object"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Homework status bot API",
	Description:      "Операторское API бота уведомлений о статусе проверки домашних работ",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
