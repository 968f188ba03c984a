// Package docs registers the Swagger description served at /swagger/*. Regenerate with `swag init -g cmd/api/main.go -o cmd/api/docs`.
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
        "/generate-quiz": {
            "post": {
                "description": "Builds a multiple-choice quiz from raw text or from a YouTube or course page URL",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "quiz"
                ],
                "summary": "Generate a quiz",
                "parameters": [
                    {
                        "description": "Content to generate a quiz from",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.GenerateQuizRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.GenerateQuizResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Liveness and cache status",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.HealthResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string",
                    "example": "Unsupported platform: https://example.com"
                }
            }
        },
        "dto.GenerateQuizRequest": {
            "description": "Content to turn into a quiz. inputType defaults to text.",
            "type": "object",
            "properties": {
                "data": {
                    "type": "string",
                    "example": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
                },
                "inputType": {
                    "type": "string",
                    "enum": [
                        "text",
                        "url"
                    ],
                    "example": "url"
                }
            }
        },
        "dto.GenerateQuizResponse": {
            "description": "Generated quiz",
            "type": "object",
            "properties": {
                "quiz": {
                    "$ref": "#/definitions/dto.QuizResponse"
                }
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "cache": {
                    "description": "Cache is empty when the extraction cache is disabled.",
                    "type": "string",
                    "example": "ok"
                },
                "status": {
                    "type": "string",
                    "example": "ok"
                }
            }
        },
        "dto.QuizQuestionResponse": {
            "type": "object",
            "properties": {
                "answer": {
                    "type": "string",
                    "example": "Amazon Web Services"
                },
                "options": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "question": {
                    "type": "string",
                    "example": "What is AWS?"
                }
            }
        },
        "dto.QuizResponse": {
            "type": "object",
            "properties": {
                "questions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.QuizQuestionResponse"
                    }
                },
                "topic": {
                    "type": "string",
                    "example": "AI-Generated Quiz"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Quiz Gen API",
	Description:      "Generates multiple-choice quizzes from text, YouTube transcripts and course pages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
