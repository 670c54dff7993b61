// Package docs holds the swagger document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "schemes": {{ marshal .Schemes }},
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/ui": {
            "get": {
                "tags": [
                    "host"
                ],
                "summary": "Initial panel state for a generation tab",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "tab",
                        "description": "txt2img or img2img",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ports.UIState"
                        }
                    },
                    "400": {
                        "description": "Invalid tab",
                        "schema": {
                            "$ref": "#/definitions/ports.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/components": {
            "post": {
                "tags": [
                    "host"
                ],
                "summary": "Report a host component as it is created",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "description": "Component element id",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/http.ComponentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ports.MessageResponse"
                        }
                    }
                }
            }
        },
        "/process": {
            "post": {
                "tags": [
                    "host"
                ],
                "summary": "Rewrite a generation batch with the selected style",
                "description": "Returns the batch with prompts rewritten and style metadata added. Disabled requests come back unchanged.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "description": "In-flight batch",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ports.GenerationRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ports.GenerationRequest"
                        }
                    }
                }
            }
        },
        "/styles": {
            "get": {
                "tags": [
                    "styles"
                ],
                "summary": "List styles in a category",
                "description": "Sorted style names. The show-all category lists every style; an empty category lists unassigned styles.",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "category",
                        "description": "Category key",
                        "required": false,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.StyleListResponse"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "styles"
                ],
                "summary": "Add a style",
                "description": "Image is optional base64 data; it is stored as PNG.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "description": "Style data",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ports.AddStyleRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    },
                    "400": {
                        "description": "Empty name",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    },
                    "409": {
                        "description": "Duplicate name",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    },
                    "422": {
                        "description": "Unreadable image",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "styles"
                ],
                "summary": "Update a style",
                "description": "Replaces templates and category. The image is replaced only when one is supplied.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "description": "Style data",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ports.ModifyStyleRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "styles"
                ],
                "summary": "Delete a style",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "description": "Style and the category it is listed under",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ports.DeleteStyleRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    }
                }
            }
        },
        "/styles/details": {
            "get": {
                "tags": [
                    "styles"
                ],
                "summary": "Get style details",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "name",
                        "description": "Style name",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.StyleDetailsResponse"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/http.StyleDetailsResponse"
                        }
                    }
                }
            }
        },
        "/styles/image": {
            "get": {
                "tags": [
                    "styles"
                ],
                "summary": "Get a style's preview image",
                "produces": [
                    "image/png"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "name",
                        "description": "Style name",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "PNG image",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "404": {
                        "description": "No preview image",
                        "schema": {
                            "$ref": "#/definitions/ports.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/styles/apply": {
            "post": {
                "tags": [
                    "prompts"
                ],
                "summary": "Compose a style into prompt text",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "description": "Style and prompts",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ports.ApplyStyleRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.PromptsResponse"
                        }
                    }
                }
            }
        },
        "/prompts/extract": {
            "post": {
                "tags": [
                    "prompts"
                ],
                "summary": "Copy generation prompts into the style form",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "description": "Current prompts",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ports.ApplyStyleRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.PromptsResponse"
                        }
                    }
                }
            }
        },
        "/prompts/clear": {
            "post": {
                "tags": [
                    "prompts"
                ],
                "summary": "Clear the positive or negative prompt box",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "target",
                        "description": "positive or negative",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.ClearPromptResponse"
                        }
                    },
                    "400": {
                        "description": "Unknown target",
                        "schema": {
                            "$ref": "#/definitions/ports.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/categories": {
            "get": {
                "tags": [
                    "categories"
                ],
                "summary": "List categories",
                "description": "Category keys in stored order, without the show-all sentinel.",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.CategoryListResponse"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "categories"
                ],
                "summary": "Add a category",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "description": "Label and optional emoji prefix",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ports.AddCategoryRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    },
                    "400": {
                        "description": "Empty name",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    },
                    "409": {
                        "description": "Already exists",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    }
                }
            },
            "put": {
                "tags": [
                    "categories"
                ],
                "summary": "Rename a category",
                "description": "Renames the index entry and every style that references it.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "description": "Old and new names",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ports.RenameCategoryRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    },
                    "400": {
                        "description": "Empty or unchanged name",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    },
                    "409": {
                        "description": "Already exists",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "categories"
                ],
                "summary": "Delete a category",
                "description": "Styles in the category are kept and become unassigned.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "request",
                        "description": "Category name",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ports.DeleteCategoryRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/ports.Feedback"
                        }
                    }
                }
            }
        },
        "/reconcile": {
            "post": {
                "tags": [
                    "categories"
                ],
                "summary": "Rebuild the category index from the catalog",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/http.ReconcileResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "entities.StyleRecord": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "prompt": {
                    "type": "string"
                },
                "negative_prompt": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "image": {
                    "type": "string"
                }
            }
        },
        "ports.Feedback": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "variant": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                },
                "choices": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "ports.AddStyleRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "prompt": {
                    "type": "string"
                },
                "negative_prompt": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "image": {
                    "type": "string",
                    "format": "byte"
                }
            }
        },
        "ports.ModifyStyleRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "prompt": {
                    "type": "string"
                },
                "negative_prompt": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "image": {
                    "type": "string",
                    "format": "byte"
                }
            }
        },
        "ports.DeleteStyleRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                }
            }
        },
        "ports.ApplyStyleRequest": {
            "type": "object",
            "properties": {
                "style": {
                    "type": "string"
                },
                "positive": {
                    "type": "string"
                },
                "negative": {
                    "type": "string"
                }
            }
        },
        "ports.AddCategoryRequest": {
            "type": "object",
            "properties": {
                "label": {
                    "type": "string"
                },
                "emoji": {
                    "type": "string"
                }
            }
        },
        "ports.RenameCategoryRequest": {
            "type": "object",
            "properties": {
                "old_name": {
                    "type": "string"
                },
                "new_name": {
                    "type": "string"
                }
            }
        },
        "ports.DeleteCategoryRequest": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                }
            }
        },
        "ports.ReconcileReport": {
            "type": "object",
            "properties": {
                "added": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    }
                },
                "removed": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    }
                },
                "created": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "ports.GenerationRequest": {
            "type": "object",
            "properties": {
                "enabled": {
                    "type": "boolean"
                },
                "style": {
                    "type": "string"
                },
                "all_prompts": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "all_negative_prompts": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "extra_generation_params": {
                    "type": "object",
                    "additionalProperties": true
                }
            }
        },
        "ports.UIState": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "tab": {
                    "type": "string"
                },
                "enabled": {
                    "type": "boolean"
                },
                "categories": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "current_category": {
                    "type": "string"
                },
                "styles": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "selected_style": {
                    "type": "string"
                },
                "emoji_choices": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "positive_target": {
                    "type": "string"
                },
                "negative_target": {
                    "type": "string"
                }
            }
        },
        "ports.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                }
            }
        },
        "ports.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                }
            }
        },
        "http.ComponentRequest": {
            "type": "object",
            "required": [
                "elem_id"
            ],
            "properties": {
                "elem_id": {
                    "type": "string"
                }
            }
        },
        "http.StyleListResponse": {
            "type": "object",
            "properties": {
                "category": {
                    "type": "string"
                },
                "styles": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "http.StyleDetailsResponse": {
            "type": "object",
            "properties": {
                "style": {
                    "$ref": "#/definitions/entities.StyleRecord"
                },
                "feedback": {
                    "$ref": "#/definitions/ports.Feedback"
                }
            }
        },
        "http.PromptsResponse": {
            "type": "object",
            "properties": {
                "positive": {
                    "type": "string"
                },
                "negative": {
                    "type": "string"
                },
                "feedback": {
                    "$ref": "#/definitions/ports.Feedback"
                }
            }
        },
        "http.ClearPromptResponse": {
            "type": "object",
            "properties": {
                "value": {
                    "type": "string"
                },
                "feedback": {
                    "$ref": "#/definitions/ports.Feedback"
                }
            }
        },
        "http.CategoryListResponse": {
            "type": "object",
            "properties": {
                "categories": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "all_category": {
                    "type": "string"
                },
                "emoji_choices": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "http.ReconcileResponse": {
            "type": "object",
            "properties": {
                "report": {
                    "$ref": "#/definitions/ports.ReconcileReport"
                },
                "feedback": {
                    "$ref": "#/definitions/ports.Feedback"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "127.0.0.1:7861",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Style Selector API",
	Description:      "Style catalog, category index and prompt compositor for a generative-image web UI.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
