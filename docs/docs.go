// Package docs registra el documento OpenAPI del API (swag + http-swagger).
// Se mantiene a mano junto con las anotaciones de los handlers.
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
        "/pet-types": {
            "get": {
                "description": "Etiquetas válidas para el campo ` + "`" + `type` + "`" + `, en el orden del formulario.",
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Tipos de mascota",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"type": "string"}}
                    }
                }
            }
        },
        "/pets": {
            "get": {
                "description": "Devuelve la lista en orden de inserción. Con ` + "`" + `favorites=true` + "`" + ` solo las favoritas. Si el almacenamiento falla responde lista vacía.",
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Listar mascotas perdidas",
                "parameters": [
                    {"type": "boolean", "description": "Solo favoritas", "name": "favorites", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/pets.PetRecord"}}
                    },
                    "400": {"description": "favorites must be a boolean", "schema": {"type": "string"}}
                }
            },
            "post": {
                "description": "Valida el formulario, codifica la imagen como data URI y agrega el registro al final de la lista. La imagen debe ser PNG o JPEG de hasta 5MB.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Registrar mascota perdida",
                "parameters": [
                    {"type": "string", "description": "Nombre (mínimo 3 caracteres)", "name": "name", "in": "formData", "required": true},
                    {"enum": ["dog", "cat", "bird", "rabbit", "hamster", "other"], "type": "string", "description": "Tipo de mascota", "name": "type", "in": "formData", "required": true},
                    {"enum": ["male", "female"], "type": "string", "description": "Género (default male)", "name": "gender", "in": "formData"},
                    {"type": "file", "description": "Imagen PNG/JPEG", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/pets.PetRecord"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pets.validationErrorResponse"}},
                    "500": {"description": "could not create pet", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Detalle de mascota",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.PetRecord"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}/favorite": {
            "put": {
                "description": "Fija ` + "`" + `isFavorite` + "`" + ` y devuelve la lista completa. Un id inexistente deja la lista igual.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Marcar/desmarcar favorita",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"description": "Nuevo valor", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/pets.setFavoriteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/pets.PetRecord"}}},
                    "400": {"description": "invalid json", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}/favorite/toggle": {
            "post": {
                "description": "Invierte ` + "`" + `isFavorite` + "`" + ` de una mascota existente y devuelve el registro actualizado.",
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Alternar favorita",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.PetRecord"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}},
                    "500": {"description": "internal error", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "pets.Gender": {
            "type": "string",
            "enum": ["male", "female"],
            "x-enum-varnames": ["GenderMale", "GenderFemale"]
        },
        "pets.PetType": {
            "type": "string",
            "enum": ["dog", "cat", "bird", "rabbit", "hamster", "other"],
            "x-enum-varnames": ["TypeDog", "TypeCat", "TypeBird", "TypeRabbit", "TypeHamster", "TypeOther"]
        },
        "pets.PetRecord": {
            "type": "object",
            "properties": {
                "gender": {"$ref": "#/definitions/pets.Gender"},
                "id": {"type": "string"},
                "image": {"type": "string"},
                "isFavorite": {"type": "boolean"},
                "name": {"type": "string"},
                "type": {"$ref": "#/definitions/pets.PetType"}
            }
        },
        "pets.setFavoriteRequest": {
            "type": "object",
            "properties": {
                "isFavorite": {"type": "boolean"}
            }
        },
        "pets.validationErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Lost Pets API",
	Description:      "Registro y listado de mascotas perdidas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
