// Package docs expone el documento OpenAPI servido en /swagger.
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
        "/health": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/animals": {
            "get": {
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Lista los animales del dueño autenticado",
                "parameters": [
                    {"type": "string", "name": "batch", "in": "query", "description": "filtra por lote (igualdad exacta)"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Registra un animal",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/animals/{animalID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Detalle de un animal",
                "parameters": [
                    {"type": "string", "name": "animalID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["animals"],
                "summary": "Actualiza campos de un animal",
                "parameters": [
                    {"type": "string", "name": "animalID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/animals/{animalID}/treatments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["treatments"],
                "summary": "Historial de tratamientos de un animal",
                "parameters": [
                    {"type": "string", "name": "animalID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/treatment-types": {
            "get": {
                "produces": ["application/json"],
                "tags": ["treatments"],
                "summary": "Catálogo de tipos de tratamiento",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/treatments": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["treatments"],
                "summary": "Registra una aplicación (animal individual o lote completo)",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/treatments/preview": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["treatments"],
                "summary": "Calcula la próxima fecha sin persistir",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/treatments/{recordID}/apply": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["agenda"],
                "summary": "Marca un tratamiento vencido como aplicado",
                "parameters": [
                    {"type": "string", "name": "recordID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/calendar": {
            "get": {
                "produces": ["application/json"],
                "tags": ["calendar"],
                "summary": "Lista obligaciones del dueño",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["calendar"],
                "summary": "Crea una obligación",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/calendar/{obligationID}": {
            "delete": {
                "tags": ["calendar"],
                "summary": "Elimina una obligación",
                "parameters": [
                    {"type": "string", "name": "obligationID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/calendar/{obligationID}/complete": {
            "post": {
                "produces": ["application/json"],
                "tags": ["calendar"],
                "summary": "Marca una obligación como completada",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/calendar/{obligationID}/reopen": {
            "post": {
                "produces": ["application/json"],
                "tags": ["calendar"],
                "summary": "Reabre una obligación completada",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/agenda": {
            "get": {
                "produces": ["application/json"],
                "tags": ["agenda"],
                "summary": "Agenda clasificada (próximos, vencidos, pasados)",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/notifications": {
            "get": {
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Notificaciones del dueño (más reciente primero)",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["notifications"],
                "summary": "Descarta todas las notificaciones",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/notifications/unread-count": {
            "get": {
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Cantidad de no leídas",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/notifications/{notificationID}/read": {
            "post": {
                "tags": ["notifications"],
                "summary": "Marca una notificación como leída",
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/notifications/{notificationID}": {
            "delete": {
                "tags": ["notifications"],
                "summary": "Descarta una notificación",
                "responses": {
                    "204": {"description": "No Content"},
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
	Schemes:          []string{},
	Title:            "Herd Health API",
	Description:      "Sanidad del rodeo: animales, tratamientos, calendario, agenda y alertas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
