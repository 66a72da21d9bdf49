package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Admin Gateway",
        "description": "Backend-for-frontend over the school administration API",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Payments", "description": "Per-student payment grid"},
        {"name": "Students", "description": "Student registry"},
        {"name": "Dashboard", "description": "Headline counters"},
        {"name": "Inventory", "description": "Bodega products and stock alerts"},
        {"name": "Packages", "description": "Product bundles"},
        {"name": "Workshops", "description": "Workshop rosters, payments and diplomas"},
        {"name": "Reports", "description": "Payment ledger exports"},
        {"name": "Observability", "description": "Status and metrics"}
    ],
    "paths": {
        "/status": {
            "get": {"tags": ["Observability"], "summary": "Runtime counters", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/dashboard/stats": {
            "get": {"tags": ["Dashboard"], "summary": "Dashboard counters", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/grid/config": {
            "get": {"tags": ["Payments"], "summary": "Payment type catalog", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "plan", "in": "query", "type": "string", "enum": ["todos", "diario", "fin_de_semana", "ejecutivo"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{carnet}": {
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "parameters": [{"name": "carnet", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/students/{carnet}/grid": {
            "get": {
                "tags": ["Payments"],
                "summary": "Reconciled payment grid",
                "parameters": [
                    {"name": "carnet", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "School API unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{carnet}/grid/toggle": {
            "post": {
                "tags": ["Payments"],
                "summary": "Toggle one grid cell",
                "parameters": [
                    {"name": "carnet", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/products": {
            "get": {
                "tags": ["Inventory"],
                "summary": "List or search products",
                "parameters": [{"name": "q", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Inventory"],
                "summary": "Create product",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateProductRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/products/{code}": {
            "get": {
                "tags": ["Inventory"],
                "summary": "Product by code",
                "parameters": [{"name": "code", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/inventory/alerts": {
            "get": {"tags": ["Inventory"], "summary": "Products at or below their alert threshold", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/packages": {
            "get": {"tags": ["Packages"], "summary": "List packages", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {
                "tags": ["Packages"],
                "summary": "Create package",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PackageRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/packages/{id}": {
            "put": {
                "tags": ["Packages"],
                "summary": "Replace package",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PackageRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Packages"],
                "summary": "Delete package",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/workshops": {
            "get": {"tags": ["Workshops"], "summary": "List workshops", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {
                "tags": ["Workshops"],
                "summary": "Create workshop",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateWorkshopRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/workshops/{id}": {
            "get": {
                "tags": ["Workshops"],
                "summary": "Workshop roster and linked packages",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/workshops/{id}/students/{carnet}": {
            "post": {
                "tags": ["Workshops"],
                "summary": "Enroll student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "carnet", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "Enrolled"}}
            },
            "delete": {
                "tags": ["Workshops"],
                "summary": "Remove student from workshop",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "carnet", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"204": {"description": "Removed"}}
            }
        },
        "/workshops/{id}/students/{carnet}/toggle": {
            "post": {
                "tags": ["Workshops"],
                "summary": "Toggle workshop or package payment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "carnet", "in": "path", "required": true, "type": "string"},
                    {"name": "kind", "in": "query", "required": true, "type": "string", "enum": ["workshop", "package"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No package assigned", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workshops/{id}/students/{carnet}/package": {
            "put": {
                "tags": ["Workshops"],
                "summary": "Assign or clear a student's package",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "carnet", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignPackageRequest"}}
                ],
                "responses": {"204": {"description": "Updated"}}
            }
        },
        "/workshops/{id}/packages/{packageId}": {
            "post": {
                "tags": ["Workshops"],
                "summary": "Link package to workshop",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "packageId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"204": {"description": "Linked"}}
            },
            "delete": {
                "tags": ["Workshops"],
                "summary": "Unlink package from workshop",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "packageId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"204": {"description": "Unlinked"}}
            }
        },
        "/workshops/{id}/diplomas": {
            "post": {
                "tags": ["Workshops"],
                "summary": "Generate diplomas for the roster",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reports/payments": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a payment ledger export",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Report job status",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a generated ledger",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ToggleRequest": {
            "type": "object",
            "required": ["payment_type"],
            "properties": {
                "payment_type": {"type": "string"},
                "month": {"type": "integer"},
                "year": {"type": "integer"}
            }
        },
        "RegisterStudentRequest": {
            "type": "object",
            "required": ["names", "lastnames", "age", "plan"],
            "properties": {
                "names": {"type": "string"},
                "lastnames": {"type": "string"},
                "age": {"type": "integer"},
                "cui": {"type": "string"},
                "phone": {"type": "string"},
                "plan": {"type": "string", "enum": ["diario", "fin_de_semana", "ejecutivo"]},
                "guardian1_name": {"type": "string"},
                "guardian1_phone": {"type": "string"},
                "guardian2_name": {"type": "string"},
                "guardian2_phone": {"type": "string"},
                "photo_url": {"type": "string"},
                "initial_payments": {"type": "array", "items": {"$ref": "#/definitions/ToggleRequest"}}
            }
        },
        "CreateProductRequest": {
            "type": "object",
            "required": ["code", "description"],
            "properties": {
                "code": {"type": "string"},
                "description": {"type": "string"},
                "cost": {"type": "string", "example": "12.50"},
                "units": {"type": "integer"},
                "alert_threshold": {"type": "integer"}
            }
        },
        "PackageLine": {
            "type": "object",
            "properties": {
                "product_id": {"type": "integer"},
                "product_code": {"type": "string"},
                "quantity": {"type": "integer"}
            }
        },
        "PackageRequest": {
            "type": "object",
            "required": ["name", "products"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "products": {"type": "array", "items": {"$ref": "#/definitions/PackageLine"}}
            }
        },
        "CreateWorkshopRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "AssignPackageRequest": {
            "type": "object",
            "properties": {
                "package_id": {"type": "integer", "x-nullable": true}
            }
        },
        "ReportRequest": {
            "type": "object",
            "required": ["plan", "format"],
            "properties": {
                "plan": {"type": "string", "enum": ["todos", "diario", "fin_de_semana", "ejecutivo"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
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
