package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers Swagger/OpenAPI endpoints for the API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>bloodsync API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// OpenAPI document for the public API.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "bloodsync", "version": "v1.0.0" },
  "paths": {
    "/api/auth/register/donor": {
      "post": {
        "summary": "Register a donor",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"phone":{"type":"string"},"pincode":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "donor created" }, "400": { "description": "validation failed" }, "409": { "description": "phone already registered" } }
      }
    },
    "/api/auth/register/hospital": {
      "post": {
        "summary": "Register a hospital",
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Organization"}}}},
        "responses": { "200": { "description": "hospital created" }, "400": { "description": "validation failed" }, "409": { "description": "email already registered" } }
      }
    },
    "/api/auth/register/blood-bank": {
      "post": {
        "summary": "Register a blood bank",
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Organization"}}}},
        "responses": { "200": { "description": "blood bank created" }, "400": { "description": "validation failed" }, "409": { "description": "email already registered" } }
      }
    },
    "/api/auth/login": {
      "post": {
        "summary": "Check credentials for a role",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"role":{"type":"string","enum":["donor","hospital","blood-bank"]},"identifier":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "user returned" }, "401": { "description": "invalid credentials" } }
      }
    },
    "/api/blood-bank/drives": {
      "post": {
        "summary": "Create a donation drive",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"bloodBankId":{"type":"string"},"title":{"type":"string"},"date":{"type":"string","format":"date"},"location":{"type":"string"},"time":{"type":"string"}}}}}},
        "responses": { "200": { "description": "drive created" }, "400": { "description": "validation failed" }, "404": { "description": "blood bank not found" } }
      }
    },
    "/api/drives/upcoming": { "get": { "summary": "List upcoming drives with registration counts", "responses": { "200": { "description": "drives" } } } },
    "/api/drives/{id}/register": {
      "post": {
        "summary": "Register a donor for a drive",
        "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}],
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"donorId":{"type":"string"}}}}}},
        "responses": { "200": { "description": "registered" }, "404": { "description": "drive or donor not found" }, "409": { "description": "already registered or drive full" } }
      }
    },
    "/api/blood-banks": { "get": { "summary": "List blood banks", "responses": { "200": { "description": "blood banks" } } } },
    "/api/blood-banks/{id}/drives": { "get": { "summary": "List drives organized by a blood bank", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "drives" }, "404": { "description": "blood bank not found" } } } },
    "/api/hospital/requests": {
      "post": {
        "summary": "Create a blood request",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"hospitalId":{"type":"string"},"bloodGroup":{"type":"string"},"units":{"type":"integer","minimum":1,"maximum":50}}}}}},
        "responses": { "200": { "description": "request created" }, "400": { "description": "validation failed" }, "404": { "description": "hospital not found" } }
      }
    },
    "/api/hospitals/{id}/requests": { "get": { "summary": "List a hospital's requests, newest first", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "requests" }, "404": { "description": "hospital not found" } } } },
    "/api/blood-bank/requests/pending": { "get": { "summary": "List pending requests, oldest first", "responses": { "200": { "description": "requests" } } } },
    "/api/blood-bank/requests/{id}/approve": {
      "post": {
        "summary": "Approve a pending request",
        "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}],
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"bloodBankId":{"type":"string"}}}}}},
        "responses": { "200": { "description": "approved" }, "404": { "description": "request or blood bank not found" }, "409": { "description": "already approved" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  },
  "components": {
    "schemas": {
      "Organization": {"type":"object","properties":{"name":{"type":"string"},"email":{"type":"string"},"address":{"type":"string"},"password":{"type":"string"}}}
    }
  }
}`
