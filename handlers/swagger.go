package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the storefront services.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>trstyle-services — Swagger</title>
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

// Minimal OpenAPI document describing the storefront service endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "trstyle-services", "version": "v0.1.0" },
  "paths": {
    "/users": {
      "post": {
        "summary": "Privileged merge-write of a user record",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"userId":{"type":"string"},"userData":{"type":"object"}}}}}},
        "responses": { "200": { "description": "saved" }, "400": { "description": "userId or userData missing" }, "500": { "description": "privileged store unavailable" } }
      },
      "get": {
        "summary": "Privileged read of a user record",
        "parameters": [ { "name": "userId", "in": "query", "required": true, "schema": {"type":"string"} } ],
        "responses": { "200": { "description": "record" }, "400": { "description": "userId missing" }, "404": { "description": "not found" }, "500": { "description": "privileged store unavailable" } }
      }
    },
    "/auth/login": {
      "post": { "summary": "Verify ID token, sync profile, establish session", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"idToken":{"type":"string"},"provider":{"type":"string"}}}}}}, "responses": { "200": { "description": "tokens returned" }, "401": { "description": "invalid id token" } } }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/products": {
      "get": { "summary": "List or search the product catalog", "parameters": [ { "name": "q", "in": "query", "required": false, "schema": {"type":"string"} } ], "responses": { "200": { "description": "products" } } }
    },
    "/api/v1/products/{id}": {
      "get": { "summary": "Get one product", "responses": { "200": { "description": "product" }, "404": { "description": "not found" } } }
    },
    "/api/v1/me": {
      "get": { "summary": "Get the authenticated user's stored profile", "responses": { "200": { "description": "user" }, "401": { "description": "unauthenticated" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
