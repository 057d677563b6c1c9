// Package http provides the HTTP handlers of the blueprint REST API.
//
// Endpoints (all under /api):
//   - Health: /health
//   - Blueprints: /blueprints, /blueprints/:id, /blueprints/:id/features,
//     /blueprints/:id/files/*path
//   - Stacks: /stacks
//   - Search: /search?q=
//   - Drivers: POST /generate-driver
//
// Domain errors map to JSON bodies of the form {"error": "..."}: unknown
// categories and files give 404, paths escaping a category give 400. Every
// path outside /api serves the single-page client.
//
// Example Usage:
//
//	handlers := http.NewHandlers(store, searcher, http.NewHandlerMetrics(metrics), logger)
//	api := router.Group("/api")
//	api.GET("/blueprints", handlers.ListBlueprints)
package http
