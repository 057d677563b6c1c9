// Package middleware provides HTTP middleware for the blueprint API.
//
//   - CORS: permissive cross-origin access via gin-contrib/cors
//   - Preflight: answers any remaining OPTIONS request with 204
//   - RateLimit: per-IP token bucket with idle client eviction
//
// Example Usage:
//
//	cfg := middleware.DefaultCORSConfig()
//	router.Use(middleware.CORS(cfg), middleware.Preflight(cfg))
//	router.Use(middleware.RateLimit(middleware.RateLimitConfig{RequestsPerSecond: 100, Burst: 200}))
package middleware
