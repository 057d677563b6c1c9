// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for humans
//
// Middleware adds request access logging to a Gin engine. Every request
// carries an X-Request-ID header, taken from the client or generated.
//
// Example Usage:
//
//	logger, err := logging.New(logging.Config{Level: "info"})
//	router.Use(logging.Middleware(logger))
//	logger.Info("Server starting", zap.String("port", "8000"))
package logging
