// Package main is the entry point of the forgeprint blueprint server.
//
// The server reads a directory of blueprint categories and exposes them to a
// single-page client:
//
//	Browser → /api/* (JSON) → blueprint root on disk
//	        → any other path → client HTML
//
// Configuration:
//   - Environment variables (PORT, BLUEPRINTS_ROOT, LOG_LEVEL, ...)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	./forgeprint --root ./blueprints --port 8000
//	./forgeprint --dev --log-level debug
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
