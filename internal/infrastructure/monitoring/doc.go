/*
Package monitoring provides Prometheus metrics for the blueprint server.

# Overview

Each Metrics value owns a private registry holding HTTP request metrics
labelled by route template, catalog parser counters, catalog cache hit and
miss counters, search and driver counters, and an uptime gauge. Go runtime
and process collectors are registered alongside.

Metrics satisfies blueprint.Observer, so a Store reports parses and cache
lookups directly.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/api/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
