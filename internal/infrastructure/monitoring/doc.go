/*
Package monitoring provides Prometheus metrics for the EdgeLink backend.

# Overview

Metrics cover the control API, the window session lifecycle, render targets,
input injection, task binding and the shell host bridge. Every collector is
registered against an explicit prometheus.Registerer so tests can use a fresh
registry.

# Usage

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record domain metrics
	metrics.RecordSessionEvent("session.opened")
	metrics.RecordInput("pointer", "injected")

	// Time bridge calls
	timer := monitoring.NewTimer(metrics, "display", "create")
	err := doCall()
	timer.StopErr(err)

A nil *Metrics accepts every call and records nothing.

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
