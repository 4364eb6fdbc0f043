// Package server provides the HTTP API: similarity search over ingested
// projects, scrape triggering, and health.
package server
