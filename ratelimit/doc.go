// Package ratelimit provides fixed-window request limiting for the
// search API. The Redis-backed limiter shares its counters across
// processes; the in-memory limiter serves single-process deployments
// and tests.
package ratelimit
