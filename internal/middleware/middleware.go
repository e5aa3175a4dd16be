// Package middleware stores the global middleware and the error handler.
//
// These intercept requests to handle cross-cutting concerns such as
// request logging, CORS, request ids, tracing and panic recovery.
package middleware
