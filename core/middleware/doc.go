// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting every endpoint.
//   - rayid: a request id (RayID) per request, stored in the context and
//     echoed in the X-Ray-ID response header for tracing.
package middleware
