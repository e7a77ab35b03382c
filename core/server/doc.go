// Package server holds the HTTP server configuration.
//
// The serve command owns the Fiber app; this package only defines the
// settings it reads: listen port, API key and how long dry-run plans are
// cached between requests.
package server
