// Package server holds the HTTP server configuration.
//
// The serve command owns the fiber app; this package only defines the listen
// port, the API key and the graceful shutdown bound, embedded into core/config.
package server
