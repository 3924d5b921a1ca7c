// Package middleware groups the HTTP middleware of the API server.
//
// # Components
//
//   - auth: API key validation. Health checks can be skipped by path prefix.
//   - rayid: tags every request with a ray id, stored in fiber locals for
//     logger.WithRayID and echoed in the X-Ray-ID response header.
package middleware
