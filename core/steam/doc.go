// Package steam is a client for the public Steam store appdetails endpoint.
//
// Two retry layers are stacked on purpose:
//
//  1. The transport retries connection faults and 429/500/502/503/504 responses with
//     exponential backoff and jitter, honouring Retry-After hints.
//  2. Client.Resolve retries any failed resolution (bad status, malformed payload,
//     success=false) a fixed number of times with a fixed delay.
//
// Exhausted retries are reported as ErrUnresolved; callers decide whether to fall back.
//
// One Client owns one bounded connection pool. When the pool is exhausted new
// requests wait for a connection rather than failing.
//
// # Usage
//
//	client := steam.NewClient(cfg.Steam, logger)
//	defer client.Close()
//
//	ids, err := client.DLCList(ctx, 281990)
//	name, err := client.Resolve(ctx, "447680")
package steam
