// Package history keeps a ledger of reconciliation runs in the optional database.
//
// Each run stores its aggregate counts and one row per game, so the CLI and HTTP
// API can show when DLC last appeared and which games failed.
package history
