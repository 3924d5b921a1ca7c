// Package inventory wires the block and flat stores to the reconciliation driver.
//
// The Service owns the two store files found under the configured patch
// directories:
//
//	<base>/正版DLC破解补丁/cream_api.ini              (block format)
//	<base>/局域网DLC破解补丁/steam_settings/DLC.txt   (flat format)
//
// A run reconciles both stores, builds the dated patch archive when something
// changed and records the run when a history store is configured. Runs are
// serialized; a second caller gets ErrBusy.
//
// # Routes
//
//	GET  /api/games             registry
//	GET  /api/inventory/:store  ids recorded in "block" or "flat"
//	POST /api/reconcile         run now (?dry_run=true, ?no_archive=true)
//	GET  /api/history           latest runs (?limit=10)
package inventory
