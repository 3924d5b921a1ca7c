// Package config loads the application configuration.
//
// Values come from, in increasing precedence, the `default` struct tags of
// each section, a .env file, and the process environment. Keys map to
// environment names by upper-casing and replacing dots with underscores:
//
//	inventory.base_dir   -> INVENTORY_BASE_DIR
//	discovery.pacing_ms  -> DISCOVERY_PACING_MS
//	steamcmd.path        -> STEAMCMD_PATH
//
// Sections: steam, steamcmd, discovery, inventory, archive, storage,
// database, server, log.
package config
