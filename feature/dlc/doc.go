// Package dlc discovers the DLC catalog of each registry game.
//
// Discovery combines two listings:
//  1. Official: the DLC ids a game's own store record declares, resolved to
//     names by a small worker pool.
//  2. Hidden: the ids the external discovery tool reports, including DLC the
//     store record omits. Names come from the store when possible, then from
//     the built-in fallback table, then from a "DLC <id>" placeholder.
//
// Official records always win over hidden ones for the same id.
//
// # Components
//
//   - Engine: implements reconcile.Discoverer for one game at a time.
//   - FallbackTable: curated names for DLC the store cannot resolve.
//   - DefaultGames: the static game registry, in output order.
package dlc
