package dlc

import "dlc-updater/core/reconcile"

// defaultGames is the static registry, in output order.
var defaultGames = []reconcile.Game{
	{Name: "Cities: Skylines", AppID: 255710},
	{Name: "Cities: Skylines II", AppID: 949230},
	{Name: "Crusader Kings II", AppID: 203770},
	{Name: "Crusader Kings III", AppID: 1158310},
	{Name: "Europa Universalis IV", AppID: 236850},
	{Name: "Hearts of Iron IV", AppID: 394360},
	{Name: "Imperator: Rome", AppID: 859580},
	{Name: "Stellaris", AppID: 281990},
	{Name: "Victoria 3", AppID: 529340},
}

// DefaultGames returns a copy of the game registry.
func DefaultGames() []reconcile.Game {
	out := make([]reconcile.Game, len(defaultGames))
	copy(out, defaultGames)
	return out
}

// LookupGame finds a registry game by exact name.
func LookupGame(games []reconcile.Game, name string) (reconcile.Game, bool) {
	for _, g := range games {
		if g.Name == name {
			return g, true
		}
	}
	return reconcile.Game{}, false
}
