// Package loader registers the features that contribute HTTP routes.
//
// Each feature implements the Feature interface:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager keeps them in registration order and LoadAll mounts every enabled
// one, stopping at the first failure.
package loader
