// Package loader provides the feature loading system.
//
// Each feature implements the Feature interface and registers its own
// routes. The Manager keeps the registry and loads enabled features in
// registration order.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
//   - Register() adds a feature
//   - LoadAll() loads every enabled feature and reports which were loaded
package loader
