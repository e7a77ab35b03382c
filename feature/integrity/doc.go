// Package integrity checks that the patcher's inputs are in working order.
//
// Unlike the 'lighting' package, which plans and writes the patch, this
// package only reports on the infrastructure a run depends on.
//
// # Checks Provided
//
//   - LoadOrder: Every enabled plugin has a readable document and its masters load before it. Also reports the state of each catalog plugin.
//   - Storage: The bucket exists and holds the plugins file under the configured prefix (supports fix).
//   - Database: The plugins table has every column the database source reads.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/load-order : Runs the load order check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/database : Runs the database schema check.
package integrity
