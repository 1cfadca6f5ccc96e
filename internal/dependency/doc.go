// Package dependency turns a flat list of service definitions into an
// ordered sequence of load groups.
//
// # Leveling
//
// Group repeatedly scans the definitions in input order and collects every
// definition whose dependencies are already placed in an earlier group. Each
// scan becomes one LoadGroup; members of a group can be loaded concurrently
// because none of them depends on another member.
//
//	logger:   []
//	database: [logger]
//	auth:     [logger, database]
//	cli:      [logger, database]
//
// levels into
//
//	group 0: logger
//	group 1: database
//	group 2: auth, cli
//
// The number of groups equals the length of the longest dependency chain.
//
// # Rules
//
//  1. A dependency on a name that is not part of the input is treated as
//     satisfied. Such external or optional dependencies never block leveling.
//  2. Input order is preserved inside a group, so the plan is deterministic.
//  3. When a scan places nothing while definitions remain, Group fails with a
//     CircularDependencyError naming every definition that could not be
//     placed. No attempt is made to isolate the minimal cycle.
//
// # Graph
//
// Graph answers queries over the same definitions: direct dependencies,
// direct dependents and transitive dependents. The orchestrator uses it to
// report which services a failed critical service would have blocked.
package dependency
