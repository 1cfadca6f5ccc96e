// Package orchestrator boots a set of services in dependency order.
//
// # Boot sequence
//
// An Orchestrator takes a definition.Set and a Loader. Boot validates the set,
// asks the dependency package for load groups and then executes the groups
// strictly one after another: group i+1 is not started before every member
// of group i has settled. Within a group all members are loaded concurrently.
//
//	Pending → Grouping → Loading(0) → … → Loading(n-1) → Ready
//	                   ↘ Failed (cycle)      ↘ Failed (critical load)
//
// # Failure policy
//
//   - A dependency cycle fails the boot before any loader runs, with a
//     *dependency.CircularDependencyError naming every stuck service.
//   - A failed critical service fails the boot once its group has settled,
//     with a *CriticalLoadError naming every failed critical member of that
//     group. No later group is started.
//   - A failed non-critical service is logged and left out of the registry.
//     Boot continues, including for services that depend on it.
//
// There is no retry. Calling Boot again after a failure starts over.
//
// # Executor
//
// Executor.ExecuteGroup is the group-level building block. It fans out over
// the members (optionally capped by MaxConcurrency), waits for all of them
// and collects outcomes per member, so a failing loader never cancels its
// siblings.
//
// # Diagnostics
//
// Every record goes to the logging.Sink passed in the Config, tagged with
// the boot ID. EstimateSavings and BootReport describe how much time the
// parallel plan saves compared to a purely sequential boot.
package orchestrator
