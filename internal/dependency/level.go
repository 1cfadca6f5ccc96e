package dependency

import (
	"fmt"
	"sort"
	"strings"

	"stagehand/internal/definition"
)

// LoadGroup is a batch of services whose dependencies are all satisfied by
// earlier groups. Members of one group are loaded concurrently.
type LoadGroup struct {
	// Index is the position of the group in the boot sequence.
	Index int

	// Members keep their relative input order.
	Members []definition.Definition

	// Dependencies is the sorted union of all member dependency names,
	// including external ones. Informational only.
	Dependencies []string
}

// Names returns the member names in order.
func (g LoadGroup) Names() []string {
	names := make([]string, len(g.Members))
	for i, m := range g.Members {
		names[i] = m.Name
	}
	return names
}

// CircularDependencyError is returned when leveling cannot make progress.
// Names lists every service that could not be placed, not just a minimal
// cycle.
type CircularDependencyError struct {
	Names []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected among services: %s", strings.Join(e.Names, ", "))
}

// Group splits defs into load groups. Each pass over defs, in input order,
// selects every remaining definition whose dependencies are either already
// grouped or not part of defs at all. A pass that selects nothing while
// definitions remain fails with a CircularDependencyError.
//
// Names are expected to be unique (see definition.Set.Validate); if they are
// not, the first definition with a given name wins.
func Group(defs definition.Set) ([]LoadGroup, error) {
	known := make(map[string]bool, len(defs))
	for _, d := range defs {
		known[d.Name] = true
	}

	leveled := make(map[string]bool, len(defs))
	remaining := len(known)
	var groups []LoadGroup

	for remaining > 0 {
		var members []definition.Definition
		picked := make(map[string]bool)
		for _, d := range defs {
			if leveled[d.Name] || picked[d.Name] {
				continue
			}
			if ready(d, known, leveled) {
				picked[d.Name] = true
				members = append(members, d.Clone())
			}
		}

		if len(members) == 0 {
			var stuck []string
			for _, d := range defs {
				if !leveled[d.Name] && !picked[d.Name] {
					picked[d.Name] = true
					stuck = append(stuck, d.Name)
				}
			}
			return nil, &CircularDependencyError{Names: stuck}
		}

		// Mark after the scan so members of this pass never satisfy each other.
		for _, m := range members {
			leveled[m.Name] = true
		}
		remaining -= len(members)

		groups = append(groups, LoadGroup{
			Index:        len(groups),
			Members:      members,
			Dependencies: unionDependencies(members),
		})
	}

	return groups, nil
}

func ready(d definition.Definition, known, leveled map[string]bool) bool {
	for _, dep := range d.Dependencies {
		if known[dep] && !leveled[dep] {
			return false
		}
	}
	return true
}

func unionDependencies(members []definition.Definition) []string {
	seen := make(map[string]bool)
	var deps []string
	for _, m := range members {
		for _, dep := range m.Dependencies {
			if !seen[dep] {
				seen[dep] = true
				deps = append(deps, dep)
			}
		}
	}
	sort.Strings(deps)
	return deps
}

// TotalMembers counts the services across groups.
func TotalMembers(groups []LoadGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Members)
	}
	return n
}
