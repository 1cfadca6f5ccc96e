package definition

import (
	"fmt"
	"strings"
)

// DuplicateDefinitionError reports names that appear more than once in a Set.
type DuplicateDefinitionError struct {
	Names []string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("duplicate service definitions: %s", strings.Join(e.Names, ", "))
}

// InvalidDefinitionError reports a definition that cannot be booted at all.
type InvalidDefinitionError struct {
	Index   int
	Name    string
	Message string
}

func (e *InvalidDefinitionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("service definition #%d: %s", e.Index, e.Message)
	}
	return fmt.Sprintf("service definition %q: %s", e.Name, e.Message)
}

// Validate checks that every definition has a usable name and that names are
// unique. Dependency cycles, including self-dependencies, are left to the
// grouper so they are reported as cycles.
func (s Set) Validate() error {
	seen := make(map[string]int, len(s))
	var duplicates []string

	for i, d := range s {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return &InvalidDefinitionError{Index: i, Message: "name is required"}
		}
		if name != d.Name || strings.ContainsAny(d.Name, " \t\n") {
			return &InvalidDefinitionError{Index: i, Name: d.Name, Message: "name cannot contain whitespace"}
		}
		seen[d.Name]++
		if seen[d.Name] == 2 {
			duplicates = append(duplicates, d.Name)
		}
	}

	if len(duplicates) > 0 {
		return &DuplicateDefinitionError{Names: duplicates}
	}
	return nil
}
