package definition

// Definition describes one loadable service.
type Definition struct {
	// Name uniquely identifies the service within a Set.
	Name string `yaml:"name" json:"name"`

	// Path, Type and Description are passed through to the loader untouched.
	Path        string `yaml:"path,omitempty" json:"path,omitempty"`
	Type        string `yaml:"type,omitempty" json:"type,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Dependencies lists service names that must be loaded first. Names that
	// are not part of the Set are treated as already satisfied.
	Dependencies []string `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`

	// Critical services abort the whole boot when they fail to load.
	Critical bool `yaml:"critical,omitempty" json:"critical,omitempty"`
}

// Clone returns a deep copy of d.
func (d Definition) Clone() Definition {
	c := d
	if d.Dependencies != nil {
		c.Dependencies = make([]string, len(d.Dependencies))
		copy(c.Dependencies, d.Dependencies)
	}
	return c
}

// Set is an ordered collection of definitions.
type Set []Definition

// Names returns the definition names in set order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, d := range s {
		names[i] = d.Name
	}
	return names
}

// Lookup returns the definition with the given name.
func (s Set) Lookup(name string) (Definition, bool) {
	for _, d := range s {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Clone returns a deep copy of the set.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for i, d := range s {
		out[i] = d.Clone()
	}
	return out
}

// Merge appends the definitions of other after s and returns the result.
// Neither input is modified. Name clashes are left for Validate to report.
func (s Set) Merge(other Set) Set {
	out := make(Set, 0, len(s)+len(other))
	out = append(out, s.Clone()...)
	out = append(out, other.Clone()...)
	return out
}
