// Package definition holds the static description of every service the
// runtime can boot.
//
// A Definition names a service, lists the names of the services it depends
// on and says whether a failure to load it is fatal to the whole boot
// (Critical). Path, Type and Description are opaque to the boot core: they are
// forwarded unchanged to whatever loader constructs the service.
//
// A Set is an ordered list of definitions. Order matters: the dependency
// grouper keeps input order within a load group, so the same Set always
// produces the same boot plan.
//
//	set := definition.Set{
//	    {Name: "logger", Critical: true},
//	    {Name: "database", Dependencies: []string{"logger"}, Critical: true},
//	    {Name: "webhooks", Dependencies: []string{"database"}},
//	}
//	if err := set.Validate(); err != nil {
//	    return err
//	}
//
// Definitions are decoded from YAML with the field names name, path, type,
// description, dependencies and critical.
package definition
