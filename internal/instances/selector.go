package instances

import (
	"fmt"
	"sort"

	"github.com/eksforge/eksforge/internal/config"
)

// maxCandidates caps how many types a resolved selector hands to the EKS
// API; managed node groups accept up to 20 but a short, predictable list
// keeps capacity behavior understandable.
const maxCandidates = 4

// Resolve turns a node group's sizing constraints into a concrete candidate
// list. An explicit instance_types list wins and is validated against the
// group's architecture; otherwise the selector filters the catalog.
func (c *Catalog) Resolve(ng config.NodeGroup) ([]string, error) {
	if len(ng.InstanceTypes) > 0 {
		return c.validateExplicit(ng)
	}

	sel := ng.Selector
	if sel == nil {
		return nil, fmt.Errorf("node group %q: no instance_types and no selector", ng.Name)
	}

	var matches []Type
	for _, t := range c.types {
		if t.Arch == ng.Arch && t.VCPUs == sel.VCPUs && t.MemoryGiB == sel.MemoryGiB {
			matches = append(matches, t)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("node group %q: no %s instance type with %d vCPUs and %dGiB memory; adjust the selector or list instance_types explicitly",
			ng.Name, ng.Arch, sel.VCPUs, sel.MemoryGiB)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := rank(matches[i].Family), rank(matches[j].Family)
		if ri != rj {
			return ri < rj
		}
		return matches[i].Name < matches[j].Name
	})

	if len(matches) > maxCandidates {
		matches = matches[:maxCandidates]
	}

	names := make([]string, len(matches))
	for i, t := range matches {
		names[i] = t.Name
	}
	return names, nil
}

func (c *Catalog) validateExplicit(ng config.NodeGroup) ([]string, error) {
	for _, name := range ng.InstanceTypes {
		t, ok := c.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("node group %q: unknown instance type %q; use --refresh-instances if it is a newer family", ng.Name, name)
		}
		if t.Arch != ng.Arch {
			return nil, fmt.Errorf("node group %q: instance type %q is %s but the group is %s", ng.Name, name, t.Arch, ng.Arch)
		}
	}
	return ng.InstanceTypes, nil
}

func rank(family string) int {
	if r, ok := familyRank[family]; ok {
		return r
	}
	// Families the built-in rank table does not know sort last.
	return len(familyRank)
}
