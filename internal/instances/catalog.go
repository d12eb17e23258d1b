// Package instances resolves node-group sizing constraints (architecture,
// memory, vCPU count) to concrete EC2 instance types. Resolution is offline
// against a curated catalog by default; the EC2 API can refresh the catalog
// for accounts with access to newer families.
package instances

import (
	"github.com/eksforge/eksforge/internal/config"
)

// Type describes one EC2 instance type.
type Type struct {
	// Name is the API name, e.g. m6i.large.
	Name string
	// Family is the series prefix, e.g. m6i.
	Family string
	// Arch is the CPU architecture.
	Arch config.Arch
	// VCPUs is the vCPU count.
	VCPUs int
	// MemoryGiB is the memory size.
	MemoryGiB int
}

// familyRank orders candidate families: current-generation general purpose
// first, then burstable, compute- and memory-optimized. Lower is better.
var familyRank = map[string]int{
	"m7i": 0, "m7g": 0,
	"m6i": 1, "m6g": 1,
	"m5": 2,
	"t3": 3, "t4g": 3,
	"c7i": 4, "c7g": 4,
	"c6i": 5, "c6g": 5,
	"c5": 6,
	"r7i": 7, "r7g": 7,
	"r6i": 8, "r6g": 8,
	"r5": 9,
}

// Catalog is a set of instance types resolution runs against.
type Catalog struct {
	types []Type
	index map[string]Type
}

// NewCatalog builds a catalog from the given types.
func NewCatalog(types []Type) *Catalog {
	index := make(map[string]Type, len(types))
	for _, t := range types {
		index[t.Name] = t
	}
	return &Catalog{types: types, index: index}
}

// Lookup returns the type with the given name.
func (c *Catalog) Lookup(name string) (Type, bool) {
	t, ok := c.index[name]
	return t, ok
}

// Len returns the number of types in the catalog.
func (c *Catalog) Len() int {
	return len(c.types)
}

// Default returns the built-in catalog of common EKS-capable instance types.
func Default() *Catalog {
	return NewCatalog(defaultTypes)
}

// defaultTypes covers the general-purpose, burstable, compute- and
// memory-optimized families most EKS node groups use, both x86_64 and
// Graviton. Sizes above 16 vCPU are deliberately left to --refresh-instances.
var defaultTypes = []Type{
	// General purpose, x86_64
	{Name: "m7i.large", Family: "m7i", Arch: config.ArchAMD64, VCPUs: 2, MemoryGiB: 8},
	{Name: "m7i.xlarge", Family: "m7i", Arch: config.ArchAMD64, VCPUs: 4, MemoryGiB: 16},
	{Name: "m7i.2xlarge", Family: "m7i", Arch: config.ArchAMD64, VCPUs: 8, MemoryGiB: 32},
	{Name: "m7i.4xlarge", Family: "m7i", Arch: config.ArchAMD64, VCPUs: 16, MemoryGiB: 64},
	{Name: "m6i.large", Family: "m6i", Arch: config.ArchAMD64, VCPUs: 2, MemoryGiB: 8},
	{Name: "m6i.xlarge", Family: "m6i", Arch: config.ArchAMD64, VCPUs: 4, MemoryGiB: 16},
	{Name: "m6i.2xlarge", Family: "m6i", Arch: config.ArchAMD64, VCPUs: 8, MemoryGiB: 32},
	{Name: "m6i.4xlarge", Family: "m6i", Arch: config.ArchAMD64, VCPUs: 16, MemoryGiB: 64},
	{Name: "m5.large", Family: "m5", Arch: config.ArchAMD64, VCPUs: 2, MemoryGiB: 8},
	{Name: "m5.xlarge", Family: "m5", Arch: config.ArchAMD64, VCPUs: 4, MemoryGiB: 16},
	{Name: "m5.2xlarge", Family: "m5", Arch: config.ArchAMD64, VCPUs: 8, MemoryGiB: 32},

	// General purpose, arm64 (Graviton)
	{Name: "m7g.large", Family: "m7g", Arch: config.ArchARM64, VCPUs: 2, MemoryGiB: 8},
	{Name: "m7g.xlarge", Family: "m7g", Arch: config.ArchARM64, VCPUs: 4, MemoryGiB: 16},
	{Name: "m7g.2xlarge", Family: "m7g", Arch: config.ArchARM64, VCPUs: 8, MemoryGiB: 32},
	{Name: "m6g.large", Family: "m6g", Arch: config.ArchARM64, VCPUs: 2, MemoryGiB: 8},
	{Name: "m6g.xlarge", Family: "m6g", Arch: config.ArchARM64, VCPUs: 4, MemoryGiB: 16},
	{Name: "m6g.2xlarge", Family: "m6g", Arch: config.ArchARM64, VCPUs: 8, MemoryGiB: 32},

	// Burstable
	{Name: "t3.medium", Family: "t3", Arch: config.ArchAMD64, VCPUs: 2, MemoryGiB: 4},
	{Name: "t3.large", Family: "t3", Arch: config.ArchAMD64, VCPUs: 2, MemoryGiB: 8},
	{Name: "t3.xlarge", Family: "t3", Arch: config.ArchAMD64, VCPUs: 4, MemoryGiB: 16},
	{Name: "t4g.medium", Family: "t4g", Arch: config.ArchARM64, VCPUs: 2, MemoryGiB: 4},
	{Name: "t4g.large", Family: "t4g", Arch: config.ArchARM64, VCPUs: 2, MemoryGiB: 8},
	{Name: "t4g.xlarge", Family: "t4g", Arch: config.ArchARM64, VCPUs: 4, MemoryGiB: 16},

	// Compute optimized
	{Name: "c7i.large", Family: "c7i", Arch: config.ArchAMD64, VCPUs: 2, MemoryGiB: 4},
	{Name: "c7i.xlarge", Family: "c7i", Arch: config.ArchAMD64, VCPUs: 4, MemoryGiB: 8},
	{Name: "c7i.2xlarge", Family: "c7i", Arch: config.ArchAMD64, VCPUs: 8, MemoryGiB: 16},
	{Name: "c6i.large", Family: "c6i", Arch: config.ArchAMD64, VCPUs: 2, MemoryGiB: 4},
	{Name: "c6i.xlarge", Family: "c6i", Arch: config.ArchAMD64, VCPUs: 4, MemoryGiB: 8},
	{Name: "c6g.large", Family: "c6g", Arch: config.ArchARM64, VCPUs: 2, MemoryGiB: 4},
	{Name: "c6g.xlarge", Family: "c6g", Arch: config.ArchARM64, VCPUs: 4, MemoryGiB: 8},
	{Name: "c7g.large", Family: "c7g", Arch: config.ArchARM64, VCPUs: 2, MemoryGiB: 4},
	{Name: "c7g.xlarge", Family: "c7g", Arch: config.ArchARM64, VCPUs: 4, MemoryGiB: 8},
	{Name: "c5.large", Family: "c5", Arch: config.ArchAMD64, VCPUs: 2, MemoryGiB: 4},
	{Name: "c5.xlarge", Family: "c5", Arch: config.ArchAMD64, VCPUs: 4, MemoryGiB: 8},

	// Memory optimized
	{Name: "r7i.large", Family: "r7i", Arch: config.ArchAMD64, VCPUs: 2, MemoryGiB: 16},
	{Name: "r7i.xlarge", Family: "r7i", Arch: config.ArchAMD64, VCPUs: 4, MemoryGiB: 32},
	{Name: "r6i.large", Family: "r6i", Arch: config.ArchAMD64, VCPUs: 2, MemoryGiB: 16},
	{Name: "r6i.xlarge", Family: "r6i", Arch: config.ArchAMD64, VCPUs: 4, MemoryGiB: 32},
	{Name: "r6g.large", Family: "r6g", Arch: config.ArchARM64, VCPUs: 2, MemoryGiB: 16},
	{Name: "r6g.xlarge", Family: "r6g", Arch: config.ArchARM64, VCPUs: 4, MemoryGiB: 32},
	{Name: "r7g.large", Family: "r7g", Arch: config.ArchARM64, VCPUs: 2, MemoryGiB: 16},
	{Name: "r7g.xlarge", Family: "r7g", Arch: config.ArchARM64, VCPUs: 4, MemoryGiB: 32},
	{Name: "r5.large", Family: "r5", Arch: config.ArchAMD64, VCPUs: 2, MemoryGiB: 16},
	{Name: "r5.xlarge", Family: "r5", Arch: config.ArchAMD64, VCPUs: 4, MemoryGiB: 32},
}
