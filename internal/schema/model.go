package schema

// VectorTypeName is the type name used by the pgvector extension.
const VectorTypeName = "vector"

// EnumType is an enum declaration found in a schema. Values is never empty.
type EnumType struct {
	Name   string
	Values []string
}

// VectorUsage marks that at least one column uses the vector type.
type VectorUsage struct {
	Name string
}

// ScanResult holds the custom types discovered in a single pass.
type ScanResult struct {
	Enums      []EnumType
	UsesVector bool
}

// VectorUsages returns the vector usage records (zero or one entry).
func (r *ScanResult) VectorUsages() []VectorUsage {
	if !r.UsesVector {
		return nil
	}
	return []VectorUsage{{Name: VectorTypeName}}
}

// EnumNames returns the discovered enum names in source order.
func (r *ScanResult) EnumNames() []string {
	names := make([]string, 0, len(r.Enums))
	for _, e := range r.Enums {
		names = append(names, e.Name)
	}
	return names
}
