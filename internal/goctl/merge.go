package goctl

import (
	"pg-typemap/internal/schema"
)

// Representation is the target representation written for discovered types.
type Representation struct {
	NullType  string `mapstructure:"null_type"`
	Type      string `mapstructure:"type"`
	VectorPkg string `mapstructure:"vector_pkg"`
}

// DefaultRepresentation renders enums and vectors as nullable strings.
var DefaultRepresentation = Representation{
	NullType:  "sql.NullString",
	Type:      "string",
	VectorPkg: "github.com/pgvector/pgvector-go",
}

// EnumMapping returns the mapping used for enum types.
func (r Representation) EnumMapping() TypeMapping {
	return TypeMapping{NullType: r.NullType, Type: r.Type}
}

// VectorMapping returns the mapping used for the vector type.
func (r Representation) VectorMapping() TypeMapping {
	return TypeMapping{NullType: r.NullType, Type: r.Type, Pkg: r.VectorPkg}
}

// WithDefaults fills empty fields from DefaultRepresentation.
func (r Representation) WithDefaults() Representation {
	if r.NullType == "" {
		r.NullType = DefaultRepresentation.NullType
	}
	if r.Type == "" {
		r.Type = DefaultRepresentation.Type
	}
	if r.VectorPkg == "" {
		r.VectorPkg = DefaultRepresentation.VectorPkg
	}
	return r
}

// Merge writes one entry per discovered enum and, when vector is used, one entry for
// "vector" into table, overwriting entries of the same name. Nothing is removed.
// A nil table is allocated. Merge is idempotent.
func Merge(table MappingTable, res *schema.ScanResult, rep Representation) MappingTable {
	if table == nil {
		table = MappingTable{}
	}
	if res == nil {
		return table
	}

	for _, enum := range res.Enums {
		table[enum.Name] = rep.EnumMapping()
	}
	if res.UsesVector {
		table[schema.VectorTypeName] = rep.VectorMapping()
	}

	return table
}
