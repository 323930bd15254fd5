// Package goctl merges discovered custom types into the model.types_map table of a
// goctl configuration document.
package goctl

import (
	"sort"
)

// TypeMapping describes how goctl renders a database type in generated Go code.
type TypeMapping struct {
	NullType string `yaml:"null_type"`
	Type     string `yaml:"type"`
	Pkg      string `yaml:"pkg,omitempty"`
}

// MappingTable maps a database type name to its TypeMapping.
type MappingTable map[string]TypeMapping

// Entry is one row of a sorted MappingTable.
type Entry struct {
	Name    string
	Mapping TypeMapping
}

// Sorted returns the table entries in ascending key order.
func (t MappingTable) Sorted() []Entry {
	entries := make([]Entry, 0, len(t))
	for name, m := range t {
		entries = append(entries, Entry{Name: name, Mapping: m})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Clone returns a shallow copy of the table.
func (t MappingTable) Clone() MappingTable {
	out := make(MappingTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
