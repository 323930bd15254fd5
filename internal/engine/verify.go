package engine

import (
	"errors"
	"fmt"

	"pg-typemap/internal/goctl"
)

// ErrVerify reports a written document whose types_map differs from what was merged.
var ErrVerify = errors.New("written configuration does not match merged mappings")

// Verify re-reads path and checks that every entry is present with the same mapping.
func Verify(path string, entries []goctl.Entry) error {
	doc, err := goctl.LoadDocument(path)
	if err != nil {
		return fmt.Errorf("failed to re-read %s: %w", path, err)
	}

	table, err := doc.TypesMap()
	if err != nil {
		return err
	}

	if len(table) != len(entries) {
		return fmt.Errorf("%w: %d entries written, %d expected", ErrVerify, len(table), len(entries))
	}
	for _, e := range entries {
		got, ok := table[e.Name]
		if !ok {
			return fmt.Errorf("%w: %s missing", ErrVerify, e.Name)
		}
		if got != e.Mapping {
			return fmt.Errorf("%w: %s is %+v, expected %+v", ErrVerify, e.Name, got, e.Mapping)
		}
	}
	return nil
}
