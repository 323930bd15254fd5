package cmd

import (
	"fmt"
	"io"
	"strings"

	"pg-typemap/internal/engine"
	"pg-typemap/internal/goctl"
	"pg-typemap/internal/schema"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

var dump bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List custom types in a schema file without changing any configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		scanner, stop := newScanner(logger)
		res, err := engine.ScanFile(schemaFile, scanner)
		stop()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if dump {
			spew.Fdump(out, res)
			return nil
		}
		printScan(out, res, representation())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&schemaFile, "schema-file", "s", "", "Path to the PostgreSQL schema file")
	scanCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar while scanning")
	scanCmd.Flags().BoolVar(&dump, "dump", false, "Dump the raw scan result")
	_ = scanCmd.MarkFlagRequired("schema-file")
}

// printScan writes the discovered types and the mappings they would produce.
func printScan(w io.Writer, res *schema.ScanResult, rep goctl.Representation) {
	fmt.Fprintf(w, "Found %d ENUM types:\n", len(res.Enums))
	for _, e := range res.Enums {
		fmt.Fprintf(w, "  - %s (%s)\n", e.Name, strings.Join(e.Values, ", "))
	}
	fmt.Fprintf(w, "Found %d VECTOR types:\n", len(res.VectorUsages()))
	for _, v := range res.VectorUsages() {
		fmt.Fprintf(w, "  - %s\n", v.Name)
	}

	entries := goctl.Merge(nil, res, rep).Sorted()
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(w, "Mappings:")
	for _, e := range entries {
		pkg := ""
		if e.Mapping.Pkg != "" {
			pkg = " (" + e.Mapping.Pkg + ")"
		}
		fmt.Fprintf(w, "  %s: %s / %s%s\n", e.Name, e.Mapping.Type, e.Mapping.NullType, pkg)
	}
}
