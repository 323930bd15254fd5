package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"pg-typemap/internal/goctl"
	"pg-typemap/internal/schema"
)

// ErrSchemaRead reports a schema file that is missing or unreadable.
var ErrSchemaRead = errors.New("cannot read schema file")

// Options controls a single scan-merge-persist run.
type Options struct {
	SchemaFile     string
	ConfigFile     string
	OutputFile     string // empty means update ConfigFile in place
	Representation goctl.Representation
}

// Target returns the path the merged document is written to.
func (o Options) Target() string {
	if o.OutputFile != "" {
		return o.OutputFile
	}
	return o.ConfigFile
}

// Report summarizes a completed run.
type Report struct {
	Result  *schema.ScanResult
	Entries []goctl.Entry
	Added   []string
	Written string
	Backup  string
	Elapsed time.Duration
}

// ScanFile reads path and scans its contents. The file handle is released before
// scanning starts.
func ScanFile(path string, scanner *schema.Scanner) (*schema.ScanResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrSchemaRead, path, err)
	}
	return scanner.Scan(string(data)), nil
}

// Run scans opts.SchemaFile and applies the result to the configuration document.
func Run(opts Options, scanner *schema.Scanner, logger *slog.Logger) (*Report, error) {
	logger = orDiscard(logger)
	start := time.Now()

	res, err := ScanFile(opts.SchemaFile, scanner)
	if err != nil {
		return nil, err
	}
	logger.Info("schema scanned",
		"file", opts.SchemaFile,
		"enums", len(res.Enums),
		"vector", res.UsesVector,
		"elapsed", time.Since(start))

	report, err := Apply(res, opts, logger)
	if err != nil {
		return nil, err
	}
	report.Elapsed = time.Since(start)
	return report, nil
}

// Apply merges res into the document at opts.ConfigFile and persists it.
//
// Nothing is written unless the document parses. For in-place updates the existing
// file is copied to a ".bak" sibling first and a failed backup aborts the run.
func Apply(res *schema.ScanResult, opts Options, logger *slog.Logger) (*Report, error) {
	logger = orDiscard(logger)
	start := time.Now()

	doc, err := goctl.LoadDocument(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	table, err := doc.TypesMap()
	if err != nil {
		return nil, err
	}
	before := table.Clone()

	table = goctl.Merge(table, res, opts.Representation.WithDefaults())
	if err := doc.SetTypesMap(table); err != nil {
		return nil, err
	}

	report := &Report{
		Result:  res,
		Entries: table.Sorted(),
		Added:   addedNames(before, table),
		Written: opts.Target(),
	}

	if opts.OutputFile != "" {
		if err := doc.SaveAs(opts.OutputFile); err != nil {
			return nil, err
		}
	} else {
		backup, err := doc.Save(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		report.Backup = backup
		if backup != "" {
			logger.Debug("backup written", "path", backup)
		}
	}
	logger.Debug("configuration written", "path", report.Written, "entries", len(report.Entries))

	if err := Verify(report.Written, report.Entries); err != nil {
		return nil, err
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

func addedNames(before, after goctl.MappingTable) []string {
	var added []string
	for _, e := range after.Sorted() {
		if _, ok := before[e.Name]; !ok {
			added = append(added, e.Name)
		}
	}
	return added
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
