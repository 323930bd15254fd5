package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pg-typemap/internal/engine"
	"pg-typemap/internal/goctl"
	"pg-typemap/internal/logging"
	"pg-typemap/internal/schema"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	settingsFile string
	settingsErr  error
	schemaFile   string
	configFile   string
	outputFile   string
	verbose      bool
	showProgress bool
)

var RootCmd = &cobra.Command{
	Use:   "pg-typemap",
	Short: "Map PostgreSQL custom types to Go types in goctl.yaml",
	Long: `pg-typemap scans a PostgreSQL schema file for ENUM types and pgvector columns
and adds the matching entries to model.types_map of a goctl configuration file.

The file is updated in place (a .bak copy is kept) unless --output is given.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return settingsErr
	},
	RunE: runMap,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Define flags
	pf := RootCmd.PersistentFlags()
	pf.StringVar(&settingsFile, "settings", "", "settings file (default is ./pg-typemap.yaml)")
	pf.StringVarP(&configFile, "config", "c", "", "Path to the goctl.yaml configuration file")
	pf.StringVarP(&outputFile, "output", "o", "", "Path to output the updated configuration file (optional)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	pf.String("log-format", logging.FormatText, "Log format: text or json")
	pf.String("null-type", "", "Go null type written for discovered types (overrides settings)")
	pf.String("base-type", "", "Go type written for discovered types (overrides settings)")
	pf.String("vector-pkg", "", "Package written for the vector type (overrides settings)")

	RootCmd.Flags().StringVarP(&schemaFile, "schema-file", "s", "", "Path to the PostgreSQL schema file")
	RootCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar while scanning")
	_ = RootCmd.MarkFlagRequired("schema-file")

	// Bind flags to viper
	viper.BindPFlag("log.format", pf.Lookup("log-format"))
	viper.BindPFlag("mapping.null_type", pf.Lookup("null-type"))
	viper.BindPFlag("mapping.type", pf.Lookup("base-type"))
	viper.BindPFlag("mapping.vector_pkg", pf.Lookup("vector-pkg"))

	// Set defaults for Viper (fallback if no settings/flag)
	viper.SetDefault("log.format", logging.FormatText)
	viper.SetDefault("mapping.null_type", goctl.DefaultRepresentation.NullType)
	viper.SetDefault("mapping.type", goctl.DefaultRepresentation.Type)
	viper.SetDefault("mapping.vector_pkg", goctl.DefaultRepresentation.VectorPkg)
}

// initConfig reads in the settings file and ENV variables if set.
func initConfig() {
	if settingsFile != "" {
		// Use settings file from the flag.
		viper.SetConfigFile(settingsFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("pg-typemap")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PG_TYPEMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if settingsFile != "" || !errors.As(err, &notFound) {
			settingsErr = fmt.Errorf("failed to read settings: %w", err)
		}
		return
	}
	if verbose {
		fmt.Println("Using settings file:", viper.ConfigFileUsed())
	}
}

func runMap(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		return fmt.Errorf("--config is required")
	}

	logger := newLogger()
	scanner, stop := newScanner(logger)

	report, err := engine.Run(engine.Options{
		SchemaFile:     schemaFile,
		ConfigFile:     configFile,
		OutputFile:     outputFile,
		Representation: representation(),
	}, scanner, logger)
	stop()
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func newLogger() *slog.Logger {
	return logging.New(os.Stderr, verbose, viper.GetString("log.format"))
}

// newScanner builds the scanner; with --progress it drives a bar over the input
// lines. The returned func stops the bar and must always be called.
func newScanner(logger *slog.Logger) (*schema.Scanner, func()) {
	opts := []schema.Option{schema.WithLogger(logger)}
	if !showProgress {
		return schema.NewScanner(opts...), func() {}
	}

	uiprogress.Start()
	var bar *uiprogress.Bar
	opts = append(opts, schema.WithProgress(func(done, total int) {
		if bar == nil {
			bar = uiprogress.AddBar(max(total, 1)).AppendCompleted().PrependElapsed()
			bar.PrependFunc(func(b *uiprogress.Bar) string {
				return "Scanning: "
			})
		}
		_ = bar.Set(done)
	}))

	return schema.NewScanner(opts...), uiprogress.Stop
}

func printReport(r *engine.Report) {
	if !verbose {
		fmt.Println("Configuration updated successfully")
		return
	}

	fmt.Printf("Found %d ENUM types:\n", len(r.Result.Enums))
	for _, e := range r.Result.Enums {
		fmt.Printf("  - %s with %d values\n", e.Name, len(e.Values))
	}
	fmt.Printf("Found %d VECTOR types:\n", len(r.Result.VectorUsages()))
	for _, v := range r.Result.VectorUsages() {
		fmt.Printf("  - %s\n", v.Name)
	}
	if len(r.Added) > 0 {
		fmt.Printf("New mappings: %s\n", strings.Join(r.Added, ", "))
	}
	if r.Backup != "" {
		fmt.Printf("Backup saved to %s\n", r.Backup)
	}
	if outputFile != "" {
		fmt.Printf("Updated configuration saved to %s\n", r.Written)
	} else {
		fmt.Printf("Configuration updated in place: %s\n", r.Written)
	}
	fmt.Printf("Total execution time: %s\n", r.Elapsed)
}
