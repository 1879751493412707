package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bjaus/tabjson"
	"github.com/bjaus/tabjson/csvtable"
	"github.com/bjaus/tabjson/internal/config"
	"github.com/bjaus/tabjson/internal/logging"
	"github.com/bjaus/tabjson/xlsx"
)

var errInvalidTables = errors.New("invalid tables")

type options struct {
	configFile string
	envFile    string
	logLevel   string
	logFormat  string
	summary    string
	sheets     []string
	conflict   string
	workers    int

	format string
	indent int
	out    string
	sheet  string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "tabjson",
		Short:         "Convert tables with dot-delimited headers into nested JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "YAML config file")
	pf.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with TABJSON_* settings")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format: text, json")
	pf.StringVar(&opts.summary, "summary", "", "Summary style: table, markdown, csv, none")
	pf.StringSliceVar(&opts.sheets, "sheets", nil, "Only read these workbook sheets")
	pf.StringVar(&opts.conflict, "conflict", "", "Conflicting header policy: reject, last-wins")
	pf.IntVar(&opts.workers, "workers", 0, "Concurrent table conversions (0: one per CPU)")

	root.AddCommand(
		newConvertCmd(opts, stdout, stderr),
		newValidateCmd(opts, stdout, stderr),
	)
	return root
}

func newConvertCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert INPUT...",
		Short: "Convert every table of the inputs",
		Long: `Convert every table of the inputs into nested JSON records.

Each .xlsx sheet and each .csv file is one table whose first row names the
key path of every column, e.g. "id", "address.city", "address.zip".

Without --out, valid tables are printed to stdout in --format. With --out,
results are written into a sheet of that workbook: one column per table with
its name, validity, row count, and one JSON line per cell.

Example: tabjson convert people.xlsx --out people.xlsx --sheet JSON`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger := newLogger(stderr, cfg)

			var skip []string
			if opts.out != "" && containsPath(args, opts.out) {
				skip = append(skip, cfg.Output.Sheet)
			}
			src, err := openSources(args, opts.sheets, skip)
			if err != nil {
				return err
			}

			var sink tabjson.Sink
			if opts.out != "" {
				xs, err := xlsx.NewSink(opts.out, cfg.Output.Sheet)
				if err != nil {
					return err
				}
				defer xs.Close()
				sink = xs
			} else {
				ws := tabjson.NewWriterSink(stdout, cfg.Format())
				if cfg.Output.Indent > 0 {
					ws.WithIndent(tabjson.Indent(strings.Repeat(" ", cfg.Output.Indent)))
				}
				sink = ws
			}

			conv := tabjson.Converter{
				Conflict: cfg.Policy(),
				Workers:  cfg.Convert.Workers,
				Logger:   logger,
			}
			results, err := conv.Run(cmd.Context(), src, sink)
			if err != nil {
				return err
			}
			return tabjson.WriteReport(stderr, cfg.Summary(), results)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "Stdout format: lines, json, jsonl, yaml")
	cmd.Flags().IntVar(&opts.indent, "indent", 0, "Spaces of indentation for json and yaml")
	cmd.Flags().StringVar(&opts.out, "out", "", "Write results into this .xlsx workbook")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Output sheet name for --out")

	return cmd
}

func newValidateCmd(opts *options, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate INPUT...",
		Short: "Check header rows without writing output",
		Long: `Check the header row of every table and print a summary.

Exits non-zero when any table is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger := newLogger(stderr, cfg)

			src, err := openSources(args, opts.sheets, nil)
			if err != nil {
				return err
			}
			tables, err := src.Tables(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w: %w", tabjson.ErrSourceUnavailable, err)
			}
			conv := tabjson.Converter{
				Conflict: cfg.Policy(),
				Workers:  cfg.Convert.Workers,
				Logger:   logger,
			}
			results, err := conv.ConvertAll(cmd.Context(), tables)
			if err != nil {
				return err
			}
			if err := tabjson.WriteReport(stdout, cfg.Summary(), results); err != nil {
				return err
			}
			invalid := 0
			for _, res := range results {
				if !res.Valid {
					invalid++
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%w: %d of %d", errInvalidTables, invalid, len(results))
			}
			return nil
		},
	}
}

// loadConfig layers changed command-line flags over the loaded config.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile, opts.envFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("log-level", &cfg.Logging.Level, opts.logLevel)
	set("log-format", &cfg.Logging.Format, opts.logFormat)
	set("summary", &cfg.Output.Summary, opts.summary)
	set("conflict", &cfg.Convert.Conflict, opts.conflict)
	set("format", &cfg.Output.Format, opts.format)
	set("sheet", &cfg.Output.Sheet, opts.sheet)
	if flags.Changed("workers") {
		cfg.Convert.Workers = opts.workers
	}
	if flags.Changed("indent") {
		cfg.Output.Indent = opts.indent
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return logging.Setup(w, cfg.Logging.Level, cfg.Logging.Format).
		With("run_id", uuid.NewString())
}

// openSources returns one source per input, in argument order.
func openSources(paths, sheets, skip []string) (tabjson.Source, error) {
	var multi tabjson.MultiSource
	for _, p := range paths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".csv":
			multi = append(multi, csvtable.Open(p))
		case ".xlsx", ".xlsm":
			multi = append(multi, xlsx.Open(p, xlsx.Options{Sheets: sheets, Skip: skip}))
		default:
			return nil, fmt.Errorf("unsupported input %s: want .xlsx or .csv", p)
		}
	}
	return multi, nil
}

func containsPath(paths []string, target string) bool {
	want, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil && abs == want {
			return true
		}
	}
	return false
}
