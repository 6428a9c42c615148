// wdfextract extracts every asset from one or more WDF archives.
//
// Each archive's category is its file name without extension, so
// data/Character.wdf extracts with category "character". Asset paths are
// recovered from a known-name list when one is given; anything the list
// does not name is written as <category>/unknown/<uid>.<ext>.
//
// Usage:
//
//	wdfextract [flags] ARCHIVE...
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/meigma/wdf"
	"github.com/meigma/wdf/internal/config"
	"github.com/meigma/wdf/names"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath   string
	namesPath    string
	output       string
	workers      int
	directWrites bool
	skipExisting bool
	logLevel     string
}

func run(args []string, stderr io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("wdfextract", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "YAML extraction profile")
	flagSet.StringVarP(&opts.namesPath, "names", "n", "", "known-name list (path|uid or path uid per line)")
	flagSet.StringVarP(&opts.output, "output", "o", "", "output directory (default from profile, else ./output)")
	flagSet.IntVarP(&opts.workers, "workers", "j", 1, "entities extracted concurrently per archive")
	flagSet.BoolVar(&opts.directWrites, "direct-writes", false, "write assets in place instead of temp file + rename")
	flagSet.BoolVar(&opts.skipExisting, "skip-existing", false, "leave existing output files untouched")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: wdfextract [flags] ARCHIVE...\n\nFlags:\n%s", flagSet.FlagUsages())
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	archives := flagSet.Args()
	if len(archives) == 0 {
		flagSet.Usage()
		return errors.New("no archives given")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", opts.logLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(flagSet, &opts)
	if err != nil {
		return err
	}

	var table *names.Table
	if cfg.Names != "" {
		table, err = names.LoadFile(cfg.Names)
		if err != nil {
			return err
		}
		logger.Info("name list loaded", "path", cfg.Names, "names", table.Len())
	}

	policy := cfg.Policy()
	var failed int
	for _, path := range archives {
		if err := extractArchive(logger, path, cfg, table, policy); err != nil {
			logger.Error("extraction failed", "archive", path, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d archives failed", failed, len(archives))
	}
	return nil
}

// loadConfig reads the profile and applies the flags the user set.
func loadConfig(flagSet *pflag.FlagSet, opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.LoadFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flagSet.Changed("names") {
		cfg.Names = opts.namesPath
	}
	if flagSet.Changed("output") {
		cfg.Output = opts.output
	}
	if flagSet.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flagSet.Changed("direct-writes") {
		cfg.DirectWrites = opts.directWrites
	}
	if flagSet.Changed("skip-existing") {
		cfg.SkipExisting = opts.skipExisting
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func extractArchive(logger *slog.Logger, path string, cfg *config.Config, table *names.Table, policy wdf.DecodePolicy) error {
	category := wdf.CategoryFromPath(path)
	a, err := wdf.Open(path,
		wdf.WithCategory(category),
		wdf.WithLogger(logger.With("archive", filepath.Base(path))),
	)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.ExtractAll(cfg.Output, table, policy, cfg.ExtractOptions()...)
	if err != nil {
		return err
	}

	var known, decoded int
	for _, asset := range result.Extracted {
		if asset.Known {
			known++
		}
		if asset.Decoded {
			decoded++
		}
	}
	logger.Info("archive done",
		"archive", path,
		"category", category,
		"entries", a.EntryCount(),
		"extracted", len(result.Extracted),
		"known", known,
		"decoded", decoded,
		"existing", len(result.Existing),
		"skipped", len(result.Skipped),
		"bytes", result.Bytes(),
	)
	return nil
}
