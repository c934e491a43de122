package config

import (
	"flag"
	"fmt"
	"os"
)

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help bool

	// Core
	DataDir string
	Config  string

	// Epoch driver inputs
	BatchFile string

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetLogJSON bool
}

// ParseFlags parses command-line flags.
func ParseFlags() *Flags {
	f := &Flags{}
	fs := flag.NewFlagSet("opencoin", flag.ContinueOnError)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")

	// Core
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// Epoch driver
	fs.StringVar(&f.BatchFile, "batch", "", "JSON file with candidate transactions for one epoch")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	fs.Usage = func() {
		printUsage()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.Args = fs.Args()
	return f
}

// isFlagSet reports whether the named flag was explicitly provided.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

// Load builds the effective configuration: defaults, then config file,
// then flag overrides.
func Load() (*Config, *Flags, error) {
	f := ParseFlags()

	if f.Help {
		printUsage()
		os.Exit(0)
	}

	cfg := Default()
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	// Config file: explicit path or the default location in the data dir.
	path := f.Config
	if path == "" {
		path = cfg.ConfigFile()
	}
	values, err := LoadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, values); err != nil {
		return nil, nil, err
	}

	// Flags override the file.
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}

	return cfg, f, nil
}

// printUsage prints command-line help.
func printUsage() {
	fmt.Fprintf(os.Stderr, `opencoin-settle - UTXO batch settlement

Usage:
  opencoin-settle --batch=<file> [options]   Settle one epoch of candidate transactions
  opencoin-settle --help                     Show this help

Options:
  --datadir=<path>     Data directory (default: %s)
  --config=<path>      Config file (default: <datadir>/opencoin.conf)
  --batch=<file>       JSON file with the epoch's candidate transactions
  --log-level=<level>  debug, info, warn, error (default: info)
  --log-file=<path>    Also write JSON logs to a file
  --log-json           JSON logs on stdout
`, DefaultDataDir())
}
