package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/klog/v2"

	"github.com/elevated-systems/carbon-calculator/pkg/footprint"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/config"
)

var (
	newCalculator = footprint.NewFromConfig
	// gatherer backs --metrics-textfile
	gatherer prometheus.Gatherer = prometheus.DefaultGatherer
)

// commonFlags are shared by every command that builds a calculator
type commonFlags struct {
	configPath string
	dataset    string
	lighthouse string
	timeout    time.Duration
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&f.dataset, "greenweb", "", "Green Web Foundation SQLite dataset (required)")
	fs.StringVar(&f.dataset, "db", "", "Green Web Foundation SQLite dataset (short)")
	fs.StringVar(&f.lighthouse, "lighthouse", "", "Lighthouse executable (default: lighthouse in PATH)")
	fs.StringVar(&f.lighthouse, "lh", "", "Lighthouse executable (short)")
	fs.DurationVar(&f.timeout, "timeout", 0, "Lighthouse run timeout (default: 2m)")
	klog.InitFlags(fs)
}

// load merges defaults, config file, environment and the flags that were
// explicitly set, in increasing precedence.
func (f *commonFlags) load(fs *flag.FlagSet) (*config.Config, map[string]bool, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["greenweb"] || set["db"] {
		cfg.GreenWeb.DatasetPath = f.dataset
	}
	if set["lighthouse"] || set["lh"] {
		cfg.Lighthouse.Path = f.lighthouse
	}
	if set["timeout"] {
		cfg.Lighthouse.Timeout = f.timeout
	}
	return cfg, set, nil
}

func footprintCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(binaryName+" footprint", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		common      commonFlags
		format      string
		diagnostics bool
		textfile    string
	)
	common.register(fs)
	fs.StringVar(&format, "format", config.FormatJSON, "Output format: json or summary")
	fs.BoolVar(&diagnostics, "diagnostics", false, "Add both CO2 paths and the adjusted byte count to the output")
	fs.StringVar(&textfile, "metrics-textfile", "", "Write run metrics to this file in Prometheus text format")
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help (short)")
	fs.Usage = func() { printFootprintUsage(stderr) }

	rest, err := parseInterleaved(fs, args)
	if err != nil {
		return exitUsage
	}
	if *help {
		printFootprintUsage(stdout)
		return exitSuccess
	}

	if len(rest) != 1 {
		fmt.Fprintf(stderr, "%s: expected exactly one URL, got %d arguments\n", binaryName, len(rest))
		return exitUsage
	}
	url := rest[0]

	cfg, set, err := common.load(fs)
	if err != nil {
		fmt.Fprintf(stderr, "%s: error: %v\n", binaryName, err)
		return exitUsage
	}
	if set["format"] {
		cfg.Output.Format = format
	}
	if set["diagnostics"] {
		cfg.Output.Diagnostics = diagnostics
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%s: invalid configuration: %v\n", binaryName, err)
		return exitUsage
	}

	calc, err := newCalculator(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "%s: error: %v\n", binaryName, err)
		return exitFailure
	}
	defer func() {
		if err := calc.Close(); err != nil {
			klog.ErrorS(err, "Failed to close calculator")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := exitSuccess
	if _, err := calc.Footprint(ctx, url); err != nil {
		fmt.Fprintf(stderr, "%s: error: %v\n", binaryName, err)
		code = exitFailure
	} else if err := writeResult(stdout, calc, cfg.Output); err != nil {
		fmt.Fprintf(stderr, "%s: error: %v\n", binaryName, err)
		code = exitFailure
	}

	if textfile != "" {
		if err := prometheus.WriteToTextfile(textfile, gatherer); err != nil {
			fmt.Fprintf(stderr, "%s: writing metrics: %v\n", binaryName, err)
			code = exitFailure
		}
	}
	return code
}

// parseInterleaved parses args with fs, allowing flags on either side of the
// positional arguments, and returns the positionals in order. Everything
// after a "--" terminator is positional.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func printFootprintUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage: %[1]s [footprint] [flags] URL [flags]

Estimate the energy, CO2 and water footprint of loading URL. Flags may come
before or after URL.

Flags:
  -db, --greenweb string      Green Web Foundation SQLite dataset (required)
  -lh, --lighthouse string    Lighthouse executable (default: lighthouse in PATH)
  --config string             YAML configuration file
  --timeout duration          Lighthouse run timeout (default: 2m)
  --format string             Output format: json or summary (default: json)
  --diagnostics               Add both CO2 paths and the adjusted byte count
  --metrics-textfile string   Write run metrics in Prometheus text format
  -v int                      Log verbosity
  -h, --help                  Show help

Environment:
  GREENWEB_PATH, LIGHTHOUSE_PATH, LIGHTHOUSE_TIMEOUT, OUTPUT_FORMAT, OUTPUT_DIAGNOSTICS

Exit codes:
  0   Footprint computed
  1   Footprint failed
  2   Usage or configuration error
`, binaryName)
}
