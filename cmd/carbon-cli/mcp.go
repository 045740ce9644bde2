package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/prometheus/common/version"
	"k8s.io/klog/v2"

	"github.com/elevated-systems/carbon-calculator/pkg/footprint/config"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/greenweb"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/lighthouse"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/mcptool"
)

var serveMCP = mcptool.Serve

// newMCPHandler opens the shared collaborators for the MCP server
func newMCPHandler(cfg *config.Config) (*mcptool.Handler, io.Closer, error) {
	dataset, err := greenweb.NewService(cfg.GreenWeb.DatasetPath)
	if err != nil {
		return nil, nil, err
	}
	return &mcptool.Handler{
		Classifier: dataset,
		Analyzer:   lighthouse.NewService(cfg.Lighthouse.Path, lighthouse.WithTimeout(cfg.Lighthouse.Timeout)),
	}, dataset, nil
}

func mcpCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(binaryName+" mcp", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "%s mcp: unexpected arguments %v\n", binaryName, fs.Args())
		return exitUsage
	}

	cfg, _, err := common.load(fs)
	if err != nil {
		fmt.Fprintf(stderr, "%s mcp: error: %v\n", binaryName, err)
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%s mcp: invalid configuration: %v\n", binaryName, err)
		return exitUsage
	}

	handler, closer, err := newMCPHandler(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "%s mcp: error: %v\n", binaryName, err)
		return exitFailure
	}
	defer closer.Close()

	klog.InfoS("Starting MCP server", "dataset", cfg.GreenWeb.DatasetPath, "lighthouse", cfg.Lighthouse.Path)
	if err := serveMCP(handler, version.Version); err != nil {
		fmt.Fprintf(stderr, "%s mcp: error: %v\n", binaryName, err)
		return exitFailure
	}
	return exitSuccess
}
