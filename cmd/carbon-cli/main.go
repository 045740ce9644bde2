package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/common/version"
	"k8s.io/klog/v2"
)

const binaryName = "carbon-cli"

const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

var (
	runFootprint = footprintCommand
	runMCP       = mcpCommand
)

func main() {
	code := run(os.Args[1:], os.Stdout, os.Stderr)
	klog.Flush()
	os.Exit(code)
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "footprint":
		return runFootprint(args[1:], stdout, stderr)
	case "mcp":
		return runMCP(args[1:], stdout, stderr)
	case "version", "--version":
		fmt.Fprintln(stdout, version.Print(binaryName))
		return exitSuccess
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitSuccess
	default:
		// flags or a bare URL go to the default footprint command
		if strings.HasPrefix(args[0], "-") || strings.Contains(args[0], "://") {
			return runFootprint(args, stdout, stderr)
		}
		fmt.Fprintf(stderr, "%s: unknown command %q\n\n", binaryName, args[0])
		printUsage(stderr)
		return exitUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage: %[1]s <command> [args]

Commands:
  footprint  Estimate the carbon footprint of a web page (default)
  mcp        Run as MCP server (stdio transport, for AI agents)
  version    Print version information

Examples:
  %[1]s -db green_urls.db https://example.com
  %[1]s footprint --greenweb green_urls.db --format summary https://example.com
  %[1]s mcp --config carbon.yaml
`, binaryName)
}
