// Package mcptool exposes the footprint calculator as an MCP tool served over
// stdio, so agents can ask for the carbon footprint of a page.
package mcptool

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"k8s.io/klog/v2"

	"github.com/elevated-systems/carbon-calculator/pkg/footprint"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/greenweb"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/lighthouse"
)

// ToolName is the name agents call the calculator by
const ToolName = "carbon_footprint"

// Handler answers carbon_footprint calls. Collaborators are shared, and each
// call gets its own Calculator so calls may run concurrently.
type Handler struct {
	Classifier greenweb.Classifier
	Analyzer   lighthouse.Analyzer
	Options    []footprint.Option
}

// ToolDefinition describes the carbon_footprint tool
func ToolDefinition() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Estimate the carbon footprint of loading a web page. Checks whether the site is hosted green, measures the transferred bytes with Lighthouse and returns energy (kWh), CO2 (grams) and water-equivalent (litres) as JSON. Takes up to a couple of minutes."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute http or https URL of the page to measure"),
		),
		mcp.WithBoolean("diagnostics",
			mcp.Description("Include both grid and renewable CO2 figures and the adjusted byte count (default: false)"),
		),
	)
}

// Handle runs one footprint computation
func (h *Handler) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := req.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("missing required argument: url"), nil
	}
	diagnostics := req.GetBool("diagnostics", false)

	calc := footprint.New(h.Classifier, h.Analyzer, h.Options...)
	if _, err := calc.Footprint(ctx, url); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Footprint failed: %v", err)), nil
	}

	var data []byte
	var err error
	if diagnostics {
		data, err = calc.ToJSONWithDiagnostics()
	} else {
		data, err = calc.ToJSON()
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("JSON encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// NewServer builds an MCP server exposing the calculator tool
func NewServer(h *Handler, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"carbon-calculator",
		version,
		server.WithToolCapabilities(true),
	)
	s.AddTool(ToolDefinition(), h.Handle)
	return s
}

// Serve runs the MCP server on stdio until stdin closes
func Serve(h *Handler, version string) error {
	klog.V(2).InfoS("Serving MCP over stdio", "tool", ToolName, "version", version)
	return server.ServeStdio(NewServer(h, version))
}
