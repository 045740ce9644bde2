package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/elevated-systems/carbon-calculator/pkg/footprint"
	"github.com/elevated-systems/carbon-calculator/pkg/footprint/config"
)

const (
	ansiGreen = "\033[32m"
	ansiGrey  = "\033[90m"
	ansiReset = "\033[0m"
)

func writeResult(w io.Writer, calc *footprint.Calculator, out config.OutputConfig) error {
	if out.Format == config.FormatSummary {
		return writeSummary(w, calc, out.Diagnostics, useColor(w))
	}

	var data []byte
	var err error
	if out.Diagnostics {
		data, err = calc.ToJSONWithDiagnostics()
	} else {
		data, err = calc.ToJSON()
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// useColor reports whether w is a terminal that accepts ANSI colours
func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeSummary(w io.Writer, calc *footprint.Calculator, diagnostics, color bool) error {
	r, err := calc.Record()
	if err != nil {
		return err
	}

	hosting := "grey (grid energy)"
	paint := ansiGrey
	if r.HostingGreen {
		hosting = "green (renewable energy)"
		paint = ansiGreen
	}
	if color {
		hosting = paint + hosting + ansiReset
	}

	fmt.Fprintf(w, "URL:          %s\n", r.URL)
	fmt.Fprintf(w, "Date:         %s\n", r.Date())
	fmt.Fprintf(w, "Hosting:      %s\n", hosting)
	fmt.Fprintf(w, "Transferred:  %s (decoded %s)\n",
		humanize.Bytes(uint64(r.TransferSizeBytes())),
		humanize.Bytes(uint64(r.ResourcesSizeBytes())))
	fmt.Fprintf(w, "Energy:       %.6g kWh\n", r.EnergyKWh)
	fmt.Fprintf(w, "CO2:          %.6g g\n", r.CO2Grams)
	fmt.Fprintf(w, "Water:        %.6g L\n", r.WaterLitres)

	if diagnostics {
		d := r.Diagnostics()
		fmt.Fprintf(w, "Adjusted:     %s\n", humanize.Bytes(uint64(d.AdjustedBytes)))
		fmt.Fprintf(w, "Grid CO2:     %.6g g (%.6g L)\n", d.Grid.CO2Grams, d.Grid.WaterLitres)
		fmt.Fprintf(w, "Renewable:    %.6g g (%.6g L)\n", d.Renewable.CO2Grams, d.Renewable.WaterLitres)
	}
	return nil
}
