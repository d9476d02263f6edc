package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/eshaffer321/ration-form/internal/infrastructure/config"
)

// PrintHeader prints the application header
func PrintHeader(w io.Writer, name string, port int) {
	fmt.Fprintf(w, "ration-form: %s (port %d)\n", name, port)
}

// PrintConfiguration prints the collaborators a server was wired with.
func PrintConfiguration(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Database: %s\n", cfg.Storage.DatabasePath)

	switch cfg.Spreadsheet.Backend {
	case config.BackendGoogle:
		fmt.Fprintf(w, "Spreadsheet: google sheets %s (%s)\n", cfg.Spreadsheet.SpreadsheetID, cfg.Spreadsheet.Range)
	default:
		fmt.Fprintf(w, "Spreadsheet: xlsx %s (%s)\n", cfg.Spreadsheet.XLSXPath, cfg.Spreadsheet.Range)
	}

	fmt.Fprintf(w, "OCR: %s -l %s --oem %d --psm %d\n", cfg.OCR.Binary, cfg.OCR.Language, cfg.OCR.OEM, cfg.OCR.PSM)
	if cfg.Observability.Metrics.Enabled {
		fmt.Fprintln(w, "Metrics: /metrics")
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))
}
