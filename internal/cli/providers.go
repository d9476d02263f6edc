package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eshaffer321/ration-form/internal/adapters/ocr"
	"github.com/eshaffer321/ration-form/internal/adapters/spreadsheet"
	"github.com/eshaffer321/ration-form/internal/infrastructure/config"
	"github.com/eshaffer321/ration-form/internal/observability/metrics"
)

// NewRecognizer creates the tesseract recognizer wrapped so scans never fail.
// Fallbacks are counted on m when it is non-nil.
func NewRecognizer(cfg config.OCRConfig, m *metrics.Metrics, logger *slog.Logger) ocr.Recognizer {
	tess := ocr.NewTesseract(ocr.TesseractConfig{
		Binary:    cfg.Binary,
		Language:  cfg.Language,
		OEM:       cfg.OEM,
		PSM:       cfg.PSM,
		UploadDir: cfg.UploadDir,
	})

	return ocr.WithFallback(tess, cfg.FallbackText, logger).OnFallback(func(error) {
		m.ObserveScan(metrics.ResultFallback)
	})
}

// NewAppender creates the spreadsheet backend selected in cfg.
func NewAppender(ctx context.Context, cfg config.SpreadsheetConfig, logger *slog.Logger) (spreadsheet.Appender, error) {
	switch cfg.Backend {
	case config.BackendGoogle:
		sheets, err := spreadsheet.NewGoogleSheets(ctx, spreadsheet.GoogleSheetsConfig{
			SpreadsheetID:   cfg.SpreadsheetID,
			Range:           cfg.Range,
			CredentialsFile: cfg.CredentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Google Sheets appender: %w", err)
		}
		logger.Info("using google sheets backend", "spreadsheet_id", cfg.SpreadsheetID)
		return sheets, nil

	case config.BackendXLSX, "":
		logger.Info("using xlsx backend", "path", cfg.XLSXPath)
		return spreadsheet.NewWorkbook(cfg.XLSXPath, cfg.Range), nil
	}

	return nil, fmt.Errorf("unknown spreadsheet backend %q", cfg.Backend)
}
