package spreadsheet

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheetsConfig locates the target sheet and the service account.
type GoogleSheetsConfig struct {
	SpreadsheetID   string
	Range           string
	CredentialsFile string
}

// GoogleSheets appends rows through the Sheets v4 API.
type GoogleSheets struct {
	values *sheets.SpreadsheetsValuesService
	cfg    GoogleSheetsConfig
}

// NewGoogleSheets authenticates with the service-account key file.
func NewGoogleSheets(ctx context.Context, cfg GoogleSheetsConfig) (*GoogleSheets, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}
	if cfg.Range == "" {
		cfg.Range = "Form Responses"
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &GoogleSheets{values: svc.Spreadsheets.Values, cfg: cfg}, nil
}

// Append writes row after the last row of the configured range. Values are
// entered as if typed, so dates and numbers are parsed by Sheets.
func (g *GoogleSheets) Append(ctx context.Context, row []string) error {
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	_, err := g.values.Append(g.cfg.SpreadsheetID, g.cfg.Range, &sheets.ValueRange{
		Values: [][]interface{}{values},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}
