package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Workbook appends rows to a local .xlsx file, creating it with a header
// row on first use.
type Workbook struct {
	path  string
	sheet string
	mu    sync.Mutex
}

// NewWorkbook creates a workbook appender for path.
func NewWorkbook(path, sheet string) *Workbook {
	if sheet == "" {
		sheet = "Form Responses"
	}
	return &Workbook{path: path, sheet: sheet}
}

// Append writes row below the last used row.
func (w *Workbook) Append(_ context.Context, row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", w.sheet, err)
	}

	if err := writeRow(f, w.sheet, len(rows)+1, row); err != nil {
		return err
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (w *Workbook) open() (*excelize.File, error) {
	if _, err := os.Stat(w.path); errors.Is(err, fs.ErrNotExist) {
		f := excelize.NewFile()
		if err := f.SetSheetName("Sheet1", w.sheet); err != nil {
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
		if err := writeRow(f, w.sheet, 1, Columns); err != nil {
			return nil, err
		}
		return f, nil
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	idx, err := f.GetSheetIndex(w.sheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to look up sheet: %w", err)
	}
	if idx < 0 {
		if _, err := f.NewSheet(w.sheet); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to add sheet: %w", err)
		}
		if err := writeRow(f, w.sheet, 1, Columns); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, row []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}

	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
