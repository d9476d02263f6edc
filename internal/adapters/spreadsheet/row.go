// Package spreadsheet writes submitted expenses as rows of a spreadsheet.
package spreadsheet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eshaffer321/ration-form/internal/domain/expense"
)

// Appender adds one row to the expense sheet.
type Appender interface {
	Append(ctx context.Context, row []string) error
}

// Columns is the header of the expense sheet, in row order.
var Columns = []string{
	"Timestamp",
	"Email",
	"Date",
	"Location",
	"Vendor",
	"Type",
	"Description",
	"Paid By",
	"Total Cost",
	"Name #1",
	"Name #2",
	"Name #3",
	"Name #4",
	"Reference",
	"Notes",
	"Clearance",
}

const (
	timestampLayout = "02/01/2006 03:04:05"
	dateLayout      = "02/01/2006"
	formDateLayout  = "2006-01-02"
)

// BuildRow flattens form into the sheet's column order. An empty
// description is replaced by a summary of the items.
func BuildRow(form expense.Form, now time.Time) []string {
	description := form.Description
	if description == "" {
		description = ItemSummary(form.Items)
	}

	row := []string{
		now.Format(timestampLayout),
		form.Email,
		formatDate(form.Date),
		form.Location,
		form.Vendor,
		form.Type,
		description,
		string(form.PaidBy),
		form.TotalCost().String(),
	}
	row = append(row, form.Ration.Strings()...)
	return append(row, "N/A", "", string(form.Clearance))
}

// ItemSummary lists items one per line as "2x Milk RM3.50".
func ItemSummary(items []expense.LineItem) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%sx %s RM%s", item.Amount, item.Label, item.Price)
	}
	return strings.Join(lines, "\n")
}

// formatDate converts a YYYY-MM-DD form date to DD/MM/YYYY. Other input is
// passed through untouched.
func formatDate(s string) string {
	d, err := time.Parse(formDateLayout, s)
	if err != nil {
		return s
	}
	return d.Format(dateLayout)
}
