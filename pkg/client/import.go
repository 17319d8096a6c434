package client

import (
	"context"
	"fmt"
	"strings"

	"winter-of-code-backend/internal/models"
)

// maxDisplayedRowErrors caps how many row errors FormatRowErrors spells
// out before collapsing the rest into a count.
const maxDisplayedRowErrors = 5

// ImportProjects uploads CSV data to the bulk import endpoint. Requires
// an admin token. The returned result carries per-row errors for any
// rows that were rejected; the call itself only fails when the whole
// request is rejected.
func (c *Client) ImportProjects(ctx context.Context, csvData string, overwrite bool) (*models.CsvImportResult, error) {
	req := models.CsvImportRequest{CsvData: csvData, Overwrite: overwrite}
	var result models.CsvImportResult
	if err := c.do(ctx, "POST", "/admin/import/projects", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FormatRowErrors renders row errors for display, one per line, showing
// at most five and summarising the remainder as "+N more".
func FormatRowErrors(errs []models.CsvRowError) string {
	if len(errs) == 0 {
		return ""
	}

	shown := errs
	if len(shown) > maxDisplayedRowErrors {
		shown = shown[:maxDisplayedRowErrors]
	}

	var b strings.Builder
	for i, e := range shown {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "row %d: %s", e.Row, e.Error)
	}
	if extra := len(errs) - len(shown); extra > 0 {
		fmt.Fprintf(&b, "\n+%d more", extra)
	}
	return b.String()
}
