package models

// CsvImportRequest is the body of POST /admin/import/projects. CsvData is
// forwarded verbatim by clients; all parsing and validation happens here.
type CsvImportRequest struct {
	CsvData   string `json:"csvData"`
	Overwrite bool   `json:"overwrite"`
}

// CsvRowError reports one failed data row. Row is 1-based and counts from
// the first data row, not the header.
type CsvRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// CsvImportResult summarises a bulk import. Rows with fatal parse errors
// count toward Errors only, so Created+Updated+Skipped <= Total.
type CsvImportResult struct {
	Total   int           `json:"total"`
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Skipped int           `json:"skipped"`
	Errors  []CsvRowError `json:"errors"`
}
