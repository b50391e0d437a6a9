package excel

// RawRowData represents a row of raw data as header -> cell text. Header
// keys are lower-cased.
type RawRowData map[string]string

// ExcelData represents the complete tabular file
type ExcelData struct {
	Headers []string     // Column headers, as written in the file
	Rows    []RawRowData // Data rows
	Lines   []int        // 1-based file line of each data row
	Sheet   string       // Sheet the rows came from; empty for CSV
}
