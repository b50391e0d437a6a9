package export

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// WriteWorkbook writes each table to its own sheet, in order. A table that
// fails to write is reported while the remaining sheets are still written;
// the workbook is only emitted when every sheet succeeded.
func WriteWorkbook(w io.Writer, tables ...Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("workbook needs at least one table")
	}

	f := excelize.NewFile()
	defer f.Close()

	var multiErr error
	keepDefault := false
	first := -1
	for _, t := range tables {
		name := sheetName(t.Name)
		if name == defaultSheet {
			keepDefault = true
		}
		idx, err := f.NewSheet(name)
		if err != nil {
			multiErr = multierror.Append(multiErr, fmt.Errorf("sheet %s: %w", name, err))
			continue
		}
		if first < 0 {
			first = idx
		}
		if err := writeSheet(f, name, t); err != nil {
			multiErr = multierror.Append(multiErr, fmt.Errorf("sheet %s: %w", name, err))
		}
	}
	if multiErr != nil {
		return multiErr
	}

	if !keepDefault {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return err
		}
		first, _ = f.GetSheetIndex(sheetName(tables[0].Name))
	}
	f.SetActiveSheet(first)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, t Table) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d: %d cells for %d columns", i, len(row), len(t.Columns))
		}
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = xlsxCell(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func xlsxCell(v interface{}) interface{} {
	if p, ok := v.(*float64); ok {
		if p == nil {
			return nil
		}
		v = *p
	}
	// Excel has no infinities; write them as text.
	if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return v
}

// sheetName makes a table name usable as an Excel sheet name.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "table"
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
