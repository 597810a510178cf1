// Package export writes tabular data to a spreadsheet file. The format
// follows the file extension: .csv writes comma separated values, anything
// else an Excel workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Writer overwrites one file on every Write.
type Writer struct {
	path  string
	sheet string
}

// New returns a Writer for path. sheet names the worksheet of .xlsx output.
func New(path, sheet string) *Writer {
	if sheet == "" {
		sheet = defaultSheet
	}
	return &Writer{path: path, sheet: sheet}
}

func (w *Writer) Path() string { return w.path }

// Write replaces the file with a header row followed by rows.
func (w *Writer) Write(header []string, rows [][]any) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	if strings.EqualFold(filepath.Ext(w.path), ".csv") {
		return w.writeCSV(header, rows)
	}
	return w.writeXLSX(header, rows)
}

func (w *Writer) writeXLSX(header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if w.sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, w.sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	centered, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(w.sheet, "A1", &head); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(w.sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if len(header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(header), len(rows)+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(w.sheet, "A1", last, centered); err != nil {
			return fmt.Errorf("align cells: %w", err)
		}
		lastCol, _ := excelize.ColumnNumberToName(len(header))
		if err := f.SetColWidth(w.sheet, "A", lastCol, 18); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save %s: %w", w.path, err)
	}
	return nil
}

func (w *Writer) writeCSV(header []string, rows [][]any) error {
	out, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", w.path, err)
	}
	defer out.Close()

	cw := csv.NewWriter(out)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = cellString(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	return out.Close()
}

func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
