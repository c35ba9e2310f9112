package importer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Container signatures checked before any parser touches the buffer, so a
// random upload fails with a clear message instead of a parser backtrace.
var (
	zipSignature  = []byte{0x50, 0x4B, 0x03, 0x04}                         // .xlsx
	ole2Signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1} // legacy .xls
)

var (
	ErrNotSpreadsheet = errors.New("file is not an Excel workbook")
	ErrNoDataRows     = errors.New("workbook has no readable data rows")
)

const maxXLSRows = 65536

// Decode validates the buffer's file signature, parses the first sheet and
// returns rows keyed by the header-row column names.
func Decode(data []byte) ([]map[string]string, error) {
	var (
		rows [][]string
		err  error
	)
	switch {
	case bytes.HasPrefix(data, zipSignature):
		rows, err = decodeXLSX(data)
	case bytes.HasPrefix(data, ole2Signature):
		rows, err = decodeXLS(data)
	default:
		return nil, ErrNotSpreadsheet
	}
	if err != nil {
		return nil, err
	}
	return keyByHeader(rows)
}

func decodeXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx workbook: %w", err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoDataRows
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func decodeXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, ErrNoDataRows
	}
	return wb.ReadAllCells(maxXLSRows), nil
}

// keyByHeader treats the first non-empty row as the header and maps every
// following row onto it. Blank rows are dropped.
func keyByHeader(rows [][]string) ([]map[string]string, error) {
	start := -1
	for i, row := range rows {
		if !allEmptyRow(row) {
			start = i
			break
		}
	}
	if start == -1 {
		return nil, ErrNoDataRows
	}
	header := make([]string, len(rows[start]))
	for i, cell := range rows[start] {
		header[i] = strings.TrimSpace(cell)
	}

	records := make([]map[string]string, 0, len(rows)-start-1)
	for _, row := range rows[start+1:] {
		if allEmptyRow(row) {
			continue
		}
		rec := make(map[string]string, len(header))
		for j, name := range header {
			if name == "" {
				continue
			}
			if j < len(row) {
				rec[name] = strings.TrimSpace(row[j])
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, ErrNoDataRows
	}
	return records, nil
}

func allEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
