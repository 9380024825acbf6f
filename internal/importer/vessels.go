// Package importer reads vessel styles in bulk from spreadsheets.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/candle.works/internal/costing"
)

var ErrMissingColumn = errors.New("missing required column")

// RowError explains why one spreadsheet row was skipped. Row is 1-based as
// shown in the spreadsheet.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

var requiredColumns = []string{"name", "diameter", "height"}

// ParseVessels reads the first sheet of an .xlsx workbook. The header row
// names the columns (name, diameter, height, optional unit) in any order.
// Invalid rows are reported and left out; a missing unit means inches.
func ParseVessels(r io.Reader) ([]costing.VesselGeometry, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("open workbook: no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: sheet %q is empty", ErrMissingColumn, sheets[0])
	}

	columns := make(map[string]int)
	for i, h := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
	}

	var vessels []costing.VesselGeometry
	var rowErrors []RowError
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blank(row) {
			continue
		}

		v, reason := parseRow(row, columns)
		if reason != "" {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Reason: reason})
			continue
		}
		vessels = append(vessels, v)
	}

	return vessels, rowErrors, nil
}

func parseRow(row []string, columns map[string]int) (costing.VesselGeometry, string) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	v := costing.VesselGeometry{Name: cell("name"), Unit: costing.UnitInches}
	if v.Name == "" {
		return v, "name is required"
	}

	var err error
	if v.Diameter, err = strconv.ParseFloat(cell("diameter"), 64); err != nil {
		return v, fmt.Sprintf("diameter %q is not a number", cell("diameter"))
	}
	if v.Height, err = strconv.ParseFloat(cell("height"), 64); err != nil {
		return v, fmt.Sprintf("height %q is not a number", cell("height"))
	}
	if unit := strings.ToLower(cell("unit")); unit != "" {
		v.Unit = costing.Unit(unit)
	}

	if err := v.Validate(); err != nil {
		return v, err.Error()
	}
	return v, ""
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
