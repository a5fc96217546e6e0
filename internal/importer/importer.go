// Package importer loads placed-rectangle layouts from packing-service JSON,
// CSV and Excel tables, and DXF drawings. Tables get automatic delimiter
// detection and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PackView/internal/logging"
	"github.com/piwi3910/PackView/internal/model"
)

// ImportResult holds the results of an import operation. Layout is usable
// whenever Errors is empty; row-level problems are reported without
// aborting the rest of the table.
type ImportResult struct {
	Layout   model.Layout
	Errors   []string
	Warnings []string
}

// OK reports whether the import produced no errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID      int
	X       int
	Y       int
	Width   int
	Height  int
	Rotated int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":      {"id", "label", "name", "part", "#", "no", "nr"},
	"x":       {"x", "left", "pos x", "x position"},
	"y":       {"y", "bottom", "pos y", "y position"},
	"width":   {"width", "w", "length", "len"},
	"height":  {"height", "h", "depth"},
	"rotated": {"rotated", "rotation", "rot", "turned"},
}

// Import loads path according to its extension: .json is a packing-service
// response, .xlsx/.xlsm/.xls an Excel table, .dxf a drawing, and anything
// else a CSV table. bin is used by the table formats only.
func Import(path string, bin model.Bin) ImportResult {
	var result ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		result = importPackResponseFile(path)
	case ".xlsx", ".xlsm", ".xls":
		result = ImportExcel(path, bin)
	case ".dxf":
		result = ImportDXF(path)
	default:
		result = ImportCSV(path, bin)
	}
	if result.OK() {
		result.Layout.Name = layoutName(path)
	}
	logging.Logger().Debug("import",
		"path", path,
		"rectangles", len(result.Layout.Rectangles),
		"errors", len(result.Errors),
		"warnings", len(result.Warnings))
	return result
}

// ImportPackResponse decodes a packing-service response and converts it to
// a layout. A response with success=false yields model.ErrPackingFailed.
func ImportPackResponse(r io.Reader) (model.Layout, error) {
	var resp model.PackResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return model.Layout{}, fmt.Errorf("failed to decode pack response: %w", err)
	}
	layout, err := resp.Layout()
	if err != nil {
		return model.Layout{}, fmt.Errorf("failed to import pack response: %w", err)
	}
	return layout, nil
}

func importPackResponseFile(path string) ImportResult {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	defer f.Close()

	layout, err := ImportPackResponse(f)
	if err != nil {
		return ImportResult{Errors: []string{err.Error()}}
	}
	return ImportResult{Layout: layout}
}

func layoutName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		records, err := newCSVReader(bytes.NewReader(data), delim).ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Consistency first, then column count.
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

func newCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (id, x, y, width, height, rotated) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, X: -1, Y: -1, Width: -1, Height: -1, Rotated: -1}
	roles := map[string]*int{
		"id":      &mapping.ID,
		"x":       &mapping.X,
		"y":       &mapping.Y,
		"width":   &mapping.Width,
		"height":  &mapping.Height,
		"rotated": &mapping.Rotated,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if idx := roles[role]; *idx == -1 {
					*idx = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{ID: 0, X: 1, Y: 2, Width: 3, Height: 4, Rotated: 5}, false
	}
	return mapping, true
}

// parseRotated converts a rotation flag to a bool. It returns the value and
// whether the string was recognised.
func parseRotated(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "x", "90":
		return true, true
	case "", "false", "no", "n", "0", "-":
		return false, true
	default:
		return false, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseNumber(row []string, idx int, name, rowLabel string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
	}
	return v, ""
}

// parseRow extracts a PlacedRectangle from a row using the given column
// mapping. Returns the rectangle, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, rectCount int) (model.PlacedRectangle, string, string) {
	var values [4]float64
	fields := []struct {
		idx  int
		name string
	}{
		{mapping.X, "x"},
		{mapping.Y, "y"},
		{mapping.Width, "width"},
		{mapping.Height, "height"},
	}
	for i, f := range fields {
		v, errMsg := parseNumber(row, f.idx, f.name, rowLabel)
		if errMsg != "" {
			return model.PlacedRectangle{}, errMsg, ""
		}
		values[i] = v
	}

	r := model.PlacedRectangle{
		ID: getCell(row, mapping.ID),
		X:  values[0],
		Y:  values[1],
		W:  values[2],
		H:  values[3],
	}
	if r.W <= 0 || r.H <= 0 {
		return model.PlacedRectangle{}, fmt.Sprintf("%s: Width and height must be positive", rowLabel), ""
	}
	if r.ID == "" {
		r.ID = strconv.Itoa(rectCount + 1)
	}

	var warning string
	if s := getCell(row, mapping.Rotated); s != "" {
		rotated, ok := parseRotated(s)
		if ok {
			r.Rotated = rotated
		} else {
			warning = fmt.Sprintf("%s: Unknown rotation flag '%s', assuming not rotated", rowLabel, s)
		}
	}

	return r, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports placed rectangles for bin from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string, bin model.Bin) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := newCSVReader(bytes.NewReader(data), delimiter).ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, bin, "Line", warnings)
}

// ImportCSVFromReader imports placed rectangles for bin from a CSV reader
// with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, bin model.Bin) ImportResult {
	records, err := newCSVReader(reader, delimiter).ReadAll()
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, bin, "Line", nil)
}

// ImportExcel imports placed rectangles for bin from the first sheet of an
// Excel workbook.
func ImportExcel(path string, bin model.Bin) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, bin, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, bin model.Bin, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Layout:   model.NewLayout(bin),
		Warnings: initialWarnings,
	}

	if err := bin.Validate(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Bin: %v", err))
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		for _, c := range []struct {
			idx  int
			name string
		}{
			{mapping.X, "X"},
			{mapping.Y, "Y"},
			{mapping.Width, "Width"},
			{mapping.Height, "Height"},
		} {
			if c.idx == -1 {
				missing = append(missing, c.name)
			}
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 5 {
		// An unrecognised header still has a non-numeric x column.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		r, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Layout.Rectangles))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		if !r.InBin(bin) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: Rectangle %s extends past the bin", rowLabel, r.ID))
		}
		result.Layout.Rectangles = append(result.Layout.Rectangles, r)
	}

	if len(result.Layout.Rectangles) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}
