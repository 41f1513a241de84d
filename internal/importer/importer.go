// Package importer reads truss members from drawings and from manual cut lists.
// Cut lists may be CSV or Excel with automatic delimiter detection, flexible
// column mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/TrussCut/internal/model"
	"github.com/xuri/excelize/v2"
)

// maxRowQuantity bounds how many members a single cut-list row may expand to.
const maxRowQuantity = 10000

// ImportResult holds the results of a cut-list import.
type ImportResult struct {
	Members  []model.Member
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Type     int
	Profile  int
	Length   int
	Quantity int
	Source   int
	Layer    int // TYPE_PROFILE layer name, alternative to Type+Profile
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"type":     {"type", "member", "member type", "role", "tipo"},
	"profile":  {"profile", "section", "perfil"},
	"length":   {"length", "len", "length (mm)", "comprimento", "size"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces", "quantidade"},
	"source":   {"source", "file", "drawing", "origin", "arquivo"},
	"layer":    {"layer", "camada"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
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

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// A row is a header only when it names a Type (or Layer) column and a Length
// column. Otherwise the positional mapping (Type, Profile, Length, Quantity,
// Source) is returned with false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Type:     -1,
		Profile:  -1,
		Length:   -1,
		Quantity: -1,
		Source:   -1,
		Layer:    -1,
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
				switch role {
				case "type":
					setOnce(&mapping.Type, i)
				case "profile":
					setOnce(&mapping.Profile, i)
				case "length":
					setOnce(&mapping.Length, i)
				case "quantity":
					setOnce(&mapping.Quantity, i)
				case "source":
					setOnce(&mapping.Source, i)
				case "layer":
					setOnce(&mapping.Layer, i)
				}
			}
		}
	}

	if isHeader && (mapping.Type == -1 && mapping.Layer == -1 || mapping.Length == -1) {
		isHeader = false
	}

	if !isHeader {
		return ColumnMapping{
			Type:     0,
			Profile:  1,
			Length:   2,
			Quantity: 3,
			Source:   4,
			Layer:    -1,
		}, false
	}

	return mapping, true
}

func setOnce(idx *int, i int) {
	if *idx == -1 {
		*idx = i
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts the members described by one row. A row with a quantity
// expands to that many identical members.
func parseRow(row []string, mapping ColumnMapping, rowLabel, defaultSource string) ([]model.Member, string) {
	var mt model.MemberType
	var profile string

	if layer := getCell(row, mapping.Layer); layer != "" {
		t, p, ok := model.ClassifyLayer(layer)
		if !ok {
			return nil, fmt.Sprintf("%s: Layer '%s' is not a structural layer", rowLabel, layer)
		}
		mt, profile = t, p
	} else {
		typeStr := getCell(row, mapping.Type)
		if typeStr == "" {
			return nil, fmt.Sprintf("%s: Missing member type", rowLabel)
		}
		t, ok := model.ParseMemberType(typeStr)
		if !ok {
			return nil, fmt.Sprintf("%s: Unknown member type '%s'", rowLabel, typeStr)
		}
		mt = t
		profile = strings.ToUpper(getCell(row, mapping.Profile))
		if profile == "" {
			profile = model.StandardProfile
		}
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return nil, fmt.Sprintf("%s: Missing length value", rowLabel)
	}
	length, err := model.ParseMeasure(lengthStr)
	if err != nil {
		return nil, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr)
	}
	if length <= 0 {
		return nil, fmt.Sprintf("%s: Length must be positive", rowLabel)
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil {
			return nil, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
		}
		if qty <= 0 || qty > maxRowQuantity {
			return nil, fmt.Sprintf("%s: Quantity must be between 1 and %d", rowLabel, maxRowQuantity)
		}
	}

	source := getCell(row, mapping.Source)
	if source == "" {
		source = defaultSource
	}

	members := make([]model.Member, qty)
	for i := range members {
		members[i] = model.Member{Type: mt, Profile: profile, Length: length, Source: source}
	}
	return members, ""
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

// ImportCSV imports members from a CSV cut list.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
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
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", filepath.Base(path), result.Warnings)
}

// ImportCSVFromReader imports members from a CSV reader with a known delimiter.
// Rows without a source column are attributed to source.
func ImportCSVFromReader(reader io.Reader, delimiter rune, source string) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", source, nil)
}

// ImportExcel imports members from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
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

	return importFromRows(rows, "Row", filepath.Base(path), nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix, defaultSource string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
	} else if len(rows[0]) >= 3 {
		// An unrecognized header still has a non-numeric length column
		if _, err := model.ParseMeasure(getCell(rows[0], mapping.Length)); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Unrecognized header row, using column order Type, Profile, Length, Quantity, Source")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		members, errMsg := parseRow(row, mapping, rowLabel, defaultSource)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Members = append(result.Members, members...)
	}

	return result
}

// ExtractPath reads members from a drawing or a cut list, chosen by file
// extension: .csv and .txt are CSV cut lists, .xlsx is an Excel cut list,
// anything else is read as a DXF drawing. A cut list with any row error fails
// as a whole with ErrMalformed, so a file is never half imported.
func ExtractPath(path string) ([]model.Member, error) {
	var result ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		if err := checkReadable(path); err != nil {
			return nil, err
		}
		result = ImportCSV(path)
	case ".xlsx", ".xlsm":
		if err := checkReadable(path); err != nil {
			return nil, err
		}
		result = ImportExcel(path)
	default:
		return ExtractFile(path)
	}

	if len(result.Errors) > 0 {
		err := fmt.Errorf("%d row error(s), first: %s", len(result.Errors), result.Errors[0])
		return nil, &FileError{Path: path, Kind: Malformed, Err: err}
	}
	return result.Members, nil
}
