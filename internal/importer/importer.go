package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/UnknownOlympus/iris/internal/models"
)

// ErrMalformedCSV reports a file-level failure: nothing from the input may be imported.
var ErrMalformedCSV = errors.New("malformed csv")

// ParseError describes why an input was rejected as a whole. It matches ErrMalformedCSV.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedCSV, e.Err}
}

// Columns lists the header names understood by the importer, in the order the import guide shows them.
var Columns = []string{"name", "designation", "email", "phone", "department", "linkedIn", "website", "photoUrl"}

// Result is the outcome of parsing one CSV input.
type Result struct {
	Employees []models.Employee
	Dropped   int // rows whose field count differs from the header
}

// ParseFile parses the CSV file at path.
func ParseFile(path string, newID func() string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, &ParseError{Err: fmt.Errorf("failed to open file: %w", err)}
	}
	defer file.Close()

	return Parse(file, newID)
}

// Parse reads a header row followed by employee rows. Every accepted row is completed
// with an id from newID and a placeholder photo when it has none.
func Parse(r io.Reader, newID func() string) (Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, &ParseError{Err: errors.New("missing header row")}
	}
	if err != nil {
		return Result{}, &ParseError{Err: err}
	}
	colIndexMap := buildColumnIndexMap(header)

	var result Result
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, &ParseError{Err: err}
		}

		if isBlank(record) {
			continue
		}
		if len(record) != len(header) {
			result.Dropped++
			continue
		}

		result.Employees = append(result.Employees, parseRow(record, colIndexMap).Complete(newID()))
	}

	return result, nil
}

// buildColumnIndexMap maps lower-cased column names to their index.
func buildColumnIndexMap(header []string) map[string]int {
	colMap := make(map[string]int, len(header))
	for i, colName := range header {
		if i == 0 {
			colName = strings.TrimPrefix(colName, "\ufeff")
		}
		name := strings.TrimSpace(strings.ToLower(colName))
		if _, seen := colMap[name]; !seen {
			colMap[name] = i
		}
	}

	return colMap
}

func parseRow(record []string, colMap map[string]int) models.PartialEmployee {
	getCol := func(name string) string {
		if idx, ok := colMap[strings.ToLower(name)]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	return models.PartialEmployee{
		Name:        getCol("name"),
		Designation: getCol("designation"),
		Email:       getCol("email"),
		Phone:       getCol("phone"),
		Department:  getCol("department"),
		PhotoURL:    getCol("photoUrl"),
		LinkedIn:    getCol("linkedIn"),
		Website:     getCol("website"),
	}
}

func isBlank(record []string) bool {
	return len(record) == 1 && strings.TrimSpace(record[0]) == ""
}
