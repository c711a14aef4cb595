// internal/ensemble/table.go
package ensemble

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Table is a results file read fully into memory. Rows exclude the header.
type Table struct {
	Path   string
	Header []string
	Rows   [][]string
}

// ReadTable opens path, reads every record and closes it before returning.
func ReadTable(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("unable to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("%s is empty", path)
	}
	return Table{Path: path, Header: records[0], Rows: records[1:]}, nil
}

// Columns returns the header width.
func (t Table) Columns() int {
	return len(t.Header)
}

// Column parses column i of every row as a float. Empty cells become NaN.
func (t Table) Column(i int) ([]float64, error) {
	if i < 0 || i >= t.Columns() {
		return nil, fmt.Errorf("column %d out of range for %d columns in %s", i, t.Columns(), t.Path)
	}
	values := make([]float64, len(t.Rows))
	for row, record := range t.Rows {
		if i >= len(record) {
			return nil, fmt.Errorf("%w: %s row %d has %d fields, need column %d", ErrSchemaMismatch, t.Path, row+1, len(record), i)
		}
		v, err := parseCell(record[i])
		if err != nil {
			return nil, fmt.Errorf("%s row %d column %d: %w", t.Path, row+1, i, err)
		}
		values[row] = v
	}
	return values, nil
}

func parseCell(cell string) (float64, error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" || strings.EqualFold(trimmed, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(trimmed, 64)
}
