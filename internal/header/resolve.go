// internal/header/resolve.go
package header

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwiater/fumeplot/internal/logging"
)

const (
	// ResultsFile is the per-replica output table.
	ResultsFile = "out.csv"
	// MovelogFile is the per-replica migration log.
	MovelogFile = "migration.log"
)

// Resolve derives the Schema for mode from the first directory whose results
// file can be read. The remaining replicas are assumed to share its layout.
func Resolve(dirs []string, mode Mode) (Schema, error) {
	layout, err := LayoutFor(mode)
	if err != nil {
		return Schema{}, err
	}

	headers, source, err := firstHeaderRow(dirs, ResultsFile)
	if err != nil {
		return Schema{}, err
	}

	schema, err := layout.Derive(headers)
	if err != nil {
		return Schema{}, fmt.Errorf("%s: %w", source, err)
	}
	schema.Source = source
	if err := schema.Validate(); err != nil {
		return Schema{}, err
	}

	logging.LogEvent("[HEADER] mode=%s source=%s columns=%d locations=%d", mode, source, len(headers), schema.Len())
	return schema, nil
}

// ReadMovelogHeaders returns the column names of the first readable migration.log.
func ReadMovelogHeaders(dirs []string) ([]string, error) {
	headers, source, err := firstHeaderRow(dirs, MovelogFile)
	if err != nil {
		return nil, err
	}
	logging.LogEvent("[HEADER] movelog source=%s columns=%d", source, len(headers))
	return headers, nil
}

// ReadHeaderRow reads only the first record of a comma-separated file.
func ReadHeaderRow(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	record, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s is empty", path)
		}
		return nil, fmt.Errorf("unable to read header of %s: %w", path, err)
	}
	if len(record) > 0 {
		record[0] = strings.TrimPrefix(record[0], "\ufeff")
	}
	return record, nil
}

func firstHeaderRow(dirs []string, name string) ([]string, string, error) {
	if len(dirs) == 0 {
		return nil, "", fmt.Errorf("%w: no output directories given", ErrMissingSchema)
	}

	var lastErr error
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		headers, err := ReadHeaderRow(path)
		if err != nil {
			logging.LogEvent("[HEADER] skipping %s: %v", path, err)
			lastErr = err
			continue
		}
		return headers, path, nil
	}
	return nil, "", fmt.Errorf("%w: no readable %s in %d directories: %v", ErrMissingSchema, name, len(dirs), lastErr)
}
