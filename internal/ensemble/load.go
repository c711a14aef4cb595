// internal/ensemble/load.go
package ensemble

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mwiater/fumeplot/internal/logging"
)

// ResultsFile is the per-replica table the series are read from.
const ResultsFile = "out.csv"

// ErrSchemaMismatch is returned when a replica's shape disagrees with the ensemble.
var ErrSchemaMismatch = errors.New("schema mismatch")

// ErrNoReplicas is returned when there is nothing left to aggregate.
var ErrNoReplicas = errors.New("no replicas")

// MismatchError describes which replica disagreed and how.
type MismatchError struct {
	Dir      string
	Column   int
	Field    string
	Expected int
	Actual   int
}

func (e *MismatchError) Error() string {
	switch e.Field {
	case "columns":
		return fmt.Sprintf("schema mismatch in %s: column %d requested but only %d columns present", e.Dir, e.Column, e.Actual)
	default:
		return fmt.Sprintf("schema mismatch in %s: expected %d %s, got %d", e.Dir, e.Expected, e.Field, e.Actual)
	}
}

func (e *MismatchError) Unwrap() error { return ErrSchemaMismatch }

// Options control how replicas are loaded.
type Options struct {
	// Mode is only used to label log lines.
	Mode string
	// SkipMismatched excludes replicas that fail to load or disagree with the
	// first replica instead of failing the whole load.
	SkipMismatched bool
}

// Ensemble reads replica tables once and serves column series from memory for
// the duration of a reporting run.
type Ensemble struct {
	Dirs []string
	opts Options

	tables map[string]Table
}

// New returns an Ensemble over dirs. No files are read until a series is requested.
func New(dirs []string, opts Options) *Ensemble {
	return &Ensemble{
		Dirs:   append([]string(nil), dirs...),
		opts:   opts,
		tables: make(map[string]Table),
	}
}

// LoadSeries extracts column from every replica, failing on the first mismatch.
func LoadSeries(dirs []string, column int) (Traces, error) {
	return New(dirs, Options{}).Series(column)
}

// LoadSeriesWith is LoadSeries with explicit options.
func LoadSeriesWith(dirs []string, column int, opts Options) (Traces, error) {
	return New(dirs, opts).Series(column)
}

// LoadReference reads the reference series at column from the first readable
// replica. A negative column means there is no reference and returns nil.
func LoadReference(dirs []string, column int) ([]float64, error) {
	return New(dirs, Options{}).Reference(column)
}

func (e *Ensemble) table(dir string) (Table, error) {
	if t, ok := e.tables[dir]; ok {
		return t, nil
	}
	t, err := ReadTable(filepath.Join(dir, ResultsFile))
	if err != nil {
		return Table{}, err
	}
	e.tables[dir] = t
	return t, nil
}

// Series returns column of every replica, one trace per directory.
func (e *Ensemble) Series(column int) (Traces, error) {
	if len(e.Dirs) == 0 {
		return Traces{}, fmt.Errorf("%w: empty ensemble", ErrNoReplicas)
	}

	traces := Traces{Column: column}
	expected := -1
	for _, dir := range e.Dirs {
		values, err := e.column(dir, column)
		if err == nil && expected >= 0 && len(values) != expected {
			err = &MismatchError{Dir: dir, Column: column, Field: "rows", Expected: expected, Actual: len(values)}
		}
		if err != nil {
			if !e.opts.SkipMismatched {
				return Traces{}, err
			}
			logging.LogLoad(e.opts.Mode, dir, column, err)
			traces.Excluded = append(traces.Excluded, err)
			continue
		}
		if expected < 0 {
			expected = len(values)
		}
		traces.Dirs = append(traces.Dirs, dir)
		traces.Values = append(traces.Values, values)
		logging.LogDebug("loaded %s column=%d rows=%d", dir, column, len(values))
	}

	if traces.Size() == 0 {
		return Traces{}, fmt.Errorf("%w: all %d replicas excluded for column %d", ErrNoReplicas, len(e.Dirs), column)
	}
	return traces, nil
}

// Reference returns the observed series at column, or nil when column < 0.
func (e *Ensemble) Reference(column int) ([]float64, error) {
	return e.referenceFrom(e.Dirs, column)
}

// ReferenceFor reads the reference only from replicas kept in traces, so a
// replica excluded in lenient mode never supplies it.
func (e *Ensemble) ReferenceFor(traces Traces, column int) ([]float64, error) {
	if len(traces.Dirs) == 0 {
		return e.Reference(column)
	}
	return e.referenceFrom(traces.Dirs, column)
}

func (e *Ensemble) referenceFrom(dirs []string, column int) ([]float64, error) {
	if column < 0 {
		return nil, nil
	}
	var lastErr error
	for _, dir := range dirs {
		values, err := e.column(dir, column)
		if err != nil {
			lastErr = err
			continue
		}
		return values, nil
	}
	if lastErr == nil {
		return nil, fmt.Errorf("%w: no replica to read reference column %d from", ErrNoReplicas, column)
	}
	return nil, fmt.Errorf("unable to read reference column %d: %w", column, lastErr)
}

func (e *Ensemble) column(dir string, column int) ([]float64, error) {
	t, err := e.table(dir)
	if err != nil {
		return nil, fmt.Errorf("replica %s: %w", dir, err)
	}
	if column < 0 || column >= t.Columns() {
		return nil, &MismatchError{Dir: dir, Column: column, Field: "columns", Expected: column + 1, Actual: t.Columns()}
	}
	values, err := t.Column(column)
	if err != nil {
		return nil, fmt.Errorf("replica %s: %w", dir, err)
	}
	return values, nil
}
