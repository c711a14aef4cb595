// internal/header/mode.go
package header

import (
	"errors"
	"fmt"
	"strings"
)

// Mode names the simulation family whose output layout is being read.
type Mode string

const (
	ModeFlee       Mode = "flee"
	ModeHomecoming Mode = "homecoming"
	ModeFACS       Mode = "facs"

	// DefaultMode is used when no mode is given on the command line.
	DefaultMode = ModeHomecoming
)

// NoData marks a location without a reference series.
const NoData = -1

// fleeFixedColumns is the number of non-location columns in a flee out.csv
// (day, date and the six trailing totals).
const fleeFixedColumns = 8

var (
	// ErrUnknownMode is returned for mode names outside the supported set.
	ErrUnknownMode = errors.New("unknown mode")
	// ErrMissingSchema is returned when no results file could be read.
	ErrMissingSchema = errors.New("missing schema")
	// ErrMalformedHeader is returned when a column count does not fit the mode's layout.
	ErrMalformedHeader = errors.New("malformed header")
)

var facsCompartments = []string{
	"susceptible",
	"exposed",
	"infectious",
	"recovered",
	"dead",
	"immune",
	"num infections today",
	"num hospitalisations today",
}

var facsSimIndices = []int{2, 3, 4, 5, 6, 7, 8, 9}

// Modes lists every supported mode in display order.
func Modes() []Mode {
	return []Mode{ModeFlee, ModeHomecoming, ModeFACS}
}

// ParseMode normalizes s and returns the matching Mode.
func ParseMode(s string) (Mode, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return DefaultMode, nil
	}
	for _, m := range Modes() {
		if string(m) == trimmed {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected one of flee, homecoming, facs)", ErrUnknownMode, s)
}

// Layout derives a Schema from a results header for one mode.
type Layout interface {
	Mode() Mode
	YLabel() string
	Derive(headers []string) (Schema, error)
}

// LayoutFor returns the Layout implementation for m.
func LayoutFor(m Mode) (Layout, error) {
	switch m {
	case ModeFlee:
		return fleeLayout{}, nil
	case ModeHomecoming:
		return homecomingLayout{}, nil
	case ModeFACS:
		return facsLayout{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, string(m))
	}
}

// fleeLayout: day, date, then a (sim, data, error) triple per camp, then totals.
type fleeLayout struct{}

func (fleeLayout) Mode() Mode { return ModeFlee }

func (fleeLayout) YLabel() string { return "# of asylum seekers / unrecognized refugees" }

func (l fleeLayout) Derive(headers []string) (Schema, error) {
	columns := len(headers)
	if columns < fleeFixedColumns || (columns-fleeFixedColumns)%3 != 0 {
		return Schema{}, fmt.Errorf("%w: flee output has %d columns, expected 8+3n", ErrMalformedHeader, columns)
	}
	n := (columns - fleeFixedColumns) / 3

	schema := newSchema(l.Mode(), headers, n, l.YLabel())
	for i := 0; i < n; i++ {
		sim := 3*i + 2
		schema.SimIndices = append(schema.SimIndices, sim)
		schema.DataIndices = append(schema.DataIndices, 3*i+3)
		schema.LocationNames = append(schema.LocationNames, strings.ReplaceAll(headers[sim], " sim", ""))
	}
	return schema, nil
}

// homecomingLayout: one leading time column, then one column per location.
type homecomingLayout struct{}

func (homecomingLayout) Mode() Mode { return ModeHomecoming }

func (homecomingLayout) YLabel() string { return "# of refugees" }

func (l homecomingLayout) Derive(headers []string) (Schema, error) {
	if len(headers) == 0 {
		return Schema{}, fmt.Errorf("%w: homecoming output has no columns", ErrMalformedHeader)
	}
	n := len(headers) - 1

	schema := newSchema(l.Mode(), headers, n, l.YLabel())
	for i := 0; i < n; i++ {
		schema.SimIndices = append(schema.SimIndices, i+1)
		schema.DataIndices = append(schema.DataIndices, NoData)
		schema.LocationNames = append(schema.LocationNames, headers[i+1])
	}
	return schema, nil
}

// facsLayout has a fixed set of compartments regardless of the column count.
// Typical header: time,date,susceptible,exposed,infectious,recovered,dead,immune,
// num infections today,num hospitalisations today,hospital bed occupancy,...
type facsLayout struct{}

func (facsLayout) Mode() Mode { return ModeFACS }

func (facsLayout) YLabel() string { return "# of occurrences" }

func (l facsLayout) Derive(headers []string) (Schema, error) {
	n := len(facsCompartments)
	schema := newSchema(l.Mode(), headers, n, l.YLabel())
	schema.SimIndices = append(schema.SimIndices, facsSimIndices...)
	schema.LocationNames = append(schema.LocationNames, facsCompartments...)
	for i := 0; i < n; i++ {
		schema.DataIndices = append(schema.DataIndices, NoData)
	}
	return schema, nil
}

func newSchema(m Mode, headers []string, n int, yLabel string) Schema {
	return Schema{
		Mode:          m,
		Headers:       append([]string(nil), headers...),
		SimIndices:    make([]int, 0, n),
		DataIndices:   make([]int, 0, n),
		LocationNames: make([]string, 0, n),
		YLabel:        yLabel,
	}
}
