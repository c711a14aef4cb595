// internal/header/schema.go
package header

import (
	"fmt"
	"strings"
	"unicode"
)

// Schema is the column layout shared by every replica of an ensemble.
// SimIndices, DataIndices and LocationNames are positionally aligned.
type Schema struct {
	Mode          Mode     `json:"mode" yaml:"mode"`
	Headers       []string `json:"headers" yaml:"headers"`
	SimIndices    []int    `json:"sim_indices" yaml:"sim_indices"`
	DataIndices   []int    `json:"data_indices" yaml:"data_indices"`
	LocationNames []string `json:"location_names" yaml:"location_names"`
	YLabel        string   `json:"y_label" yaml:"y_label"`
	Source        string   `json:"source,omitempty" yaml:"source,omitempty"`
}

// Location is one simulated quantity and, optionally, its reference column.
type Location struct {
	Index      int
	Name       string
	Header     string
	DataHeader string
	SimIndex   int
	DataIndex  int
}

// HasReference reports whether the location has observed data to compare against.
func (l Location) HasReference() bool {
	return l.DataIndex >= 0
}

// Title is the label used on plots of this location.
func (l Location) Title() string {
	if l.Header != "" {
		return l.Header
	}
	return l.Name
}

// FileStem is the plot file prefix: the column header with whitespace removed.
func (l Location) FileStem() string {
	return stripSpace(l.Title())
}

// DataFileStem is the file prefix for residual plots, taken from the reference header.
func (l Location) DataFileStem() string {
	if l.DataHeader != "" {
		return stripSpace(l.DataHeader)
	}
	return l.FileStem()
}

// Len returns the number of locations described by the schema.
func (s Schema) Len() int {
	return len(s.SimIndices)
}

// Validate checks that the index lists line up with each other.
func (s Schema) Validate() error {
	if len(s.SimIndices) != len(s.DataIndices) || len(s.SimIndices) != len(s.LocationNames) {
		return fmt.Errorf("%w: %d sim indices, %d data indices, %d names",
			ErrMalformedHeader, len(s.SimIndices), len(s.DataIndices), len(s.LocationNames))
	}
	return nil
}

// Locations returns one Location per schema entry.
func (s Schema) Locations() []Location {
	locs := make([]Location, 0, s.Len())
	for i := range s.SimIndices {
		loc := Location{
			Index:     i,
			Name:      s.LocationNames[i],
			SimIndex:  s.SimIndices[i],
			DataIndex: s.DataIndices[i],
		}
		loc.Header = s.headerAt(loc.SimIndex)
		loc.DataHeader = s.headerAt(loc.DataIndex)
		locs = append(locs, loc)
	}
	return locs
}

func (s Schema) headerAt(i int) string {
	if i < 0 || i >= len(s.Headers) {
		return ""
	}
	return s.Headers[i]
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
