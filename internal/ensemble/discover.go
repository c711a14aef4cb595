// internal/ensemble/discover.go
package ensemble

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mwiater/fumeplot/internal/logging"
)

const (
	runsDir       = "RUNS"
	replicaMarker = "_replica_"
)

// Discover lists the replica directories of an ensemble rooted at outdir.
//
// A path containing "_replica_" is treated as a numbered prefix: outdir1,
// outdir2, ... are returned for as long as they exist. Otherwise the
// subdirectories of outdir/RUNS are used when present, falling back to the
// subdirectories of outdir itself. Entries are sorted by name.
func Discover(outdir string) ([]string, error) {
	if strings.Contains(filepath.Base(outdir), replicaMarker) {
		dirs := replicaDirs(outdir)
		logging.LogEvent("[DISCOVER] replica prefix %s: %d directories", outdir, len(dirs))
		return dirs, nil
	}

	root := filepath.Join(outdir, runsDir)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		root = outdir
	}

	dirs, err := subdirectories(root)
	if err != nil {
		return nil, err
	}
	logging.LogEvent("[DISCOVER] %s: %d directories", root, len(dirs))
	return dirs, nil
}

func replicaDirs(prefix string) []string {
	var dirs []string
	for i := 1; ; i++ {
		candidate := prefix + strconv.Itoa(i)
		info, err := os.Stat(candidate)
		if err != nil || !info.IsDir() {
			break
		}
		dirs = append(dirs, candidate)
	}
	return dirs
}

func subdirectories(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("output directory %s does not exist: %w", root, err)
		}
		return nil, fmt.Errorf("unable to list %s: %w", root, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	dirs := make([]string, 0, len(names))
	for _, name := range names {
		dirs = append(dirs, filepath.Join(root, name))
	}
	return dirs, nil
}
