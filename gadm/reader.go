package gadm

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoverLevels resolves the per-level dataset files for a stem.
// Level L is expected at "<stem>_adm<L>.csv"; the stem may contain
// glob patterns (including **). Level 0 is required. Higher levels
// are read until the first level with no file, so datasets shallower
// than maxLevel ingest cleanly.
func DiscoverLevels(stem string, maxLevel int) ([]string, error) {
	if stem == "" {
		return nil, fmt.Errorf("dataset stem is required")
	}

	var paths []string
	for level := 0; level <= maxLevel; level++ {
		pattern := fmt.Sprintf("%s_adm%d.csv", stem, level)
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if level == 0 {
				return nil, fmt.Errorf("no level 0 dataset matches %s", pattern)
			}
			break
		}
		if len(matches) > 1 {
			return nil, fmt.Errorf("pattern %s is ambiguous: %d matches", pattern, len(matches))
		}
		paths = append(paths, matches[0])
	}
	return paths, nil
}

// ReadLevel parses one level file into records. The header must
// carry GID_<level> and NAME_<level>, plus GID_<level-1> above level
// 0. VARNAME_<level> and ENGTYPE_<level> are optional and default to
// empty.
func ReadLevel(path string, level int) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open level %d dataset: %w", level, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = false

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}

	idCol, ok := cols[fmt.Sprintf("GID_%d", level)]
	if !ok {
		return nil, fmt.Errorf("%s: missing column GID_%d", path, level)
	}
	nameCol, ok := cols[fmt.Sprintf("NAME_%d", level)]
	if !ok {
		return nil, fmt.Errorf("%s: missing column NAME_%d", path, level)
	}
	parentCol := -1
	if level > 0 {
		parentCol, ok = cols[fmt.Sprintf("GID_%d", level-1)]
		if !ok {
			return nil, fmt.Errorf("%s: missing column GID_%d", path, level-1)
		}
	}
	varnameCol := -1
	if c, ok := cols[fmt.Sprintf("VARNAME_%d", level)]; ok {
		varnameCol = c
	}
	engtypeCol := -1
	if c, ok := cols[fmt.Sprintf("ENGTYPE_%d", level)]; ok {
		engtypeCol = c
	}

	var records []Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rec := Record{
			Level: level,
			ID:    strings.TrimSpace(row[idCol]),
			Name:  row[nameCol],
		}
		if rec.ID == "" {
			return nil, fmt.Errorf("%s: record with empty GID_%d", path, level)
		}
		if parentCol >= 0 {
			rec.ParentID = strings.TrimSpace(row[parentCol])
		}
		if varnameCol >= 0 {
			rec.Synonyms = row[varnameCol]
		}
		if engtypeCol >= 0 {
			rec.Subtype = strings.TrimSpace(row[engtypeCol])
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadLevels reads every discovered level file in ascending order.
// The returned slice is indexed by level.
func ReadLevels(paths []string) ([][]Record, error) {
	levels := make([][]Record, len(paths))
	for level, path := range paths {
		records, err := ReadLevel(path, level)
		if err != nil {
			return nil, err
		}
		levels[level] = records
	}
	return levels, nil
}
