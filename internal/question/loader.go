package question

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ImageExtensions are probed, in order, when resolving a question image.
var ImageExtensions = []string{"jpg", "jpeg", "png", "gif"}

var requiredColumns = []string{"subject", "question", "correct_answer", "answer_explanation"}

// Loader materializes a Pool from CSV files.
type Loader struct {
	// Pattern is a filepath.Glob pattern selecting the sources.
	Pattern string

	// ImageDir is searched for <id>.<ext> images. Empty disables lookup.
	ImageDir string
}

// Load reads every source matching l.Pattern, concatenated in sorted path
// order. Rows from sources without an id column get sequential ids based on
// their position in the concatenation.
func (l Loader) Load() (*Pool, error) {
	paths, err := filepath.Glob(l.Pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", l.Pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSource, l.Pattern)
	}
	sort.Strings(paths)
	return LoadFiles(paths, l.ImageDir)
}

// LoadFiles reads the given CSV sources into a Pool.
func LoadFiles(paths []string, imageDir string) (*Pool, error) {
	if len(paths) == 0 {
		return nil, ErrNoSource
	}
	var records []Record
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open question source: %w", err)
		}
		recs, err := readSource(path, f, len(records))
		f.Close()
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}

	if imageDir != "" {
		for i := range records {
			records[i].ImagePath = ImagePath(imageDir, records[i].ID)
		}
	}

	return NewPool(records)
}

// readSource parses one CSV source. offset is the number of rows already
// read from earlier sources and seeds generated ids.
func readSource(name string, r io.Reader, offset int) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DataIntegrityError{Source: name, Err: errors.New("empty source")}
		}
		return nil, &DataIntegrityError{Source: name, Err: err}
	}
	cols := indexColumns(header)
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, &DataIntegrityError{Source: name, Err: fmt.Errorf("missing column %q", c)}
		}
	}
	idCol, hasID := cols["id"]
	if !hasID {
		idCol, hasID = cols["record_id"]
	}

	var out []Record
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DataIntegrityError{Source: name, Row: row, Err: err}
		}
		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		rec := Record{
			Subject:     get("subject"),
			Stem:        get("question"),
			Explanation: get("answer_explanation"),
			Anchor:      get("anchor"),
			Choices:     make(map[Letter]string),
		}
		if hasID {
			if idCol < len(fields) {
				rec.ID = strings.TrimSpace(fields[idCol])
			}
			if rec.ID == "" {
				return nil, &DataIntegrityError{Source: name, Row: row, Err: errors.New("blank id")}
			}
		} else {
			rec.ID = strconv.Itoa(offset + row)
		}
		for _, l := range Letters {
			if text := get("answerchoice_" + string(l)); text != "" && !isMissing(text) {
				rec.Choices[l] = text
			}
		}
		correct, err := ParseLetter(get("correct_answer"))
		if err != nil {
			return nil, &DataIntegrityError{Source: name, Row: row, Err: err}
		}
		rec.Correct = correct
		if err := rec.Validate(); err != nil {
			return nil, &DataIntegrityError{Source: name, Row: row, Err: err}
		}
		if isMissing(rec.Anchor) {
			rec.Anchor = ""
		}
		out = append(out, rec)
	}
	return out, nil
}

// indexColumns maps lower-cased header names to their column index.
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

// isMissing treats spreadsheet placeholders for empty cells as absent.
func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "nan", "null", "none", "n/a":
		return true
	}
	return false
}

// ImagePath returns the first existing <dir>/<id>.<ext> path, or "".
func ImagePath(dir, id string) string {
	for _, ext := range ImageExtensions {
		p := filepath.Join(dir, id+"."+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
