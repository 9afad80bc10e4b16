package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var ErrMissingColumn = errors.New("missing required column")

// LoadCSV reads the anime dataset from path.
func LoadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer file.Close()

	table, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}

	return table, nil
}

// ReadCSV builds a Table from CSV content with a header row.
// Column kinds are inferred from the whole column before any row is built.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty dataset: %w", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idCol, genresCol := -1, -1
	for i, name := range header {
		switch name {
		case IDColumn:
			idCol = i
		case GenresColumn:
			genresCol = i
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, IDColumn)
	}
	if genresCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, GenresColumn)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	kinds := inferKinds(len(header), rows)

	items := make([]Item, 0, len(rows))
	for n, row := range rows {
		id, err := strconv.Atoi(strings.TrimSpace(row[idCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %s %q is not an integer", n+1, IDColumn, row[idCol])
		}

		fields := make([]Field, len(header))
		for c, name := range header {
			fields[c] = Field{Name: name, Value: convert(row[c], kinds[c])}
		}

		items = append(items, Item{
			ID:     id,
			Genres: row[genresCol],
			Fields: fields,
		})
	}

	return newTable(header, items), nil
}

func inferKinds(width int, rows [][]string) []ColumnKind {
	kinds := make([]ColumnKind, width)
	for c := 0; c < width; c++ {
		isInt, isFloat, seen := true, true, false
		for _, row := range rows {
			cell := strings.TrimSpace(row[c])
			if cell == "" {
				continue
			}
			seen = true
			if isInt {
				if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
					isInt = false
				}
			}
			if !isInt {
				if _, ok := parseFloat(cell); !ok {
					isFloat = false
					break
				}
			}
		}

		switch {
		case !seen:
			kinds[c] = KindString
		case isInt:
			kinds[c] = KindInt
		case isFloat:
			kinds[c] = KindFloat
		default:
			kinds[c] = KindString
		}
	}
	return kinds
}

func convert(cell string, kind ColumnKind) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}

	switch kind {
	case KindInt:
		v, _ := strconv.ParseInt(trimmed, 10, 64)
		return v
	case KindFloat:
		v, _ := parseFloat(trimmed)
		return v
	default:
		return cell
	}
}

// parseFloat rejects NaN and infinities, which have no JSON encoding.
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
