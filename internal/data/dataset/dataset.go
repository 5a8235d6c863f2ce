// Package dataset loads tabular records from JSON, YAML, and CSV files.
package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/widgets/internal/core/datatable"
)

var (
	// ErrUnsupportedFormat is returned for file extensions with no loader.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	// ErrNotTabular is returned when a file does not hold a list of objects.
	ErrNotTabular = errors.New("dataset is not a list of objects")
)

// Format identifies a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Dataset is a loaded file: records plus the columns to show them with.
type Dataset struct {
	Columns []datatable.Column
	Records []datatable.Record
}

// Load reads and decodes the dataset at path.
func Load(path string) (Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Dataset{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Parse(f, format)
	if err != nil {
		return Dataset{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

// Parse decodes a dataset from r.
func Parse(r io.Reader, format Format) (Dataset, error) {
	switch format {
	case FormatJSON:
		return parseJSON(r)
	case FormatYAML:
		return parseYAML(r)
	case FormatCSV:
		return parseCSV(r)
	default:
		return Dataset{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func parseJSON(r io.Reader) (Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Dataset{}, fmt.Errorf("decode json: %w", err)
	}

	records, err := toRecords(raw)
	if err != nil {
		return Dataset{}, err
	}
	for _, rec := range records {
		for k, v := range rec {
			rec[k] = normalizeJSON(v)
		}
	}

	return Dataset{Columns: datatable.ColumnsFromRecords(records), Records: records}, nil
}

// normalizeJSON turns json.Number into float64 so numbers compare numerically.
func normalizeJSON(v any) any {
	switch v := v.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return v.String()
		}
		return f
	case []any:
		for i := range v {
			v[i] = normalizeJSON(v[i])
		}
		return v
	case map[string]any:
		for k := range v {
			v[k] = normalizeJSON(v[k])
		}
		return v
	default:
		return v
	}
}

func parseYAML(r io.Reader) (Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Dataset{}, fmt.Errorf("read yaml: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Dataset{Columns: []datatable.Column{}, Records: []datatable.Record{}}, nil
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Dataset{}, fmt.Errorf("decode yaml: %w", err)
	}

	records, err := toRecords(raw)
	if err != nil {
		return Dataset{}, err
	}
	return Dataset{Columns: datatable.ColumnsFromRecords(records), Records: records}, nil
}

func toRecords(raw any) ([]datatable.Record, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %T", ErrNotTabular, raw)
	}

	records := make([]datatable.Record, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is %T", ErrNotTabular, i, item)
		}
		records = append(records, datatable.Record(obj))
	}
	return records, nil
}

func parseCSV(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Dataset{Columns: []datatable.Column{}, Records: []datatable.Record{}}, nil
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("read csv header: %w", err)
	}

	columns := make([]datatable.Column, len(header))
	for i, key := range header {
		columns[i] = datatable.Column{Key: strings.TrimSpace(key)}
	}

	records := []datatable.Record{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("read csv: %w", err)
		}

		rec := make(datatable.Record, len(row))
		for i, cell := range row {
			if cell == "" {
				continue
			}
			rec[columns[i].Key] = csvValue(cell)
		}
		records = append(records, rec)
	}

	return Dataset{Columns: columns, Records: records}, nil
}

// decimalPattern matches plain decimal numbers. Leading zeros, exponents,
// hex, and NaN/Inf spellings are excluded so IDs and words stay strings.
var decimalPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?$`)

// csvValue types a CSV cell: decimal numbers become float64, true/false become
// bool, everything else stays a string.
func csvValue(cell string) any {
	if decimalPattern.MatchString(cell) {
		if f, err := strconv.ParseFloat(cell, 64); err == nil && !math.IsInf(f, 0) {
			return f
		}
	}
	switch cell {
	case "true":
		return true
	case "false":
		return false
	}
	return cell
}

// SelectColumns narrows columns to the given specs, in spec order. A spec is
// "key" or "key:Label". An empty spec list returns columns unchanged.
func SelectColumns(columns []datatable.Column, specs []string) ([]datatable.Column, error) {
	if len(specs) == 0 {
		return columns, nil
	}

	byKey := make(map[string]datatable.Column, len(columns))
	for _, c := range columns {
		byKey[c.Key] = c
	}

	selected := make([]datatable.Column, 0, len(specs))
	for _, spec := range specs {
		key, label, _ := strings.Cut(spec, ":")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("empty column key in %q", spec)
		}

		col, ok := byKey[key]
		if !ok {
			// Columns derived from data only cover keys that appear somewhere;
			// an unknown key still gets a column of empty cells.
			col = datatable.Column{Key: key}
		}
		if label != "" {
			col.Label = strings.TrimSpace(label)
		}
		selected = append(selected, col)
	}
	return selected, nil
}
