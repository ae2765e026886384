package sample

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	Column    string // Column name to load (default: last column)
	Index     int    // Column index when there is no header or no name (default: -1, last column)
	HasHeader bool   // Whether CSV has a header row (default: true)
	Delimiter rune   // Field delimiter (default: ',')
	SkipRows  int    // Number of rows to skip at start
	Strict    bool   // Fail on unparsable values instead of treating them as missing
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		Index:     -1,
		HasHeader: true,
		Delimiter: ',',
	}
}

// LoadCSV loads one column of a CSV file as a sample.
func LoadCSV(filename string, opts *CSVOptions) (*Sample, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads one column from an io.Reader.
//
// Empty cells and the markers NA, NaN and null become NaN, so the caller
// decides how missing values are handled.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Sample, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	idx := opts.Index
	name := ""
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		idx, name, err = findColumn(header, opts)
		if err != nil {
			return nil, err
		}
	} else if opts.Column != "" {
		return nil, errors.New("column name given for a csv without header")
	}

	var values []float64
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		i := idx
		if i < 0 {
			i = len(record) - 1
		}
		if i >= len(record) {
			values = append(values, math.NaN())
			continue
		}

		v, err := parseCell(record[i])
		if err != nil {
			if opts.Strict {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
			v = math.NaN()
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		return nil, errors.New("no data found in csv")
	}

	return &Sample{Values: values, Name: name}, nil
}

func findColumn(header []string, opts *CSVOptions) (int, string, error) {
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.Trim(h, "\""))
	}

	if opts.Column != "" {
		for i, h := range header {
			if h == opts.Column {
				return i, h, nil
			}
		}
		// A numeric column name selects by position.
		if i, err := strconv.Atoi(opts.Column); err == nil && i >= 0 && i < len(header) {
			return i, header[i], nil
		}
		return -1, "", fmt.Errorf("column %q not found", opts.Column)
	}

	idx := opts.Index
	if idx < 0 || idx >= len(header) {
		idx = len(header) - 1
	}
	return idx, header[idx], nil
}

func parseCell(cell string) (float64, error) {
	s := strings.TrimSpace(strings.Trim(cell, "\""))
	switch s {
	case "", "NA", "NaN", "nan", "null":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// LoadCSVColumn loads a named column from a CSV file.
func LoadCSVColumn(filename string, column string) (*Sample, error) {
	opts := DefaultCSVOptions()
	opts.Column = column
	return LoadCSV(filename, opts)
}

// WriteCSV writes the sample as a single column. Missing values are
// written as NaN.
func WriteCSV(w io.Writer, s *Sample) error {
	bw := bufio.NewWriter(w)

	name := s.Name
	if name == "" {
		name = "value"
	}
	bw.WriteString(name)
	bw.WriteString("\n")

	for _, v := range s.Values {
		bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		bw.WriteString("\n")
	}

	return bw.Flush()
}

// SaveCSV writes the sample to a CSV file.
func SaveCSV(s *Sample, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := WriteCSV(file, s); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
