package sample

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCSVFromReader(t *testing.T) {
	csvData := `id,recency,monetary
1,2,250
2,0,1000
3,1,500`

	s, err := LoadCSVFromReader(strings.NewReader(csvData), nil)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	if s.Name != "monetary" {
		t.Errorf("Expected last column by default, got %q", s.Name)
	}
	expected := []float64{250, 1000, 500}
	for i, v := range expected {
		if s.Values[i] != v {
			t.Errorf("Value at index %d: expected %f, got %f", i, v, s.Values[i])
		}
	}
}

func TestLoadCSVColumnByName(t *testing.T) {
	csvData := `id,recency,monetary
1,2,250
2,0,1000`

	opts := DefaultCSVOptions()
	opts.Column = "recency"
	s, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	if s.Len() != 2 || s.Values[0] != 2 || s.Values[1] != 0 {
		t.Errorf("Unexpected values %v", s.Values)
	}

	opts.Column = "1"
	s, err = LoadCSVFromReader(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV by position: %v", err)
	}
	if s.Name != "recency" {
		t.Errorf("Expected recency, got %q", s.Name)
	}

	opts.Column = "frequency"
	if _, err := LoadCSVFromReader(strings.NewReader(csvData), opts); err == nil {
		t.Error("Expected error for unknown column")
	}
}

func TestLoadCSVWithMissingValues(t *testing.T) {
	csvData := `x
100
NA

NaN
null
oops
105`

	s, err := LoadCSVFromReader(strings.NewReader(csvData), nil)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}

	// The blank line is skipped by encoding/csv.
	if s.Len() != 6 {
		t.Fatalf("Expected 6 values, got %d: %v", s.Len(), s.Values)
	}
	if s.Missing() != 4 {
		t.Errorf("Expected 4 missing values, got %d", s.Missing())
	}

	opts := DefaultCSVOptions()
	opts.Strict = true
	if _, err := LoadCSVFromReader(strings.NewReader(csvData), opts); err == nil {
		t.Error("Expected error for unparsable value in strict mode")
	}
}

func TestLoadCSVNoHeader(t *testing.T) {
	csvData := "1;10\n2;20\n3;30\n"

	opts := DefaultCSVOptions()
	opts.HasHeader = false
	opts.Delimiter = ';'
	opts.Index = 0
	s, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	if s.Len() != 3 || s.Values[2] != 3 {
		t.Errorf("Unexpected values %v", s.Values)
	}
}

func TestLoadCSVEmpty(t *testing.T) {
	if _, err := LoadCSVFromReader(strings.NewReader("x\n"), nil); err == nil {
		t.Error("Expected error for CSV without data")
	}
}

func TestSaveAndLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	s := &Sample{Values: []float64{1.5, math.NaN(), -2e-10}, Name: "psi"}

	if err := SaveCSV(s, path); err != nil {
		t.Fatalf("Failed to save CSV: %v", err)
	}

	loaded, err := LoadCSVColumn(path, "psi")
	if err != nil {
		t.Fatalf("Failed to load CSV: %v", err)
	}
	if loaded.Len() != 3 || loaded.Values[0] != 1.5 || loaded.Values[2] != -2e-10 || !math.IsNaN(loaded.Values[1]) {
		t.Errorf("Round trip mismatch: %v", loaded.Values)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected file to exist: %v", err)
	}
}

func TestWriteCSVDefaultHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, New([]float64{1, 2})); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "value\n1\n2\n" {
		t.Errorf("Unexpected output %q", buf.String())
	}
}
