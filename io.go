// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: FIML Estimation of Means and Covariances with Missing Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// LoadCSVToDataset loads a CSV file into a Dataset struct.
// The first row is a header naming the variables. A cell that is empty or
// reads "NA" or "NaN" (any case) is stored as math.NaN(), the in-memory
// missing marker, so no real datum can collide with the sentinel by
// accident.
func LoadCSVToDataset(path string) (*Dataset, error) {
	// 1. Open file
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	// 2. Make CSV reader
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	// 3. Read header row
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("empty header in %s", path)
	}
	K := len(header) // number of variables

	var (
		data []float64 // flat data for mat.Dense
		row  int       // row counter
	)

	// 4. Read each data row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+2, err) // +2 for header + 1-based
		}

		// Skip completely empty lines (optional, but nice to have)
		if len(record) == 1 && record[0] == "" {
			continue
		}

		if len(record) != K {
			return nil, fmt.Errorf(
				"row %d: expected %d columns, got %d",
				row+2, K, len(record),
			)
		}

		for j, s := range record {
			v, err := parseCell(s)
			if err != nil {
				return nil, fmt.Errorf(
					"parse float at row %d col %d (%q): %w",
					row+2, j+1, s, err,
				)
			}
			data = append(data, v)
		}
		row++
	}

	if row == 0 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	T := row

	// 5. Build mat.Dense
	Y := mat.NewDense(T, K, data)

	// 6. Build Dataset
	ds := &Dataset{
		Y:        Y,
		VarNames: header,
	}

	return ds, nil
}

// parseCell converts one CSV cell to a float, mapping the recognized
// missing-value markers to NaN.
func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// Helper function to print an estimate with its covariance matrix
func PrintEstimate(title string, res *FIMLResult, varNames []string) {
	names := variableNames(res.Dim, varNames)

	fmt.Printf("\n=== %s ===\n", title)
	fmt.Printf("Rows used: %d of %d\n", res.RowsUsed, res.Size)
	fmt.Printf("Log-likelihood: %.6f\n", res.LogLikelihood)

	fmt.Println("\nMeans:")
	for j := 0; j < res.Dim; j++ {
		fmt.Printf("  %-16s %12.6f\n", names[j], res.Mean.AtVec(j))
	}

	fmt.Println("\nCovariance:")
	fmt.Printf("%v\n", mat.Formatted(res.Cov, mat.Prefix(" ")))
}

// Helper function to print the per-variable missing-data summary
func PrintMissingSummary(summaries []MissingSummary) {
	fmt.Println("\n=== Missing-data Summary ===")
	fmt.Printf("%-16s %10s %10s %10s\n", "variable", "observed", "missing", "rate")
	for _, s := range summaries {
		fmt.Printf("%-16s %10d %10d %9.1f%%\n", s.Name, s.Observed, s.Missing, 100*s.Rate)
	}
}

// OutputEstimateToCSV writes the estimated means and covariance to a CSV
// file with the columns: variable, mean, then one covariance column per
// variable.
// Returns an error if the file cannot be written, otherwise returns nil
// and writes the file.
func OutputEstimateToCSV(path string, res *FIMLResult, varNames []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	names := variableNames(res.Dim, varNames)

	header := append([]string{"variable", "mean"}, names...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := 0; i < res.Dim; i++ {
		record := make([]string, 0, res.Dim+2)
		record = append(record, names[i])
		record = append(record, strconv.FormatFloat(res.Mean.AtVec(i), 'g', -1, 64))
		for j := 0; j < res.Dim; j++ {
			record = append(record, strconv.FormatFloat(res.Cov.At(i, j), 'g', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row for %s: %w", names[i], err)
		}
	}

	return nil
}
