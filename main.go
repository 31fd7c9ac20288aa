// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: FIML Estimation of Means and Covariances with Missing Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"os"
)

// This is the main function that estimates the means and the covariance of
// a dataset with missing values by full information maximum likelihood.
// The function expects one command-line argument: the path to a CSV file
// whose header names the variables and whose cells may be empty, NA, or
// NaN for missing values. An optional second argument "ml" returns the
// maximum-likelihood (biased) covariance instead of the bias-corrected
// one. The function prints a missing-data summary, the FIML estimate, the
// complete-case baseline, and writes the FIML estimate to a CSV file.

func main() {
	// expect 1 argument: path to the data CSV; optional "ml" flag
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run . <data_csv> [ml]")
		return
	}
	path := os.Args[1]

	opts := EstimationOptions{}
	if len(os.Args) > 2 && os.Args[2] == "ml" {
		opts.Bias = true
		fmt.Println("Returning maximum-likelihood (biased) covariances")
	}

	// 1. Load CSV into Dataset
	ds, err := LoadCSVToDataset(path)
	if err != nil {
		panic(err)
	}

	fmt.Println("Loaded data with", ds.Y.RawMatrix().Rows, "rows and",
		ds.Y.RawMatrix().Cols, "variables:", ds.VarNames)

	// 2. Missing-data summary
	PrintMissingSummary(MissingDataSummary(ds))
	fmt.Println("Complete rows:", CompleteRows(ds))

	// 3. FIML estimate
	res, err := (&FIMLEstimator{}).Estimate(ds, opts)
	if err != nil {
		panic(err)
	}
	PrintEstimate("FIML Estimate", res, ds.VarNames)

	// 4. Complete-case baseline for comparison
	cc, err := (&CompleteCaseEstimator{}).Estimate(ds, opts)
	if err != nil {
		fmt.Println("\nComplete-case baseline unavailable:", err)
	} else {
		PrintEstimate("Complete-case Estimate", cc, ds.VarNames)
	}

	// 5. Output the FIML estimate to CSV
	err = OutputEstimateToCSV("fiml_estimate.csv", res, ds.VarNames)
	if err != nil {
		panic(err)
	}
	fmt.Println("\nEstimate written to fiml_estimate.csv")
}
