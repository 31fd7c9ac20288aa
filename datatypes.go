// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: FIML Estimation of Means and Covariances with Missing Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"gonum.org/v1/gonum/mat"
)

// Simple struct for a rectangular dataset
type Dataset struct {
	// Matrix for data; rows are observations, columns are variables.
	// A missing cell is stored as math.NaN().
	Y *mat.Dense
	// List of variable Names
	VarNames []string
}

// EstimationOptions controls how the final covariance is scaled.
type EstimationOptions struct {
	// If true, return the maximum-likelihood (biased) covariance.
	// If false, the covariance is rescaled by size/(size-1) into the
	// unbiased sample form. False is the usual choice.
	Bias bool
}

// FIMLResult holds the estimated moments of the data.
type FIMLResult struct {
	// Estimated means of the variables (length dim)
	Mean *mat.VecDense

	// Estimated covariance of the variables (dim x dim).
	// Symmetric by construction.
	Cov *mat.SymDense

	// Total log-likelihood attained at the estimate
	LogLikelihood float64

	// Number of observations and variables in the input
	Size int
	Dim  int

	// Number of rows that actually entered the fit. FIML uses every row;
	// complete-case deletion only uses the fully observed ones.
	RowsUsed int
}

// Estimator is the interface for a mean/covariance estimator.
type Estimator interface {
	// Turns the data we have into estimated means and covariances
	Estimate(ds *Dataset, opts EstimationOptions) (*FIMLResult, error)
}

// FIMLEstimator implements full information maximum likelihood estimation:
// partially observed rows still contribute through the marginal normal
// density of their observed coordinates.
type FIMLEstimator struct{}

// CompleteCaseEstimator implements the classical listwise-deletion
// baseline: rows with any missing value are dropped entirely.
type CompleteCaseEstimator struct{}

// MissingSummary reports the missingness of a single variable.
type MissingSummary struct {
	Name     string  // variable name
	Observed int     // number of non-missing cells
	Missing  int     // number of missing cells
	Rate     float64 // Missing / (Observed + Missing)
}
