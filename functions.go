// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: FIML Estimation of Means and Covariances with Missing Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// --- Parameter packing ---

// numParams returns the length of the free-parameter vector for dim
// variables: dim mean entries plus dim*(dim+1)/2 lower-triangle entries
// of the covariance. Integer arithmetic throughout, so an odd dim cannot
// produce a truncated length.
func numParams(dim int) int {
	return dim + dim*(dim+1)/2
}

// packParams packs the mean and the covariance into a flat vector for the
// unconstrained optimizer. The first dim entries are the mean, in order;
// the rest are the lower triangle of cov (diagonal included) scanned
// row-major: (0,0), (1,0), (1,1), (2,0), (2,1), (2,2), ...
// unpackParams inverts this exact ordering, so it must not change.
func packParams(dim int, mean *mat.VecDense, cov *mat.SymDense) []float64 {
	params := make([]float64, numParams(dim))
	for i := 0; i < dim; i++ {
		params[i] = mean.AtVec(i)
	}
	p := dim
	for i := 0; i < dim; i++ {
		for j := 0; j <= i; j++ {
			params[p] = cov.At(i, j)
			p++
		}
	}
	return params
}

// unpackParams unpacks the mean and the covariance from a flat vector
// produced by packParams (or proposed by the optimizer). Every
// lower-triangle value is written through SetSym, so the returned
// covariance is symmetric by construction for any input vector.
// A length mismatch is a programming error upstream, not a data
// condition, and fails fast with an error.
func unpackParams(dim int, params []float64) (*mat.VecDense, *mat.SymDense, error) {
	want := numParams(dim)
	if len(params) != want {
		return nil, nil, fmt.Errorf("invalid parameter vector length: got %d, want %d for dim %d", len(params), want, dim)
	}

	mean := mat.NewVecDense(dim, nil)
	for i := 0; i < dim; i++ {
		mean.SetVec(i, params[i])
	}

	cov := mat.NewSymDense(dim, nil)
	p := dim
	for i := 0; i < dim; i++ {
		for j := 0; j <= i; j++ {
			cov.SetSym(i, j, params[p])
			p++
		}
	}

	return mean, cov, nil
}

// --- Observation filtering ---

// observedIndices returns the column indices of row r of Y holding real
// (non-NaN) values, in ascending order.
func observedIndices(Y *mat.Dense, r int) []int {
	_, dim := Y.Dims()
	obs := make([]int, 0, dim)
	for j := 0; j < dim; j++ {
		if !math.IsNaN(Y.At(r, j)) {
			obs = append(obs, j)
		}
	}
	return obs
}

// filterObserved restricts row r of Y and the candidate (mean, cov) to
// the observed coordinates obs. The sub-covariance keeps rows AND columns
// at the observed indices, in the same order. For a fully missing row
// (obs empty) everything is nil; logLikelihood handles that case before
// touching any matrix.
func filterObserved(Y *mat.Dense, r int, obs []int, mean *mat.VecDense, cov *mat.SymDense) ([]float64, []float64, *mat.Dense) {
	k := len(obs)
	if k == 0 {
		return nil, nil, nil
	}

	x := make([]float64, k)
	mu := make([]float64, k)
	sub := mat.NewDense(k, k, nil)
	for a, i := range obs {
		x[a] = Y.At(r, i)
		mu[a] = mean.AtVec(i)
		for b, j := range obs {
			sub.Set(a, b, cov.At(i, j))
		}
	}

	return x, mu, sub
}

// --- Marginal log-likelihood ---

// logLikelihood returns the log-density of the observed sub-vector x
// under the multivariate normal with mean mu and covariance cov:
//
//	log( (2*pi)^(-k/2) * det(cov)^(-1/2) * exp(-1/2 (x-mu)' cov^-1 (x-mu)) )
//
// An empty observation (k = 0) degenerates to the empty-dimension normal
// with density 1, so the log-density is 0 and no 0x0 determinant or
// inverse is attempted.
// A singular or non-positive-definite cov is NOT an error here: the
// determinant and inverse terms go non-finite (NaN for a negative
// determinant, -Inf for a zero density) and the bad value propagates to
// the objective, which scores such candidates as infinitely poor.
func logLikelihood(x, mu []float64, cov *mat.Dense) float64 {
	k := len(x)
	if k == 0 {
		return 0
	}

	// xshift = x - mu
	diff := make([]float64, k)
	floats.SubTo(diff, x, mu)
	xshift := mat.NewVecDense(k, diff)

	det := mat.Det(cov)

	var inv mat.Dense
	if err := inv.Inverse(cov); err != nil {
		// Exactly singular: zero density off the degenerate support.
		return math.Inf(-1)
	}

	var tmp mat.VecDense
	tmp.MulVec(&inv, xshift)

	t1 := math.Pow(2*math.Pi, -0.5*float64(k))
	t2 := math.Pow(det, -0.5)
	t3 := -0.5 * mat.Dot(xshift, &tmp)

	return math.Log(t1 * t2 * math.Exp(t3))
}

// --- FIML estimation ---

// Estimate fits the mean and covariance of ds by full information maximum
// likelihood. Every row contributes the marginal normal log-density of
// its observed coordinates only, so partially observed rows are used
// rather than discarded.
//
// The search starts from a zero mean and identity covariance and runs
// gonum's Nelder-Mead simplex with its default settings. The candidate
// covariance is symmetric by construction but no positive-semidefiniteness
// constraint is imposed during the search; candidates with an invalid
// covariance score +Inf and the simplex moves away from them. The result
// is a local optimum, with no guarantee it is global.
//
// Unless opts.Bias is set, the covariance is rescaled by size/(size-1)
// into the unbiased sample form. With size <= 1 that scale is not finite;
// upholding size > 1 is the caller's responsibility and is deliberately
// not validated here.
func (e *FIMLEstimator) Estimate(ds *Dataset, opts EstimationOptions) (*FIMLResult, error) {
	if ds == nil || ds.Y == nil {
		return nil, fmt.Errorf("dataset not provided")
	}

	size, dim := ds.Y.Dims()

	// Initial guess: zero mean, identity covariance.
	mean0 := mat.NewVecDense(dim, nil)
	cov0 := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		cov0.SetSym(i, i, 1.0)
	}
	params0 := packParams(dim, mean0, cov0)

	// The objective is the NEGATIVE total log-likelihood: the optimizer
	// minimizes, maximum likelihood maximizes.
	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			mean, cov, err := unpackParams(dim, params)
			if err != nil {
				// The optimizer never changes the vector length, so
				// hitting this means the codec wiring itself is broken.
				panic(err)
			}

			objval := 0.0
			for r := 0; r < size; r++ {
				obs := observedIndices(ds.Y, r)
				x, mu, sub := filterObserved(ds.Y, r, obs, mean, cov)
				objval += logLikelihood(x, mu, sub)
			}

			// Nelder-Mead orders its simplex vertices by comparing
			// function values, and NaN comparisons would corrupt that
			// ordering. Any non-finite total becomes a +Inf penalty,
			// which sorts as "worst, search elsewhere".
			if math.IsNaN(objval) || math.IsInf(objval, 0) {
				return math.Inf(1)
			}
			return -objval
		},
	}

	result, err := optimize.Minimize(problem, params0, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("FIML optimization failed: %w", err)
	}
	if err := result.Status.Err(); err != nil {
		return nil, fmt.Errorf("FIML optimization did not converge: %w", err)
	}

	mean, cov, err := unpackParams(dim, result.X)
	if err != nil {
		return nil, err
	}

	if !opts.Bias {
		scaleCovariance(cov, float64(size)/float64(size-1))
	}

	return &FIMLResult{
		Mean:          mean,
		Cov:           cov,
		LogLikelihood: -result.F,
		Size:          size,
		Dim:           dim,
		RowsUsed:      size,
	}, nil
}

// scaleCovariance multiplies every entry of cov in place by factor. Kept
// separate from Estimate so the decode-then-rescale step of the bias
// correction can be exercised on its own with a fixed parameter vector.
func scaleCovariance(cov *mat.SymDense, factor float64) {
	cov.ScaleSym(factor, cov)
}

// --- Complete-case baseline ---

// Estimate fits the mean and covariance by listwise deletion: rows with
// any missing coordinate are dropped and the classical sample moments are
// computed from the remainder. This is the baseline FIML is usually
// compared against; on complete data the two agree up to optimizer
// tolerance.
func (e *CompleteCaseEstimator) Estimate(ds *Dataset, opts EstimationOptions) (*FIMLResult, error) {
	if ds == nil || ds.Y == nil {
		return nil, fmt.Errorf("dataset not provided")
	}

	size, dim := ds.Y.Dims()

	// Collect the fully observed rows.
	var kept []int
	for r := 0; r < size; r++ {
		if len(observedIndices(ds.Y, r)) == dim {
			kept = append(kept, r)
		}
	}
	n := len(kept)
	if n < 2 {
		return nil, fmt.Errorf("complete-case estimation needs at least 2 fully observed rows, got %d", n)
	}

	complete := mat.NewDense(n, dim, nil)
	for a, r := range kept {
		for j := 0; j < dim; j++ {
			complete.Set(a, j, ds.Y.At(r, j))
		}
	}

	// Column means
	mean := mat.NewVecDense(dim, nil)
	col := make([]float64, n)
	for j := 0; j < dim; j++ {
		mat.Col(col, j, complete)
		mean.SetVec(j, stat.Mean(col, nil))
	}

	// Sample covariance. stat.CovarianceMatrix uses the n-1 denominator,
	// so the Bias flag means the same thing here as it does for FIML.
	cov := mat.NewSymDense(dim, nil)
	stat.CovarianceMatrix(cov, complete, nil)
	if opts.Bias {
		scaleCovariance(cov, float64(n-1)/float64(n))
	}

	// Total log-likelihood of the kept rows under the estimate, for
	// side-by-side reporting with FIML.
	mu := make([]float64, dim)
	for j := 0; j < dim; j++ {
		mu[j] = mean.AtVec(j)
	}
	covDense := mat.DenseCopyOf(cov)
	ll := 0.0
	for a := 0; a < n; a++ {
		x := mat.Row(nil, a, complete)
		ll += logLikelihood(x, mu, covDense)
	}

	return &FIMLResult{
		Mean:          mean,
		Cov:           cov,
		LogLikelihood: ll,
		Size:          size,
		Dim:           dim,
		RowsUsed:      n,
	}, nil
}

// --- Missing-data reporting ---

// variableNames returns the dataset's variable names, or generated
// var1..varN names when none were provided.
func variableNames(dim int, names []string) []string {
	if len(names) == dim {
		return names
	}
	generated := make([]string, dim)
	for j := 0; j < dim; j++ {
		generated[j] = fmt.Sprintf("var%d", j+1)
	}
	return generated
}

// MissingDataSummary reports, for each variable, how many observations
// are present and how many are missing.
func MissingDataSummary(ds *Dataset) []MissingSummary {
	if ds == nil || ds.Y == nil {
		return nil
	}

	size, dim := ds.Y.Dims()
	names := variableNames(dim, ds.VarNames)

	summaries := make([]MissingSummary, dim)
	for j := 0; j < dim; j++ {
		missing := 0
		for r := 0; r < size; r++ {
			if math.IsNaN(ds.Y.At(r, j)) {
				missing++
			}
		}
		summaries[j] = MissingSummary{
			Name:     names[j],
			Observed: size - missing,
			Missing:  missing,
			Rate:     float64(missing) / float64(size),
		}
	}

	return summaries
}

// CompleteRows counts the rows of ds with no missing coordinate.
func CompleteRows(ds *Dataset) int {
	if ds == nil || ds.Y == nil {
		return 0
	}

	size, dim := ds.Y.Dims()
	n := 0
	for r := 0; r < size; r++ {
		if len(observedIndices(ds.Y, r)) == dim {
			n++
		}
	}
	return n
}
