// Package analysis provides ordinary least-squares regression over aggregated
// reaction thermochemistry, used to screen candidate descriptors against
// measured reaction quantities.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/moltherm/moltherm/pkg/errors"
)

// FitResult holds the fitted model and its quality measures.
type FitResult struct {
	// Coefficients holds the intercept first, then one coefficient per
	// descriptor column.
	Coefficients []float64

	// RSquared is the coefficient of determination on the training data.
	RSquared float64

	// RMSD is the root-mean-square deviation of the fitted values.
	RMSD float64
}

// Fit performs ordinary least squares of y against the descriptor matrix x
// (one row per observation), with an intercept term.  It requires more
// observations than fitted parameters.
func Fit(x [][]float64, y []float64) (*FitResult, error) {
	n := len(x)
	if n == 0 || n != len(y) {
		return nil, errors.Newf(errors.ErrCodeDatasetInvalid,
			"descriptor rows (%d) and observations (%d) must match and be non-empty", n, len(y))
	}
	cols := len(x[0])
	for i, row := range x {
		if len(row) != cols {
			return nil, errors.Newf(errors.ErrCodeDatasetInvalid,
				"descriptor row %d has %d columns, expected %d", i, len(row), cols)
		}
	}
	params := cols + 1
	if n <= params {
		return nil, errors.Newf(errors.ErrCodeDatasetInvalid,
			"need more than %d observations to fit %d parameters, got %d", params, params, n)
	}

	// Design matrix with a leading column of ones for the intercept.
	design := mat.NewDense(n, params, nil)
	for i, row := range x {
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	obs := mat.NewVecDense(n, y)

	var coef mat.VecDense
	if err := coef.SolveVec(design, obs); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRegressionFailed, "least-squares solve failed")
	}

	var fitted mat.VecDense
	fitted.MulVec(design, &coef)

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)

	var ssRes, ssTot float64
	for i, v := range y {
		r := v - fitted.AtVec(i)
		ssRes += r * r
		d := v - mean
		ssTot += d * d
	}

	res := &FitResult{
		Coefficients: make([]float64, params),
		RMSD:         math.Sqrt(ssRes / float64(n)),
	}
	for i := range res.Coefficients {
		res.Coefficients[i] = coef.AtVec(i)
	}
	if ssTot != 0 {
		res.RSquared = 1 - ssRes/ssTot
	}
	return res, nil
}

// Predict evaluates the fitted model on one descriptor row.
func (f *FitResult) Predict(row []float64) (float64, error) {
	if len(row)+1 != len(f.Coefficients) {
		return 0, errors.Newf(errors.ErrCodeDatasetInvalid,
			"descriptor row has %d columns, model expects %d", len(row), len(f.Coefficients)-1)
	}
	v := f.Coefficients[0]
	for i, x := range row {
		v += f.Coefficients[i+1] * x
	}
	return v, nil
}
