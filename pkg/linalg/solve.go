package linalg

import "errors"

// ErrSingularMatrix indicates a rank-deficient coefficient matrix: a pivot
// column had no nonzero entry at or below the diagonal after partial
// pivoting. This signals an ill-posed circuit (e.g. a voltage source
// shorted by an ideal wire, or a floating subnetwork), not a programmer
// error.
var ErrSingularMatrix = errors.New("linalg: singular matrix")

// ErrIncompatibleDimensions indicates a's dimensions don't match b's, or a
// is not square. This is a stamper bug: it should never happen for any
// well-formed Network.
var ErrIncompatibleDimensions = errors.New("linalg: incompatible dimensions")

// Solve solves a*x = b by Gaussian elimination with partial (row) pivoting,
// followed by back-substitution. a is cloned before elimination; neither a
// nor b is mutated.
func Solve(a *Matrix, b Vector) (Vector, error) {
	if a.Rows != a.Cols || len(b) != a.Cols {
		return nil, ErrIncompatibleDimensions
	}

	n := a.Cols

	system := a.Clone()
	system.Augment(b)

	for k := 0; k < n; k++ {
		iMax := k
		vMax := system.At(iMax, k)

		for i := k + 1; i < n; i++ {
			if abs(system.At(i, k)) > abs(vMax) {
				vMax = system.At(i, k)
				iMax = i
			}
		}

		if vMax == 0 {
			return nil, ErrSingularMatrix
		}

		if iMax != k {
			system.SwapRows(k, iMax)
		}

		pivot := system.At(k, k)
		for i := k + 1; i < n; i++ {
			f := system.At(i, k) / pivot

			// Columns k+1..n have no cross-iteration dependency across j;
			// this loop could be split across goroutines without changing
			// the result, but at the tens-of-unknowns sizes this solver
			// targets, dispatch overhead would dominate.
			for j := k + 1; j <= n; j++ {
				system.Set(i, j, system.At(i, j)-f*system.At(k, j))
			}
			system.Set(i, k, 0)
		}
	}

	x := ZerosVector(n)
	for i := n - 1; i >= 0; i-- {
		x[i] = system.At(i, n)
		for j := i + 1; j < n; j++ {
			x[i] -= system.At(i, j) * x[j]
		}
		x[i] /= system.At(i, i)
	}

	return x, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
