// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package solve provides a dense linear solver for the symmetric,
// positive-semidefinite systems produced by the quadratic placer. gonum's
// mat.Cholesky refuses indefinite or singular input, but the placer's
// per-partition system is only positive-semidefinite in general (an
// isolated atom with no anchor contributes an all-zero row), so this
// package implements its own LDL^T factorization atop gonum's dense
// containers, treating a numerically zero pivot as contributing nothing
// to the solution rather than failing.
package solve

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// pivotTol is the magnitude below which a pivot is treated as exactly
// zero: the corresponding unknown is underdetermined by the system (no
// edges and no anchor touch it) and is assigned 0.
const pivotTol = 1e-9

// LDLT is the factorization A = L D L^T of a symmetric matrix, with L
// unit lower-triangular and D diagonal.
type LDLT struct {
	n int
	l *mat.Dense
	d []float64
}

// Factorize computes the LDL^T factorization of a, an n x n symmetric
// matrix. It never fails: a pivot too small to trust is zeroed instead of
// propagating as a division blow-up, since the caller (the quadratic
// placer) is only ever positive-semidefinite, not necessarily definite.
func Factorize(a mat.Symmetric) *LDLT {
	n := a.SymmetricDim()
	l := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		l.Set(i, i, 1)
	}
	d := make([]float64, n)

	for j := 0; j < n; j++ {
		sum := a.At(j, j)
		for k := 0; k < j; k++ {
			ljk := l.At(j, k)
			sum -= ljk * ljk * d[k]
		}
		d[j] = sum

		if math.Abs(d[j]) < pivotTol {
			d[j] = 0
			continue
		}

		for i := j + 1; i < n; i++ {
			sum := a.At(i, j)
			for k := 0; k < j; k++ {
				sum -= l.At(i, k) * l.At(j, k) * d[k]
			}
			l.Set(i, j, sum/d[j])
		}
	}

	return &LDLT{n: n, l: l, d: d}
}

// Solve returns x solving A x = b for the matrix this LDLT factorizes.
// Any unknown pinned to a zero pivot in Factorize is returned as 0.
func (f *LDLT) Solve(b *mat.VecDense) (*mat.VecDense, error) {
	if b.Len() != f.n {
		return nil, errors.Errorf("solve: rhs length %d does not match system size %d", b.Len(), f.n)
	}

	n := f.n
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b.AtVec(i)
		for k := 0; k < i; k++ {
			sum -= f.l.At(i, k) * y[k]
		}
		y[i] = sum
	}

	z := make([]float64, n)
	for i := 0; i < n; i++ {
		if f.d[i] == 0 {
			z[i] = 0
			continue
		}
		z[i] = y[i] / f.d[i]
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for k := i + 1; k < n; k++ {
			sum -= f.l.At(k, i) * x[k]
		}
		x[i] = sum
	}

	return mat.NewVecDense(n, x), nil
}
