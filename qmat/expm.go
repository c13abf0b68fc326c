package qmat

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// expmTerms is the Taylor series length used by Expm. After scaling, the
// series argument has 1-norm at most 1/2, so the remainder is below
// 0.5^21/21! which is negligible against complex128 precision.
const expmTerms = 20

// Expm returns the matrix exponential of the square matrix a, computed by
// scaling and squaring around a truncated Taylor series. See Moler and Van
// Loan, Nineteen Dubious Ways to Compute the Exponential of a Matrix, SIAM
// Review 45 (2003), method 3. Expm panics if a is not square.
func Expm(a mat.CMatrix) *mat.CDense {
	n, c := a.Dims()
	if n != c {
		panic(mat.ErrShape)
	}

	// Halve until the 1-norm is at most 1/2.
	norm := 0.0
	for j := range n {
		s := 0.0
		for i := range n {
			s += cmplx.Abs(a.At(i, j))
		}
		norm = math.Max(norm, s)
	}
	squarings := 0
	for s := norm; s > 0.5; s /= 2 {
		squarings++
	}
	scale := complex(math.Ldexp(1, -squarings), 0)
	b := mat.NewCDense(n, n, nil)
	for i := range n {
		for j := range n {
			b.Set(i, j, scale*a.At(i, j))
		}
	}

	sum := Eye(n)
	term := Eye(n)
	for k := 1; k <= expmTerms; k++ {
		term = Mul(term, b)
		kinv := complex(1/float64(k), 0)
		for i := range n {
			for j := range n {
				term.Set(i, j, kinv*term.At(i, j))
				sum.Set(i, j, sum.At(i, j)+term.At(i, j))
			}
		}
	}
	for range squarings {
		sum = Mul(sum, sum)
	}
	return sum
}
