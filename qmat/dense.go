package qmat

import (
	"gonum.org/v1/gonum/mat"
)

// Eye returns the n by n identity matrix.
func Eye(n int) *mat.CDense {
	m := mat.NewCDense(n, n, nil)
	for i := range n {
		m.Set(i, i, 1)
	}
	return m
}

// Copy returns a fresh copy of a.
func Copy(a mat.CMatrix) *mat.CDense {
	r, c := a.Dims()
	m := mat.NewCDense(r, c, nil)
	for i := range r {
		for j := range c {
			m.Set(i, j, a.At(i, j))
		}
	}
	return m
}

// Mul returns the matrix product a b.
func Mul(a, b mat.CMatrix) *mat.CDense {
	var m mat.CDense
	m.Mul(a, b)
	return &m
}

// Kron returns the Kronecker product of a and b. With 2x2 arguments the
// result is ordered so that a acts on the more significant index bit.
func Kron(a, b mat.CMatrix) *mat.CDense {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	m := mat.NewCDense(ar*br, ac*bc, nil)
	for i := range ar {
		for j := range ac {
			aij := a.At(i, j)
			if aij == 0 {
				continue
			}
			for k := range br {
				for l := range bc {
					m.Set(i*br+k, j*bc+l, aij*b.At(k, l))
				}
			}
		}
	}
	return m
}
