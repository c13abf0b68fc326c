// Package qmat provides the constant unitary matrices of the standard gate
// library, together with the few dense complex matrix helpers needed to
// build and fuse gates.
//
// Every package level matrix is an immutable process wide constant. Callers
// must never modify one; copy it first with Copy. Dimension misuse panics
// with the gonum mat errors, matching the underlying package.
package qmat

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const isq2 = 1 / math.Sqrt2

// One qubit constants.
var (
	// I is the identity.
	I = mat.NewCDense(2, 2, []complex128{
		1, 0,
		0, 1,
	})
	// X, Y, Z are the Pauli matrices.
	X = mat.NewCDense(2, 2, []complex128{
		0, 1,
		1, 0,
	})
	Y = mat.NewCDense(2, 2, []complex128{
		0, -1i,
		1i, 0,
	})
	Z = mat.NewCDense(2, 2, []complex128{
		1, 0,
		0, -1,
	})
	// S is the phase gate diag(1, i).
	S = mat.NewCDense(2, 2, []complex128{
		1, 0,
		0, 1i,
	})
	// T is the pi/8 gate diag(1, exp(i pi/4)).
	T = mat.NewCDense(2, 2, []complex128{
		1, 0,
		0, complex(isq2, isq2),
	})
	// H is the Hadamard matrix.
	H = mat.NewCDense(2, 2, []complex128{
		isq2, isq2,
		isq2, -isq2,
	})
	// Rx2 is the square root of X up to phase, Rx(-pi/4) in the full turn
	// convention below. Rx2T is its adjoint.
	Rx2 = mat.NewCDense(2, 2, []complex128{
		isq2, isq2 * 1i,
		isq2 * 1i, isq2,
	})
	Rx2T = mat.NewCDense(2, 2, []complex128{
		isq2, isq2 * -1i,
		isq2 * -1i, isq2,
	})
)

// Two qubit Pauli products, qubit 0 major. IX acts with the identity on
// qubit 0 and X on qubit 1.
var (
	II = Kron(I, I)
	IX = Kron(I, X)
	IY = Kron(I, Y)
	IZ = Kron(I, Z)
	XI = Kron(X, I)
	XX = Kron(X, X)
	XY = Kron(X, Y)
	XZ = Kron(X, Z)
	YI = Kron(Y, I)
	YX = Kron(Y, X)
	YY = Kron(Y, Y)
	YZ = Kron(Y, Z)
	ZI = Kron(Z, I)
	ZX = Kron(Z, X)
	ZY = Kron(Z, Y)
	ZZ = Kron(Z, Z)
)

// Controlled and swap constants. The control is the first qubit, which is
// the more significant index bit.
var (
	CX = mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0,
	})
	CY = mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, -1i,
		0, 0, 1i, 0,
	})
	CZ = mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, -1,
	})
	CS = mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1i,
	})
	SWAP = mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	})
)

// Rx returns exp(-i theta X),
//
//	[cos(theta), -i sin(theta)]
//	[-i sin(theta), cos(theta)]
//
// Note the full turn convention: theta enters the exponent whole, not
// halved.
func Rx(theta float64) *mat.CDense {
	c := complex(math.Cos(theta), 0)
	s := complex(0, -math.Sin(theta))
	return mat.NewCDense(2, 2, []complex128{
		c, s,
		s, c,
	})
}

// Ry returns exp(-i theta Y), in the same full turn convention as Rx.
func Ry(theta float64) *mat.CDense {
	c := complex(math.Cos(theta), 0)
	s := complex(math.Sin(theta), 0)
	return mat.NewCDense(2, 2, []complex128{
		c, -s,
		s, c,
	})
}

// Rz returns exp(-i theta Z), in the same full turn convention as Rx.
func Rz(theta float64) *mat.CDense {
	c, s := math.Cos(theta), math.Sin(theta)
	return mat.NewCDense(2, 2, []complex128{
		complex(c, -s), 0,
		0, complex(c, s),
	})
}
