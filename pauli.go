package quasar

import (
	"math/cmplx"

	"github.com/jlapeyre/quasar/qmat"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Compute1PDM returns the one particle density matrix of a qubit,
//
//	D_ij = sum conj(bra_LiR) ket_LjR
//
// contracting all qubits except the given one. bra and ket may be the same
// slice, in which case D is the reduced density matrix of the state.
func Compute1PDM(bra, ket []complex128, qubit int) (*mat.CDense, error) {
	n, err := stateQubits(ket)
	if err != nil {
		return nil, err
	}
	if len(bra) != len(ket) {
		return nil, errors.Wrapf(ErrShape, "bra of length %d, ket of length %d", len(bra), len(ket))
	}
	if qubit < 0 || qubit >= n {
		return nil, errors.Wrapf(ErrQubit, "qubit %d on %d qubits", qubit, n)
	}
	ldim := 1 << qubit
	rdim := 1 << (n - qubit - 1)
	var d [4]complex128
	for l := range ldim {
		base := l * 2 * rdim
		for r := range rdim {
			b0 := cmplx.Conj(bra[base+r])
			b1 := cmplx.Conj(bra[base+rdim+r])
			k0 := ket[base+r]
			k1 := ket[base+rdim+r]
			d[0] += b0 * k0
			d[1] += b0 * k1
			d[2] += b1 * k0
			d[3] += b1 * k1
		}
	}
	return mat.NewCDense(2, 2, d[:]), nil
}

// Compute2PDM returns the two particle density matrix of an ordered qubit
// pair, a 4x4 matrix whose indices run over the basis |qubitA qubitB>.
// Like ApplyGate2 it is insensitive to argument order up to the
// corresponding relabelling of rows and columns.
func Compute2PDM(bra, ket []complex128, qubitA, qubitB int) (*mat.CDense, error) {
	n, err := stateQubits(ket)
	if err != nil {
		return nil, err
	}
	if len(bra) != len(ket) {
		return nil, errors.Wrapf(ErrShape, "bra of length %d, ket of length %d", len(bra), len(ket))
	}
	if qubitA == qubitB {
		return nil, errors.Wrapf(ErrQubit, "coincident qubits %d and %d", qubitA, qubitB)
	}
	if qubitA < 0 || qubitA >= n {
		return nil, errors.Wrapf(ErrQubit, "qubit %d on %d qubits", qubitA, n)
	}
	if qubitB < 0 || qubitB >= n {
		return nil, errors.Wrapf(ErrQubit, "qubit %d on %d qubits", qubitB, n)
	}
	lo, hi := qubitA, qubitB
	swapped := false
	if lo > hi {
		lo, hi = hi, lo
		swapped = true
	}
	ldim := 1 << lo
	mdim := 1 << (hi - lo - 1)
	rdim := 1 << (n - hi - 1)
	var d [4][4]complex128
	for l := range ldim {
		for m := range mdim {
			o00 := (l*2*mdim + m) * 2 * rdim
			o01 := o00 + rdim
			o10 := o00 + 2*mdim*rdim
			o11 := o10 + rdim
			for r := range rdim {
				b := [4]complex128{
					cmplx.Conj(bra[o00+r]), cmplx.Conj(bra[o01+r]),
					cmplx.Conj(bra[o10+r]), cmplx.Conj(bra[o11+r]),
				}
				k := [4]complex128{
					ket[o00+r], ket[o01+r],
					ket[o10+r], ket[o11+r],
				}
				for i := range 4 {
					for j := range 4 {
						d[i][j] += b[i] * k[j]
					}
				}
			}
		}
	}
	out := make([]complex128, 16)
	for i := range 4 {
		for j := range 4 {
			if swapped {
				out[swapPair(i)*4+swapPair(j)] = d[i][j]
			} else {
				out[i*4+j] = d[i][j]
			}
		}
	}
	return mat.NewCDense(4, 4, out), nil
}

// ComputePauli1 returns the Pauli expectation values [<I>, <X>, <Y>, <Z>]
// of a qubit of the state.
func ComputePauli1(state []complex128, qubit int) ([4]float64, error) {
	d, err := Compute1PDM(state, state, qubit)
	if err != nil {
		return [4]float64{}, err
	}
	d00, d01 := d.At(0, 0), d.At(0, 1)
	d10, d11 := d.At(1, 0), d.At(1, 1)
	return [4]float64{
		real(d00 + d11),
		real(d10 + d01),
		imag(d10 - d01),
		real(d00 - d11),
	}, nil
}

// pauli2 holds the two qubit Pauli operators indexed as
// pauli2[a][b] = kron(P_a, P_b) with P in (I, X, Y, Z) order.
var pauli2 = [4][4]*mat.CDense{
	{qmat.II, qmat.IX, qmat.IY, qmat.IZ},
	{qmat.XI, qmat.XX, qmat.XY, qmat.XZ},
	{qmat.YI, qmat.YX, qmat.YY, qmat.YZ},
	{qmat.ZI, qmat.ZX, qmat.ZY, qmat.ZZ},
}

// ComputePauli2 returns the two qubit Pauli expectation values of a qubit
// pair of the state. Entry [a][b] is <P_a P_b> with P_a acting on qubitA
// and P_b on qubitB, in (I, X, Y, Z) order. Entry [0][0] is the state norm
// and row [a][0] and column [0][b] reproduce the one qubit expectations.
func ComputePauli2(state []complex128, qubitA, qubitB int) ([4][4]float64, error) {
	d, err := Compute2PDM(state, state, qubitA, qubitB)
	if err != nil {
		return [4][4]float64{}, err
	}
	var g [4][4]float64
	for a := range 4 {
		for b := range 4 {
			p := pauli2[a][b]
			var sum complex128
			for m := range 4 {
				for n := range 4 {
					sum += cmplx.Conj(p.At(m, n)) * d.At(m, n)
				}
			}
			g[a][b] = real(sum)
		}
	}
	return g, nil
}
