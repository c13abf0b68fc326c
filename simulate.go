package quasar

import (
	"fmt"
	"math/bits"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Simulate propagates a state vector through the circuit and returns the
// final state. A nil initial means the all zero computational basis state
// |0...0>. The result is freshly allocated and initial is never mutated.
// An empty circuit returns a copy of the initial state.
func (c *Circuit) Simulate(initial []complex128) ([]complex128, error) {
	steps, err := c.SimulateSteps(initial)
	if err != nil {
		return nil, err
	}
	var final []complex128
	for _, state := range steps {
		final = state
	}
	if final == nil {
		return c.initialState(initial)
	}
	// The buffer yielded last is not written again, so it is ours.
	return final, nil
}

// SimulateSteps returns a single pass iterator propagating the state moment
// by moment. It yields (moment, state) for every moment 0..NMoment()-1,
// including moments with no gates, where state is the wavefunction after
// that moment. To avoid repeated 2^n allocations the iterator works on two
// internal buffers and the yielded slice aliases one of them, so consumers
// keeping a history must copy each yield. The supplied initial state is
// never mutated.
func (c *Circuit) SimulateSteps(initial []complex128) (func(yield func(int, []complex128) bool), error) {
	for _, e := range c.entries {
		if e.gate.n > 2 {
			return nil, errors.Wrapf(ErrArity, "cannot simulate the %d qubit gate %q", e.gate.n, e.gate.name)
		}
		if e.gate.n == 2 && e.qubits[0] == e.qubits[1] {
			return nil, errors.Wrapf(ErrQubit, "gate %q on coincident qubits %v", e.gate.name, e.qubits)
		}
	}
	wfn1, err := c.initialState(initial)
	if err != nil {
		return nil, err
	}
	wfn2 := make([]complex128, len(wfn1))
	byMoment := make(map[int][]entry, len(c.times))
	for _, e := range c.entries {
		byMoment[e.t] = append(byMoment[e.t], e)
	}
	nmoment := c.NMoment()
	return func(yield func(int, []complex128) bool) {
		for t := range nmoment {
			for _, e := range byMoment[t] {
				var err error
				if e.gate.n == 1 {
					err = ApplyGate1(wfn2, wfn1, e.gate.U(), e.qubits[0])
				} else {
					err = ApplyGate2(wfn2, wfn1, e.gate.U(), e.qubits[0], e.qubits[1])
				}
				if err != nil {
					// Unreachable for gates that passed construction
					// and placement validation.
					panic(fmt.Sprintf("%+v", err))
				}
				wfn1, wfn2 = wfn2, wfn1
			}
			if !yield(t, wfn1) {
				return
			}
		}
	}, nil
}

// initialState validates initial against the circuit width and returns a
// working copy, defaulting to the all zero basis state.
func (c *Circuit) initialState(initial []complex128) ([]complex128, error) {
	size := 1 << c.n
	if initial != nil && len(initial) != size {
		return nil, errors.Wrapf(ErrShape, "initial state of length %d on a %d qubit circuit, expected %d", len(initial), c.n, size)
	}
	state := make([]complex128, size)
	if initial == nil {
		state[0] = 1
		return state, nil
	}
	copy(state, initial)
	return state, nil
}

// stateQubits returns the qubit count of a state vector, which must have
// power of two length.
func stateQubits(state []complex128) (int, error) {
	n := len(state)
	if n == 0 || n&(n-1) != 0 {
		return 0, errors.Wrapf(ErrShape, "state of length %d is not a power of two", n)
	}
	return bits.TrailingZeros(uint(n)), nil
}

// ApplyGate1 applies the 2x2 unitary u at the given qubit,
//
//	dst_LiR = sum_j u_ij src_LjR
//
// where L runs over the qubits left of qubit (more significant) and R over
// those right of it. Every element of dst is overwritten. dst and src must
// be distinct buffers of equal power of two length.
func ApplyGate1(dst, src []complex128, u *mat.CDense, qubit int) error {
	n, err := stateQubits(src)
	if err != nil {
		return err
	}
	if len(dst) != len(src) {
		return errors.Wrapf(ErrShape, "destination of length %d, expected %d", len(dst), len(src))
	}
	if r, c := u.Dims(); r != 2 || c != 2 {
		return errors.Wrapf(ErrShape, "matrix is %dx%d, expected 2x2", r, c)
	}
	if qubit < 0 || qubit >= n {
		return errors.Wrapf(ErrQubit, "qubit %d on %d qubits", qubit, n)
	}
	u00, u01 := u.At(0, 0), u.At(0, 1)
	u10, u11 := u.At(1, 0), u.At(1, 1)
	// View the state as (2^qubit, 2, 2^(n-qubit-1)) and contract the
	// middle axis with u.
	ldim := 1 << qubit
	rdim := 1 << (n - qubit - 1)
	for l := range ldim {
		base := l * 2 * rdim
		for r := range rdim {
			s0 := src[base+r]
			s1 := src[base+rdim+r]
			dst[base+r] = u00*s0 + u01*s1
			dst[base+rdim+r] = u10*s0 + u11*s1
		}
	}
	return nil
}

// ApplyGate2 applies the 4x4 unitary u at the ordered qubit pair
// (qubitA, qubitB),
//
//	dst_LiMjR = sum_kl u_ijkl src_LkMlR
//
// with the state viewed as (left, 2, middle, 2, right) split at the two
// qubits. The row index of u runs over the basis |qubitA qubitB>; when
// qubitA > qubitB the matrix legs are permuted internally, so argument
// order never changes the physics. Every element of dst is overwritten.
// dst and src must be distinct buffers.
func ApplyGate2(dst, src []complex128, u *mat.CDense, qubitA, qubitB int) error {
	n, err := stateQubits(src)
	if err != nil {
		return err
	}
	if len(dst) != len(src) {
		return errors.Wrapf(ErrShape, "destination of length %d, expected %d", len(dst), len(src))
	}
	if r, c := u.Dims(); r != 4 || c != 4 {
		return errors.Wrapf(ErrShape, "matrix is %dx%d, expected 4x4", r, c)
	}
	if qubitA == qubitB {
		return errors.Wrapf(ErrQubit, "coincident qubits %d and %d", qubitA, qubitB)
	}
	if qubitA < 0 || qubitA >= n {
		return errors.Wrapf(ErrQubit, "qubit %d on %d qubits", qubitA, n)
	}
	if qubitB < 0 || qubitB >= n {
		return errors.Wrapf(ErrQubit, "qubit %d on %d qubits", qubitB, n)
	}
	var uu [4][4]complex128
	if qubitA > qubitB {
		qubitA, qubitB = qubitB, qubitA
		for i := range 4 {
			for j := range 4 {
				uu[swapPair(i)][swapPair(j)] = u.At(i, j)
			}
		}
	} else {
		for i := range 4 {
			for j := range 4 {
				uu[i][j] = u.At(i, j)
			}
		}
	}
	ldim := 1 << qubitA
	mdim := 1 << (qubitB - qubitA - 1)
	rdim := 1 << (n - qubitB - 1)
	for l := range ldim {
		for m := range mdim {
			o00 := (l*2*mdim + m) * 2 * rdim
			o01 := o00 + rdim
			o10 := o00 + 2*mdim*rdim
			o11 := o10 + rdim
			for r := range rdim {
				s00 := src[o00+r]
				s01 := src[o01+r]
				s10 := src[o10+r]
				s11 := src[o11+r]
				dst[o00+r] = uu[0][0]*s00 + uu[0][1]*s01 + uu[0][2]*s10 + uu[0][3]*s11
				dst[o01+r] = uu[1][0]*s00 + uu[1][1]*s01 + uu[1][2]*s10 + uu[1][3]*s11
				dst[o10+r] = uu[2][0]*s00 + uu[2][1]*s01 + uu[2][2]*s10 + uu[2][3]*s11
				dst[o11+r] = uu[3][0]*s00 + uu[3][1]*s01 + uu[3][2]*s10 + uu[3][3]*s11
			}
		}
	}
	return nil
}

// swapPair exchanges the two bits of a two qubit basis index.
func swapPair(i int) int {
	return (i&1)<<1 | i>>1
}
