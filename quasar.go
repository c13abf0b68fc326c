// Package quasar simulates quantum circuits by propagating a dense complex
// state vector through one and two qubit unitary gates.
//
// Qubit 0 is the most significant bit of a basis state index: the basis
// state |q0 q1 ... qn-1> sits at index q0*2^(n-1) + q1*2^(n-2) + ... + qn-1.
// A Hadamard on qubit 0 of the n qubit zero state therefore leaves amplitude
// 1/sqrt(2) at indices 0 and 2^(n-1). This is the ordering of Nielsen and
// Chuang, Quantum Computation and Quantum Information, section 1.2.1, and it
// governs every reshape in this package.
//
// Circuits are built by placing gates at integer time moments:
//
//	c, _ := quasar.NewCircuit(2)
//	c.AddGate(0, quasar.H(), 0)
//	c.AddGate(1, quasar.CNOT(), 0, 1)
//	state, err := c.Simulate(nil)
//
// Gates sharing a moment act on disjoint qubits, so they commute and may be
// applied in any order. Compressed returns an equivalent circuit with fewer
// full state applications, which pays off when the same circuit is simulated
// many times, as in a parameter sweep (see the sweep subpackage).
package quasar
