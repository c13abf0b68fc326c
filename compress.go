package quasar

import (
	"fmt"

	"github.com/jlapeyre/quasar/qmat"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Plan tags classify the (qubit, moment) cells of a circuit.
const (
	planEmpty   int8 = 0
	planOne     int8 = 1  // one qubit gate
	planTwoHead int8 = 2  // first qubit of a two qubit gate
	planTwoTail int8 = -2 // second qubit of a two qubit gate
)

// plan returns the occupancy table indexed [qubit][moment]. Only one and
// two qubit gates on distinct qubits can be planned.
func (c *Circuit) plan() ([][]int8, error) {
	plan := make([][]int8, c.n)
	for q := range plan {
		plan[q] = make([]int8, c.NMoment())
	}
	for _, e := range c.entries {
		switch e.gate.n {
		case 1:
			plan[e.qubits[0]][e.t] = planOne
		case 2:
			if e.qubits[0] == e.qubits[1] {
				return nil, errors.Wrapf(ErrQubit, "gate %q on coincident qubits %v", e.gate.name, e.qubits)
			}
			plan[e.qubits[0]][e.t] = planTwoHead
			plan[e.qubits[1]][e.t] = planTwoTail
		default:
			return nil, errors.Wrapf(ErrArity, "cannot compress the %d qubit gate %q", e.gate.n, e.gate.name)
		}
	}
	return plan, nil
}

// Compressed returns an equivalent circuit in which every fusable run of
// gates collapses into a single frozen gate, shrinking the work of repeated
// simulation. Three passes run in order: runs of one qubit gates on a wire
// fuse into U1 gates, lone one qubit gates are absorbed into neighboring
// two qubit gates, and runs of two qubit gates on a common qubit pair fuse
// into U2 gates. The result holds only frozen U1 and U2 gates, each placed
// at its run's first moment with empty moments compacted, and shares no
// gate objects with the receiver. Parameters are frozen at their current
// values. Only one and two qubit gates on distinct qubits compress.
func (c *Circuit) Compressed() (*Circuit, error) {
	plan, err := c.plan()
	if err != nil {
		return nil, err
	}
	c1 := c.fuseOneBodyChains(plan)
	plan1, err := c1.plan()
	if err != nil {
		return nil, err
	}
	c2 := c1.absorbOneBody(plan1)
	c3 := c2.fuseTwoBodyRuns()
	return c3.Nonredundant(), nil
}

// fuseOneBodyChains fuses each maximal run of one qubit gates on a wire
// into one frozen gate at the run's first moment. Runs extend through empty
// moments and end at two qubit gates. Two qubit gates carry over unchanged.
func (c *Circuit) fuseOneBodyChains(plan [][]int8) *Circuit {
	out := &Circuit{n: c.n, slots: make(map[slot]int)}
	nmoment := c.NMoment()
	for qubit, row := range plan {
		tstar := -1
		var u *mat.CDense
		for t, tag := range row {
			if tag == planOne {
				g := c.gateAt(t, qubit)
				if u == nil {
					tstar = t
					u = g.U()
				} else {
					u = qmat.Mul(g.U(), u)
				}
			}
			if (tag == planTwoHead || tag == planTwoTail || t == nmoment-1) && u != nil {
				out.mustAdd(tstar, []int{qubit}, mustGate(U1(u)))
				tstar = -1
				u = nil
			}
		}
	}
	for _, e := range c.entries {
		if e.gate.n == 2 {
			out.mustAdd(e.t, e.qubits, e.gate)
		}
	}
	return out
}

// absorbOneBody folds lone one qubit gates into neighboring two qubit
// gates. Each two qubit gate absorbs the nearest preceding one qubit gate
// on each of its wires, and a following one only when the wire sees no two
// qubit gate again, leaving gates between two qubit gates to run fusion.
// Every two qubit gate is re-emitted frozen; unabsorbed one qubit gates
// carry over unchanged.
func (c *Circuit) absorbOneBody(plan [][]int8) *Circuit {
	out := &Circuit{n: c.n, slots: make(map[slot]int)}
	jammed := make(map[slot]bool)
	for _, e := range c.entries {
		if e.gate.n != 2 {
			continue
		}
		u := e.gate.U()
		for i, qubit := range e.qubits {
			for t2 := e.t - 1; t2 >= 0; t2-- {
				tag := plan[qubit][t2]
				if tag == planTwoHead || tag == planTwoTail {
					break
				}
				if tag == planOne {
					// The absorbed gate acts before, so it composes on
					// the right.
					u = qmat.Mul(u, kronSlot(c.gateAt(t2, qubit).U(), i))
					jammed[slot{t2, qubit}] = true
					break
				}
			}
		}
		for i, qubit := range e.qubits {
			t2, ok := trailingOneBody(plan[qubit], e.t)
			if !ok {
				continue
			}
			u = qmat.Mul(kronSlot(c.gateAt(t2, qubit).U(), i), u)
			jammed[slot{t2, qubit}] = true
		}
		out.mustAdd(e.t, e.qubits, mustGate(U2(u)))
	}
	for _, e := range c.entries {
		if e.gate.n == 1 && !jammed[slot{e.t, e.qubits[0]}] {
			out.mustAdd(e.t, e.qubits, e.gate)
		}
	}
	return out
}

// fuseTwoBodyRuns fuses each run of two qubit gates on a common qubit pair,
// in either qubit order, into one frozen gate at the run's first moment.
// Runs extend through empty moments and end when either wire is otherwise
// occupied. One qubit gates carry over unchanged. Heads must be visited in
// ascending time so that absorbed gates are jammed before their own turn.
func (c *Circuit) fuseTwoBodyRuns() *Circuit {
	out := &Circuit{n: c.n, slots: make(map[slot]int)}
	nmoment := c.NMoment()
	byMoment := make(map[int][]entry)
	for _, e := range c.entries {
		if e.gate.n == 2 {
			byMoment[e.t] = append(byMoment[e.t], e)
		}
	}
	type pairKey struct{ t, a, b int }
	jammed := make(map[pairKey]bool)
	for t := range nmoment {
		for _, e := range byMoment[t] {
			a, b := e.qubits[0], e.qubits[1]
			if jammed[pairKey{t, a, b}] {
				continue
			}
			u := e.gate.U()
			for t2 := t + 1; t2 < nmoment; t2++ {
				if g, err := c.Gate(t2, a, b); err == nil {
					u = qmat.Mul(g.U(), u)
					jammed[pairKey{t2, a, b}] = true
					continue
				}
				if g, err := c.Gate(t2, b, a); err == nil {
					u = qmat.Mul(swapLegs(g.U()), u)
					jammed[pairKey{t2, b, a}] = true
					continue
				}
				if c.occupied(t2, a) || c.occupied(t2, b) {
					break
				}
			}
			out.mustAdd(t, []int{a, b}, mustGate(U2(u)))
		}
	}
	for _, e := range c.entries {
		if e.gate.n == 1 {
			out.mustAdd(e.t, e.qubits, e.gate)
		}
	}
	return out
}

// gateAt fetches a gate whose placement is known from the plan.
func (c *Circuit) gateAt(t, qubit int) *Gate {
	g, err := c.Gate(t, qubit)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return g
}

// occupied reports whether any gate claims the (t, qubit) slot.
func (c *Circuit) occupied(t, qubit int) bool {
	_, ok := c.slots[slot{t, qubit}]
	return ok
}

// trailingOneBody reports the first one qubit gate on the wire after moment
// t, provided no two qubit gate touches the wire again.
func trailingOneBody(row []int8, t int) (int, bool) {
	first := -1
	for t2 := t + 1; t2 < len(row); t2++ {
		switch row[t2] {
		case planTwoHead, planTwoTail:
			return 0, false
		case planOne:
			if first < 0 {
				first = t2
			}
		}
	}
	if first < 0 {
		return 0, false
	}
	return first, true
}

// kronSlot embeds the 2x2 matrix g at slot i of a two qubit gate's qubit
// tuple: kron(g, I) at the first slot, kron(I, g) at the second.
func kronSlot(g *mat.CDense, i int) *mat.CDense {
	if i == 0 {
		return qmat.Kron(g, qmat.I)
	}
	return qmat.Kron(qmat.I, g)
}

// swapLegs exchanges the qubit slots of both indices of a two qubit
// matrix, turning a gate on (b, a) into the same gate on (a, b).
func swapLegs(u *mat.CDense) *mat.CDense {
	out := mat.NewCDense(4, 4, nil)
	for i := range 4 {
		for j := range 4 {
			out.Set(swapPair(i), swapPair(j), u.At(i, j))
		}
	}
	return out
}
