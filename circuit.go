package quasar

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// A Placement locates a gate inside a circuit: the time moment T and the
// ordered qubits the gate acts on.
type Placement struct {
	T      int
	Qubits []int
}

type entry struct {
	t      int
	qubits []int
	gate   *Gate
}

// slot is one occupied (time, qubit) cell.
type slot struct {
	t, qubit int
}

// A Circuit maps (time, qubit tuple) placements to gates on n qubits.
// Placements are kept in insertion order. No two gates may claim the same
// (time, qubit) slot, so gates sharing a moment always act on disjoint
// qubits. Circuits grow only through AddGate; every other shape arises from
// whole circuit transforms such as Subset, Reversed or Compressed.
type Circuit struct {
	n       int
	entries []entry
	slots   map[slot]int
	times   []int
}

// NewCircuit returns an empty circuit on n qubits.
func NewCircuit(n int) (*Circuit, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrConstruction, "circuit on %d qubits", n)
	}
	return &Circuit{n: n, slots: make(map[slot]int)}, nil
}

// N returns the number of qubits.
func (c *Circuit) N() int { return c.n }

// NMoment returns the number of time moments, one past the latest occupied
// moment. An empty circuit has zero moments.
func (c *Circuit) NMoment() int {
	if len(c.times) == 0 {
		return 0
	}
	return c.times[len(c.times)-1] + 1
}

// Times returns the sorted distinct occupied moments. The caller must not
// modify the returned slice.
func (c *Circuit) Times() []int { return c.times }

// NGate returns the number of placed gates.
func (c *Circuit) NGate() int { return len(c.entries) }

// NGate1 returns the number of placed one qubit gates.
func (c *Circuit) NGate1() int { return c.countGates(1) }

// NGate2 returns the number of placed two qubit gates.
func (c *Circuit) NGate2() int { return c.countGates(2) }

func (c *Circuit) countGates(n int) int {
	count := 0
	for _, e := range c.entries {
		if e.gate.n == n {
			count++
		}
	}
	return count
}

// AddGate places gate at time t on the given qubits, whose count must equal
// the gate's arity. Qubit order follows the gate's slot order: for CNOT the
// first qubit is the control. AddGate validates everything before mutating,
// so a failed add leaves the circuit unchanged.
func (c *Circuit) AddGate(t int, gate *Gate, qubits ...int) error {
	if gate == nil {
		return errors.Wrap(ErrConstruction, "nil gate")
	}
	if t < 0 {
		return errors.Wrapf(ErrPlacement, "time %d is negative", t)
	}
	if len(qubits) != gate.n {
		return errors.Wrapf(ErrArity, "%d qubits for the %d qubit gate %q", len(qubits), gate.n, gate.name)
	}
	for _, q := range qubits {
		if q < 0 || q >= c.n {
			return errors.Wrapf(ErrQubit, "qubit %d on a %d qubit circuit", q, c.n)
		}
		if i, ok := c.slots[slot{t, q}]; ok {
			return errors.Wrapf(ErrPlacement, "slot (%d, %d) is taken by gate %q", t, q, c.entries[i].gate.name)
		}
	}
	idx := len(c.entries)
	c.entries = append(c.entries, entry{t: t, qubits: slices.Clone(qubits), gate: gate})
	for _, q := range qubits {
		c.slots[slot{t, q}] = idx
	}
	if i, ok := slices.BinarySearch(c.times, t); !ok {
		c.times = slices.Insert(c.times, i, t)
	}
	return nil
}

// mustAdd rebuilds placements that are valid by construction.
func (c *Circuit) mustAdd(t int, qubits []int, g *Gate) {
	if err := c.AddGate(t, g, qubits...); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
}

// Gate returns the gate placed at exactly (t, qubits).
func (c *Circuit) Gate(t int, qubits ...int) (*Gate, error) {
	if len(qubits) == 0 {
		return nil, errors.Wrap(ErrNotFound, "empty qubit key")
	}
	i, ok := c.slots[slot{t, qubits[0]}]
	if !ok || !slices.Equal(c.entries[i].qubits, qubits) {
		return nil, errors.Wrapf(ErrNotFound, "no gate at time %d on qubits %v", t, qubits)
	}
	return c.entries[i].gate, nil
}

// Gates iterates over placements and their gates in insertion order. The
// yielded placements alias internal state; treat them as read only.
func (c *Circuit) Gates() func(yield func(Placement, *Gate) bool) {
	return func(yield func(Placement, *Gate) bool) {
		for _, e := range c.entries {
			if !yield(Placement{T: e.t, Qubits: e.qubits}, e.gate) {
				return
			}
		}
	}
}

// TransformOptions are options for the transforms deriving one circuit
// from another.
type TransformOptions struct {
	shareGates bool
}

// NewTransformOptions returns the default transform options: gates are deep
// copied into the derived circuit.
func NewTransformOptions() TransformOptions {
	return TransformOptions{}
}

// ShareGates, when set, places the source's gate objects themselves in the
// derived circuit instead of copies, so parameter mutations show through
// both circuits.
func (opt TransformOptions) ShareGates(share bool) TransformOptions {
	opt.shareGates = share
	return opt
}

func (opt TransformOptions) gate(g *Gate) *Gate {
	if opt.shareGates {
		return g
	}
	return g.Copy()
}

func transformOptions(options []TransformOptions) TransformOptions {
	if len(options) > 0 {
		return options[0]
	}
	return NewTransformOptions()
}

// Copy returns a circuit with the same placements and deep copies of every
// gate, so parameter mutations do not propagate either way.
func (c *Circuit) Copy() *Circuit {
	out := &Circuit{n: c.n, slots: make(map[slot]int, len(c.slots))}
	for _, e := range c.entries {
		out.mustAdd(e.t, e.qubits, e.gate.Copy())
	}
	return out
}

// Subset keeps only the given moments, re-indexed to 0..len(times)-1 in the
// given order. A moment listed twice keeps its first index. Subset fails if
// a requested moment is not below NMoment.
func (c *Circuit) Subset(times []int, options ...TransformOptions) (*Circuit, error) {
	opt := transformOptions(options)
	nmoment := c.NMoment()
	tmap := make(map[int]int, len(times))
	for i, t := range times {
		if t >= nmoment {
			return nil, errors.Wrapf(ErrNotFound, "moment %d of a %d moment circuit", t, nmoment)
		}
		if _, ok := tmap[t]; !ok {
			tmap[t] = i
		}
	}
	out := &Circuit{n: c.n, slots: make(map[slot]int)}
	for _, e := range c.entries {
		t2, ok := tmap[e.t]
		if !ok {
			continue
		}
		out.mustAdd(t2, e.qubits, opt.gate(e.gate))
	}
	return out, nil
}

// Concatenate stacks circuits in time, each shifted by the total moment
// count of those before it. All circuits must share one qubit count.
func Concatenate(circuits []*Circuit, options ...TransformOptions) (*Circuit, error) {
	opt := transformOptions(options)
	if len(circuits) == 0 {
		return nil, errors.Wrap(ErrConstruction, "concatenate of no circuits")
	}
	n := circuits[0].n
	for _, c := range circuits {
		if c.n != n {
			return nil, errors.Wrapf(ErrConstruction, "concatenate of %d qubit and %d qubit circuits", n, c.n)
		}
	}
	out := &Circuit{n: n, slots: make(map[slot]int)}
	offset := 0
	for _, c := range circuits {
		for _, e := range c.entries {
			out.mustAdd(e.t+offset, e.qubits, opt.gate(e.gate))
		}
		offset += c.NMoment()
	}
	return out, nil
}

// Deadjoin returns the sub circuit on the given qubits, re-indexed to
// 0..len(qubits)-1 in the given order. Gates touching any other qubit are
// dropped.
func (c *Circuit) Deadjoin(qubits []int, options ...TransformOptions) (*Circuit, error) {
	opt := transformOptions(options)
	for _, q := range qubits {
		if q < 0 || q >= c.n {
			return nil, errors.Wrapf(ErrQubit, "qubit %d on a %d qubit circuit", q, c.n)
		}
	}
	out, err := NewCircuit(len(qubits))
	if err != nil {
		return nil, err
	}
	qmap := make(map[int]int, len(qubits))
	for i, q := range qubits {
		qmap[q] = i
	}
	for _, e := range c.entries {
		mapped := make([]int, 0, len(e.qubits))
		for _, q := range e.qubits {
			q2, ok := qmap[q]
			if !ok {
				break
			}
			mapped = append(mapped, q2)
		}
		if len(mapped) != len(e.qubits) {
			continue
		}
		out.mustAdd(e.t, mapped, opt.gate(e.gate))
	}
	return out, nil
}

// Adjoin stacks circuits spatially: the result acts on the concatenation of
// their qubit ranges, with moments unchanged.
func Adjoin(circuits []*Circuit, options ...TransformOptions) (*Circuit, error) {
	opt := transformOptions(options)
	if len(circuits) == 0 {
		return nil, errors.Wrap(ErrConstruction, "adjoin of no circuits")
	}
	n := 0
	for _, c := range circuits {
		n += c.n
	}
	out := &Circuit{n: n, slots: make(map[slot]int)}
	offset := 0
	for _, c := range circuits {
		for _, e := range c.entries {
			mapped := make([]int, len(e.qubits))
			for i, q := range e.qubits {
				mapped[i] = q + offset
			}
			out.mustAdd(e.t, mapped, opt.gate(e.gate))
		}
		offset += c.n
	}
	return out, nil
}

// Reversed returns a circuit with moment t relabeled to NMoment()-1-t.
// This is a structural flip of the time axis only: gate unitaries are not
// inverted or conjugated. Unlike the other transforms the result shares the
// source's gate objects; call Copy on it to break the sharing.
func (c *Circuit) Reversed() *Circuit {
	nmoment := c.NMoment()
	out := &Circuit{n: c.n, slots: make(map[slot]int)}
	for _, e := range c.entries {
		out.mustAdd(nmoment-1-e.t, e.qubits, e.gate)
	}
	return out
}

// Nonredundant compacts the occupied moments to 0..len(Times())-1, removing
// empty moments. The result shares the source's gate objects.
func (c *Circuit) Nonredundant() *Circuit {
	tmap := make(map[int]int, len(c.times))
	for i, t := range c.times {
		tmap[t] = i
	}
	out := &Circuit{n: c.n, slots: make(map[slot]int)}
	for _, e := range c.entries {
		out.mustAdd(tmap[e.t], e.qubits, e.gate)
	}
	return out
}

// A ParamKey locates one mutable parameter inside a circuit.
type ParamKey struct {
	T      int
	Qubits []int
	Name   string
}

// A CircuitParam is a parameter key with its current value.
type CircuitParam struct {
	Key   ParamKey
	Value float64
}

// NParam returns the total number of mutable gate parameters.
func (c *Circuit) NParam() int {
	n := 0
	for _, e := range c.entries {
		n += e.gate.NParams()
	}
	return n
}

// paramOrder returns entry indices sorted by (time, qubit tuple), the
// canonical parameter order. Keys never tie: two gates at one moment never
// share a first qubit.
func (c *Circuit) paramOrder() []int {
	idx := make([]int, len(c.entries))
	for i := range idx {
		idx[i] = i
	}
	slices.SortFunc(idx, func(a, b int) int {
		ea, eb := c.entries[a], c.entries[b]
		if ea.t != eb.t {
			return cmp.Compare(ea.t, eb.t)
		}
		return slices.Compare(ea.qubits, eb.qubits)
	})
	return idx
}

// ParamKeys returns one key per mutable parameter, sorted by (time, qubit
// tuple), with each gate's parameters in declaration order. This canonical
// order is the contract for ParamValues and SetParamValues, independent of
// gate insertion order.
func (c *Circuit) ParamKeys() []ParamKey {
	keys := make([]ParamKey, 0, c.NParam())
	for _, i := range c.paramOrder() {
		e := c.entries[i]
		for _, name := range e.gate.names {
			keys = append(keys, ParamKey{T: e.t, Qubits: slices.Clone(e.qubits), Name: name})
		}
	}
	return keys
}

// ParamValues returns the parameter values in ParamKeys order.
func (c *Circuit) ParamValues() []float64 {
	vs := make([]float64, 0, c.NParam())
	for _, i := range c.paramOrder() {
		e := c.entries[i]
		for _, name := range e.gate.names {
			vs = append(vs, e.gate.values[name])
		}
	}
	return vs
}

// SetParamValues writes all parameter values in ParamKeys order.
func (c *Circuit) SetParamValues(values []float64) error {
	if len(values) != c.NParam() {
		return errors.Wrapf(ErrShape, "%d values for %d parameters", len(values), c.NParam())
	}
	k := 0
	for _, i := range c.paramOrder() {
		e := c.entries[i]
		for _, name := range e.gate.names {
			e.gate.values[name] = values[k]
			k++
		}
	}
	return nil
}

// Params returns the parameters with their keys, in ParamKeys order.
func (c *Circuit) Params() []CircuitParam {
	ps := make([]CircuitParam, 0, c.NParam())
	for _, i := range c.paramOrder() {
		e := c.entries[i]
		for _, name := range e.gate.names {
			ps = append(ps, CircuitParam{
				Key:   ParamKey{T: e.t, Qubits: slices.Clone(e.qubits), Name: name},
				Value: e.gate.values[name],
			})
		}
	}
	return ps
}

// SetParam sets one parameter by its circuit coordinates.
func (c *Circuit) SetParam(t int, qubits []int, name string, value float64) error {
	g, err := c.Gate(t, qubits...)
	if err != nil {
		return err
	}
	return g.SetParam(name, value)
}

// SetParams sets several parameters by their circuit coordinates.
func (c *Circuit) SetParams(params []CircuitParam) error {
	for _, p := range params {
		if err := c.SetParam(p.Key.T, p.Key.Qubits, p.Key.Name, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// ParamString formats the current parameters one per line, for debugging.
func (c *Circuit) ParamString() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-8s %-8s %s\n", "T", "qubits", "name", "value")
	for _, p := range c.Params() {
		fmt.Fprintf(&b, "%-4d %-8s %-8s %v\n", p.Key.T, fmt.Sprintf("%v", p.Key.Qubits), p.Key.Name, p.Value)
	}
	return b.String()
}
