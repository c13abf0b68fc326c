package quasar

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/jlapeyre/quasar/qmat"
)

// A Generator produces a gate's unitary from its current parameter values.
// Generators must be pure: equal parameters yield equal matrices.
type Generator func(params map[string]float64) *mat.CDense

// A Param is a named real gate parameter.
type Param struct {
	Name  string
	Value float64
}

// A Gate is a unitary operator on a fixed number of qubits, generated on
// demand from named mutable real parameters. The zero Gate is not valid;
// use NewGate or one of the library constructors.
type Gate struct {
	n       int
	gen     Generator
	names   []string
	values  map[string]float64
	name    string
	symbols []string
}

// NewGate builds a gate acting on n qubits with the given generator and
// initial parameters, in declaration order. name is a display name such as
// "CNOT" and symbols holds one display string per qubit slot, such as
// "@", "X". NewGate evaluates gen once and fails unless it returns a
// 2^n by 2^n matrix.
func NewGate(n int, gen Generator, params []Param, name string, symbols []string) (*Gate, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrConstruction, "gate %q acts on %d qubits", name, n)
	}
	if gen == nil {
		return nil, errors.Wrapf(ErrConstruction, "gate %q has a nil generator", name)
	}
	if len(symbols) != n {
		return nil, errors.Wrapf(ErrConstruction, "gate %q has %d symbols, expected %d", name, len(symbols), n)
	}
	g := &Gate{
		n:       n,
		gen:     gen,
		names:   make([]string, 0, len(params)),
		values:  make(map[string]float64, len(params)),
		name:    name,
		symbols: append([]string(nil), symbols...),
	}
	for _, p := range params {
		if _, ok := g.values[p.Name]; ok {
			return nil, errors.Wrapf(ErrConstruction, "gate %q declares parameter %q twice", name, p.Name)
		}
		g.names = append(g.names, p.Name)
		g.values[p.Name] = p.Value
	}
	d := 1 << n
	u := gen(g.values)
	if u == nil {
		return nil, errors.Wrapf(ErrConstruction, "gate %q generator returned nil", name)
	}
	if r, c := u.Dims(); r != d || c != d {
		return nil, errors.Wrapf(ErrConstruction, "gate %q unitary is %dx%d, expected %dx%d", name, r, c, d, d)
	}
	return g, nil
}

// N returns the number of qubits the gate acts on.
func (g *Gate) N() int { return g.n }

// Name returns the display name.
func (g *Gate) Name() string { return g.name }

func (g *Gate) String() string { return g.name }

// Symbols returns one display symbol per qubit slot. The caller must not
// modify the returned slice.
func (g *Gate) Symbols() []string { return g.symbols }

// U evaluates the generator at the current parameter values. The caller
// must not modify the returned matrix.
func (g *Gate) U() *mat.CDense { return g.gen(g.values) }

// NParams returns the number of parameters.
func (g *Gate) NParams() int { return len(g.names) }

// ParamNames returns the parameter names in declaration order. The caller
// must not modify the returned slice.
func (g *Gate) ParamNames() []string { return g.names }

// Param returns the value of the named parameter and whether it exists.
func (g *Gate) Param(name string) (float64, bool) {
	v, ok := g.values[name]
	return v, ok
}

// Params returns the parameters in declaration order.
func (g *Gate) Params() []Param {
	ps := make([]Param, 0, len(g.names))
	for _, name := range g.names {
		ps = append(ps, Param{Name: name, Value: g.values[name]})
	}
	return ps
}

// SetParam sets the named parameter.
func (g *Gate) SetParam(name string, value float64) error {
	if _, ok := g.values[name]; !ok {
		return errors.Wrapf(ErrUnknownParam, "gate %q has no parameter %q, only %v", g.name, name, g.names)
	}
	g.values[name] = value
	return nil
}

// SetParams sets several parameters at once. If any name is unknown no
// parameter is modified.
func (g *Gate) SetParams(params map[string]float64) error {
	for name := range params {
		if _, ok := g.values[name]; !ok {
			return errors.Wrapf(ErrUnknownParam, "gate %q has no parameter %q, only %v", g.name, name, g.names)
		}
	}
	for name, value := range params {
		g.values[name] = value
	}
	return nil
}

// Copy returns a gate sharing the generator but owning its parameter
// values, so mutating one does not affect the other.
func (g *Gate) Copy() *Gate {
	c := *g
	c.values = make(map[string]float64, len(g.values))
	for name, v := range g.values {
		c.values[name] = v
	}
	return &c
}

// mustGate unwraps gate constructions that cannot fail on valid registry
// data.
func mustGate(g *Gate, err error) *Gate {
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return g
}

func constGate(u *mat.CDense, name string, symbols ...string) *Gate {
	gen := func(map[string]float64) *mat.CDense { return u }
	return mustGate(NewGate(len(symbols), gen, nil, name, symbols))
}

// I returns the one qubit identity gate.
func I() *Gate { return constGate(qmat.I, "I", "I") }

// X returns the Pauli X gate.
func X() *Gate { return constGate(qmat.X, "X", "X") }

// Y returns the Pauli Y gate.
func Y() *Gate { return constGate(qmat.Y, "Y", "Y") }

// Z returns the Pauli Z gate.
func Z() *Gate { return constGate(qmat.Z, "Z", "Z") }

// H returns the Hadamard gate.
func H() *Gate { return constGate(qmat.H, "H", "H") }

// S returns the phase gate diag(1, i).
func S() *Gate { return constGate(qmat.S, "S", "S") }

// T returns the pi/8 gate diag(1, exp(i pi/4)).
func T() *Gate { return constGate(qmat.T, "T", "T") }

// Rx2 returns the square root of X gate, and Rx2T its adjoint.
func Rx2() *Gate { return constGate(qmat.Rx2, "Rx2", "Rx2") }

// Rx2T returns the adjoint of Rx2.
func Rx2T() *Gate { return constGate(qmat.Rx2T, "Rx2T", "Rx2T") }

// CNOT returns the controlled-X gate. The control is the first qubit of
// the placement key, the target the second.
func CNOT() *Gate { return constGate(qmat.CX, "CNOT", "@", "X") }

// CX is an alias for CNOT.
func CX() *Gate { return CNOT() }

// CY returns the controlled-Y gate.
func CY() *Gate { return constGate(qmat.CY, "CY", "@", "Y") }

// CZ returns the controlled-Z gate.
func CZ() *Gate { return constGate(qmat.CZ, "CZ", "@", "Z") }

// CS returns the controlled-S gate.
func CS() *Gate { return constGate(qmat.CS, "CS", "@", "S") }

// SWAP returns the two qubit swap gate.
func SWAP() *Gate { return constGate(qmat.SWAP, "SWAP", "X", "X") }

// Rx returns the exp(-i theta X) rotation gate, with parameter "theta" in
// the full turn convention of qmat.Rx.
func Rx(theta float64) *Gate {
	gen := func(p map[string]float64) *mat.CDense { return qmat.Rx(p["theta"]) }
	return mustGate(NewGate(1, gen, []Param{{"theta", theta}}, "Rx", []string{"Rx"}))
}

// Ry returns the exp(-i theta Y) rotation gate.
func Ry(theta float64) *Gate {
	gen := func(p map[string]float64) *mat.CDense { return qmat.Ry(p["theta"]) }
	return mustGate(NewGate(1, gen, []Param{{"theta", theta}}, "Ry", []string{"Ry"}))
}

// Rz returns the exp(-i theta Z) rotation gate.
func Rz(theta float64) *Gate {
	gen := func(p map[string]float64) *mat.CDense { return qmat.Rz(p["theta"]) }
	return mustGate(NewGate(1, gen, []Param{{"theta", theta}}, "Rz", []string{"Rz"}))
}

// so4Generator is the real antisymmetric matrix whose exponential is the
// SO4 family,
//
//	[  0  A  B  C ]
//	[ -A  0  D  E ]
//	[ -B -D  0  F ]
//	[ -C -E -F  0 ]
func so4Generator(a, b, c, d, e, f float64) *mat.CDense {
	return mat.NewCDense(4, 4, []complex128{
		0, complex(a, 0), complex(b, 0), complex(c, 0),
		complex(-a, 0), 0, complex(d, 0), complex(e, 0),
		complex(-b, 0), complex(-d, 0), 0, complex(f, 0),
		complex(-c, 0), complex(-e, 0), complex(-f, 0), 0,
	})
}

// SO4 returns a two qubit gate covering SO(4), the exponential of the real
// antisymmetric matrix with upper triangle A through F.
func SO4(a, b, c, d, e, f float64) *Gate {
	gen := func(p map[string]float64) *mat.CDense {
		return qmat.Expm(so4Generator(p["A"], p["B"], p["C"], p["D"], p["E"], p["F"]))
	}
	params := []Param{{"A", a}, {"B", b}, {"C", c}, {"D", d}, {"E", e}, {"F", f}}
	return mustGate(NewGate(2, gen, params, "SO4", []string{"SO4A", "SO4B"}))
}

// SO42 returns the SO4 gate reparametrized by two qubit Pauli rotation
// angles.
func SO42(thetaIY, thetaYI, thetaXY, thetaYX, thetaZY, thetaYZ float64) *Gate {
	gen := func(p map[string]float64) *mat.CDense {
		a := -(p["thetaIY"] + p["thetaZY"])
		f := -(p["thetaIY"] - p["thetaZY"])
		c := -(p["thetaYX"] + p["thetaXY"])
		d := -(p["thetaYX"] - p["thetaXY"])
		b := -(p["thetaYI"] + p["thetaYZ"])
		e := -(p["thetaYI"] - p["thetaYZ"])
		return qmat.Expm(so4Generator(a, b, c, d, e, f))
	}
	params := []Param{
		{"thetaIY", thetaIY},
		{"thetaYI", thetaYI},
		{"thetaXY", thetaXY},
		{"thetaYX", thetaYX},
		{"thetaZY", thetaZY},
		{"thetaYZ", thetaYZ},
	}
	return mustGate(NewGate(2, gen, params, "SO42", []string{"SO42A", "SO42B"}))
}

// CF returns the controlled-F gate with parameter "theta",
//
//	[ 1 0 0 0 ]
//	[ 0 1 0 0 ]
//	[ 0 0 +c +s ]
//	[ 0 0 +s -c ]
//
// where c and s are the cosine and sine of theta.
func CF(theta float64) *Gate {
	gen := func(p map[string]float64) *mat.CDense {
		c := complex(math.Cos(p["theta"]), 0)
		s := complex(math.Sin(p["theta"]), 0)
		return mat.NewCDense(4, 4, []complex128{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, c, s,
			0, 0, s, -c,
		})
	}
	return mustGate(NewGate(2, gen, []Param{{"theta", theta}}, "CF", []string{"@", "F"}))
}

// U1 returns a parameter free one qubit gate with the explicit unitary u.
// The matrix is copied, not retained. The compressor emits these.
func U1(u *mat.CDense) (*Gate, error) {
	if r, c := u.Dims(); r != 2 || c != 2 {
		return nil, errors.Wrapf(ErrShape, "U1 of a %dx%d matrix, expected 2x2", r, c)
	}
	frozen := qmat.Copy(u)
	gen := func(map[string]float64) *mat.CDense { return frozen }
	return NewGate(1, gen, nil, "U1", []string{"U1"})
}

// U2 returns a parameter free two qubit gate with the explicit unitary u.
// The matrix is copied, not retained. The compressor emits these.
func U2(u *mat.CDense) (*Gate, error) {
	if r, c := u.Dims(); r != 4 || c != 4 {
		return nil, errors.Wrapf(ErrShape, "U2 of a %dx%d matrix, expected 4x4", r, c)
	}
	frozen := qmat.Copy(u)
	gen := func(map[string]float64) *mat.CDense { return frozen }
	return NewGate(2, gen, nil, "U2", []string{"U2A", "U2B"})
}
