package quasar

import (
	"math"
	"slices"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/jlapeyre/quasar/qmat"
)

func TestNewGateErrors(t *testing.T) {
	t.Parallel()
	gen2 := func(map[string]float64) *mat.CDense { return qmat.I }
	tests := []struct {
		name    string
		n       int
		gen     Generator
		params  []Param
		symbols []string
		err     error
	}{
		{name: "zero qubits", n: 0, gen: gen2, symbols: nil, err: ErrConstruction},
		{name: "nil generator", n: 1, gen: nil, symbols: []string{"G"}, err: ErrConstruction},
		{name: "symbol count", n: 2, gen: gen2, symbols: []string{"G"}, err: ErrConstruction},
		{name: "duplicate parameter", n: 1, gen: gen2, params: []Param{{"a", 0}, {"a", 1}}, symbols: []string{"G"}, err: ErrConstruction},
		{name: "wrong dims", n: 2, gen: gen2, symbols: []string{"G", "G"}, err: ErrConstruction},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewGate(test.n, test.gen, test.params, "G", test.symbols); !errors.Is(err, test.err) {
				t.Fatalf("%v, expected %v", err, test.err)
			}
		})
	}
}

func TestGateLibrary(t *testing.T) {
	t.Parallel()
	tests := []struct {
		gate    *Gate
		n       int
		name    string
		symbols []string
		u       *mat.CDense
	}{
		{gate: I(), n: 1, name: "I", symbols: []string{"I"}, u: qmat.I},
		{gate: X(), n: 1, name: "X", symbols: []string{"X"}, u: qmat.X},
		{gate: Y(), n: 1, name: "Y", symbols: []string{"Y"}, u: qmat.Y},
		{gate: Z(), n: 1, name: "Z", symbols: []string{"Z"}, u: qmat.Z},
		{gate: H(), n: 1, name: "H", symbols: []string{"H"}, u: qmat.H},
		{gate: S(), n: 1, name: "S", symbols: []string{"S"}, u: qmat.S},
		{gate: T(), n: 1, name: "T", symbols: []string{"T"}, u: qmat.T},
		{gate: Rx2(), n: 1, name: "Rx2", symbols: []string{"Rx2"}, u: qmat.Rx2},
		{gate: Rx2T(), n: 1, name: "Rx2T", symbols: []string{"Rx2T"}, u: qmat.Rx2T},
		{gate: CNOT(), n: 2, name: "CNOT", symbols: []string{"@", "X"}, u: qmat.CX},
		{gate: CX(), n: 2, name: "CNOT", symbols: []string{"@", "X"}, u: qmat.CX},
		{gate: CY(), n: 2, name: "CY", symbols: []string{"@", "Y"}, u: qmat.CY},
		{gate: CZ(), n: 2, name: "CZ", symbols: []string{"@", "Z"}, u: qmat.CZ},
		{gate: CS(), n: 2, name: "CS", symbols: []string{"@", "S"}, u: qmat.CS},
		{gate: SWAP(), n: 2, name: "SWAP", symbols: []string{"X", "X"}, u: qmat.SWAP},
		{gate: Rx(0.5), n: 1, name: "Rx", symbols: []string{"Rx"}, u: qmat.Rx(0.5)},
		{gate: Ry(-0.4), n: 1, name: "Ry", symbols: []string{"Ry"}, u: qmat.Ry(-0.4)},
		{gate: Rz(1.7), n: 1, name: "Rz", symbols: []string{"Rz"}, u: qmat.Rz(1.7)},
		// CF degenerates to CZ at theta 0 and to CNOT at theta pi/2.
		{gate: CF(0), n: 2, name: "CF", symbols: []string{"@", "F"}, u: qmat.CZ},
		{gate: CF(math.Pi / 2), n: 2, name: "CF", symbols: []string{"@", "F"}, u: qmat.CX},
		{gate: SO4(0, 0, 0, 0, 0, 0), n: 2, name: "SO4", symbols: []string{"SO4A", "SO4B"}, u: qmat.Eye(4)},
		{gate: SO42(0, 0, 0, 0, 0, 0), n: 2, name: "SO42", symbols: []string{"SO42A", "SO42B"}, u: qmat.Eye(4)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := test.gate.N(); got != test.n {
				t.Fatalf("%d, expected %d", got, test.n)
			}
			if got := test.gate.Name(); got != test.name {
				t.Fatalf("%s, expected %s", got, test.name)
			}
			if got := test.gate.Symbols(); !slices.Equal(got, test.symbols) {
				t.Fatalf("%v, expected %v", got, test.symbols)
			}
			if !mat.CEqualApprox(test.gate.U(), test.u, 1e-10) {
				t.Fatalf("wrong %s unitary", test.name)
			}
		})
	}
}

func TestSO4Orthogonal(t *testing.T) {
	t.Parallel()
	u := SO4(0.3, -0.2, 0.5, 0.1, -0.4, 0.25).U()
	var utu mat.CDense
	utu.Mul(u.H(), u)
	if !mat.CEqualApprox(&utu, qmat.Eye(4), 1e-10) {
		t.Fatalf("SO4 unitary is not orthogonal")
	}
	for i := range 4 {
		for j := range 4 {
			if im := imag(u.At(i, j)); math.Abs(im) > 1e-10 {
				t.Fatalf("%v, expected a real matrix", u.At(i, j))
			}
		}
	}
}

func TestSO42(t *testing.T) {
	t.Parallel()
	thetaIY, thetaYI, thetaXY, thetaYX, thetaZY, thetaYZ := 0.13, -0.4, 0.22, 0.05, -0.17, 0.31
	got := SO42(thetaIY, thetaYI, thetaXY, thetaYX, thetaZY, thetaYZ).U()
	want := SO4(
		-(thetaIY + thetaZY),
		-(thetaYI + thetaYZ),
		-(thetaYX + thetaXY),
		-(thetaYX - thetaXY),
		-(thetaYI - thetaYZ),
		-(thetaIY - thetaZY),
	).U()
	if !mat.CEqualApprox(got, want, 1e-10) {
		t.Fatalf("SO42 does not match the reparametrized SO4")
	}
}

func TestGateParams(t *testing.T) {
	t.Parallel()
	g := Rx(0.5)
	if v, ok := g.Param("theta"); !ok || v != 0.5 {
		t.Fatalf("%v %v, expected 0.5 true", v, ok)
	}
	if err := g.SetParam("theta", 1.2); err != nil {
		t.Fatalf("%+v", err)
	}
	if !mat.CEqualApprox(g.U(), qmat.Rx(1.2), 1e-10) {
		t.Fatalf("unitary not regenerated after SetParam")
	}
	if err := g.SetParam("phi", 0); !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("%v, expected %v", err, ErrUnknownParam)
	}

	so4 := SO4(1, 2, 3, 4, 5, 6)
	if got, want := so4.ParamNames(), []string{"A", "B", "C", "D", "E", "F"}; !slices.Equal(got, want) {
		t.Fatalf("%v, expected %v", got, want)
	}
	if got, want := so4.Params(), []Param{{"A", 1}, {"B", 2}, {"C", 3}, {"D", 4}, {"E", 5}, {"F", 6}}; !slices.Equal(got, want) {
		t.Fatalf("%v, expected %v", got, want)
	}
	// SetParams is all or nothing.
	if err := so4.SetParams(map[string]float64{"A": 9, "nope": 1}); !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("%v, expected %v", err, ErrUnknownParam)
	}
	if v, _ := so4.Param("A"); v != 1 {
		t.Fatalf("%v, expected the failed SetParams to leave A at 1", v)
	}
	if err := so4.SetParams(map[string]float64{"A": 9, "F": -6}); err != nil {
		t.Fatalf("%+v", err)
	}
	if v, _ := so4.Param("A"); v != 9 {
		t.Fatalf("%v, expected 9", v)
	}
	if v, _ := so4.Param("F"); v != -6 {
		t.Fatalf("%v, expected -6", v)
	}
}

func TestGateCopy(t *testing.T) {
	t.Parallel()
	g := Ry(0.3)
	c := g.Copy()
	if err := c.SetParam("theta", 2); err != nil {
		t.Fatalf("%+v", err)
	}
	if v, _ := g.Param("theta"); v != 0.3 {
		t.Fatalf("%v, expected the copy to own its parameters", v)
	}
	if !mat.CEqualApprox(c.U(), qmat.Ry(2), 1e-10) {
		t.Fatalf("copy does not share the generator")
	}
}

func TestFrozenGates(t *testing.T) {
	t.Parallel()
	m := qmat.Copy(qmat.H)
	g, err := U1(m)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	m.Set(0, 0, 9)
	if !mat.CEqualApprox(g.U(), qmat.H, 1e-10) {
		t.Fatalf("U1 retained the caller's matrix")
	}
	if got := g.NParams(); got != 0 {
		t.Fatalf("%d, expected 0", got)
	}

	if _, err := U1(qmat.CX); !errors.Is(err, ErrShape) {
		t.Fatalf("%v, expected %v", err, ErrShape)
	}
	if _, err := U2(qmat.H); !errors.Is(err, ErrShape) {
		t.Fatalf("%v, expected %v", err, ErrShape)
	}
	g2, err := U2(qmat.CX)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if got := g2.N(); got != 2 {
		t.Fatalf("%d, expected 2", got)
	}
}
