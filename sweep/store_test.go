package sweep

import (
	"context"
	"flag"
	"log"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pkg/errors"

	"github.com/jlapeyre/quasar"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()
	dir, err := os.MkdirTemp("", "")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "sweep.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	ctx := context.Background()

	params := []float64{0.25, -1.5}
	state := []complex128{0.5, 0.5i, -0.5, complex(0.5, -0.5)}
	id, err := store.Save(ctx, params, state)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	gotParams, gotState, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !slices.Equal(gotParams, params) {
		t.Fatalf("%v, expected %v", gotParams, params)
	}
	if !slices.Equal(gotState, state) {
		t.Fatalf("%v, expected %v", gotState, state)
	}

	paulis := [][4]float64{{1, 0.5, -0.25, 0}, {1, 0, 0.125, -1}}
	if err := store.SavePaulis(ctx, id, paulis); err != nil {
		t.Fatalf("%+v", err)
	}
	gotPaulis, err := store.Paulis(ctx, id)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !slices.Equal(gotPaulis, paulis) {
		t.Fatalf("%v, expected %v", gotPaulis, paulis)
	}

	id2, err := store.Save(ctx, []float64{3}, []complex128{1, 0})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if id2 == id {
		t.Fatalf("%d, expected a fresh run ID", id2)
	}
	ids, err := store.IDs(ctx)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if want := []int64{id, id2}; !slices.Equal(ids, want) {
		t.Fatalf("%v, expected %v", ids, want)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("%+v", err)
	}

	// Existing runs survive a reopen.
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer reopened.Close()
	gotParams, gotState, err = reopened.Load(ctx, id)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !slices.Equal(gotParams, params) {
		t.Fatalf("%v, expected %v", gotParams, params)
	}
	if !slices.Equal(gotState, state) {
		t.Fatalf("%v, expected %v", gotState, state)
	}
	ids, err = reopened.IDs(ctx)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("%d, expected 2", len(ids))
	}

	if _, _, err := reopened.Load(ctx, 999); err == nil {
		t.Fatalf("expected an error for a missing run")
	}
}

func TestRun(t *testing.T) {
	t.Parallel()
	dir, err := os.MkdirTemp("", "")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer os.RemoveAll(dir)

	store, err := Open(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer store.Close()

	c, err := quasar.NewCircuit(2)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if err := c.AddGate(0, quasar.Rx(0), 0); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := c.AddGate(0, quasar.Ry(0), 1); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := c.AddGate(1, quasar.CNOT(), 0, 1); err != nil {
		t.Fatalf("%+v", err)
	}

	ctx := context.Background()
	assignments := [][]float64{{0, 0}, {0.3, -0.8}, {math.Pi, 0.5}}
	ids, err := Run(ctx, c, assignments, store)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(ids) != len(assignments) {
		t.Fatalf("%d, expected %d", len(ids), len(assignments))
	}

	for i, id := range ids {
		params, state, err := store.Load(ctx, id)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if !slices.Equal(params, assignments[i]) {
			t.Fatalf("%v, expected %v", params, assignments[i])
		}
		norm := 0.0
		for _, a := range state {
			norm += real(a)*real(a) + imag(a)*imag(a)
		}
		if math.Abs(norm-1) > 1e-10 {
			t.Fatalf("%v, expected 1", norm)
		}
		paulis, err := store.Paulis(ctx, id)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if len(paulis) != 2 {
			t.Fatalf("%d, expected 2", len(paulis))
		}
		for q, p := range paulis {
			if math.Abs(p[0]-1) > 1e-10 {
				t.Fatalf("qubit %d: %v, expected identity expectation 1", q, p)
			}
		}
	}

	// The stored state of an assignment matches a circuit built directly
	// with those angles.
	direct, err := quasar.NewCircuit(2)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if err := direct.AddGate(0, quasar.Rx(0.3), 0); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := direct.AddGate(0, quasar.Ry(-0.8), 1); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := direct.AddGate(1, quasar.CNOT(), 0, 1); err != nil {
		t.Fatalf("%+v", err)
	}
	want, err := direct.Simulate(nil)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	_, got, err := store.Load(ctx, ids[1])
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("%d, expected %d", len(got), len(want))
	}
	for i := range got {
		if cmplx.Abs(got[i]-want[i]) > 1e-10 {
			t.Fatalf("%v, expected %v", got, want)
		}
	}

	if _, err := Run(ctx, c, [][]float64{{1}}, store); !errors.Is(err, quasar.ErrShape) {
		t.Fatalf("%v, expected %v", err, quasar.ErrShape)
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	m.Run()
}
