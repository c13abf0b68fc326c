package sweep

import (
	"context"
	"fmt"

	"github.com/jlapeyre/quasar"
	"github.com/pkg/errors"
)

// Run simulates the circuit once per parameter assignment and stores each
// final state with its per qubit Pauli expectations, returning the run IDs
// in assignment order. Each assignment is written into the circuit's
// canonical parameter vector, and the circuit is compressed before
// simulating so that a sweep pays for its gates once per assignment in
// fused form. The circuit is left holding the last assignment.
func Run(ctx context.Context, c *quasar.Circuit, assignments [][]float64, store *Store) ([]int64, error) {
	ids := make([]int64, 0, len(assignments))
	for _, params := range assignments {
		if err := c.SetParamValues(params); err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%#v", params))
		}
		compressed, err := c.Compressed()
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		state, err := compressed.Simulate(nil)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}

		id, err := store.Save(ctx, params, state)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		paulis := make([][4]float64, c.N())
		for q := range paulis {
			p, err := quasar.ComputePauli1(state, q)
			if err != nil {
				return nil, errors.Wrap(err, "")
			}
			paulis[q] = p
		}
		if err := store.SavePaulis(ctx, id, paulis); err != nil {
			return nil, errors.Wrap(err, "")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
