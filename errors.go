package quasar

import (
	"github.com/pkg/errors"
)

// The closed set of error kinds returned by this package. Every failure
// wraps exactly one of these together with the offending values, so callers
// can branch with errors.Is while the message keeps the expected versus
// actual context.
var (
	// ErrConstruction reports an invalid gate or circuit construction.
	ErrConstruction = errors.New("quasar: invalid construction")
	// ErrPlacement reports a gate placed at a negative time or on an
	// occupied (time, qubit) slot.
	ErrPlacement = errors.New("quasar: placement conflict")
	// ErrQubit reports a qubit index out of range or a coincident pair.
	ErrQubit = errors.New("quasar: bad qubit index")
	// ErrNotFound reports a lookup at an unoccupied (time, qubits) key.
	ErrNotFound = errors.New("quasar: gate not found")
	// ErrArity reports a gate arity the operation does not support.
	ErrArity = errors.New("quasar: unsupported gate arity")
	// ErrShape reports a state vector or matrix with wrong dimensions.
	ErrShape = errors.New("quasar: shape mismatch")
	// ErrUnknownParam reports a parameter name absent from a gate.
	ErrUnknownParam = errors.New("quasar: unknown parameter")
)
