package grade

import "context"

// StateRepository persists the grade state between daemon cycles.
//
// Load returns an empty, non-nil State when no prior state exists; a
// cold start is a normal condition, not an error. Save replaces the
// stored state with the given one. Implementations are not required to
// tolerate concurrent writers: exactly one daemon instance per state
// path is assumed.
type StateRepository interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}
