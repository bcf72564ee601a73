package cart

import "context"

// History stores at most one saved cart. Load returns ErrNoSnapshot when
// nothing is stored.
type History interface {
	Save(ctx context.Context, s Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
	Clear(ctx context.Context) error
}

type nopHistory struct{}

func (nopHistory) Save(context.Context, Snapshot) error    { return nil }
func (nopHistory) Load(context.Context) (*Snapshot, error) { return nil, ErrNoSnapshot }
func (nopHistory) Clear(context.Context) error             { return nil }
