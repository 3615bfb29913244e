package market

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hxuan190/fundswap/internal/domain"
	"github.com/hxuan190/fundswap/internal/metrics"
	"github.com/hxuan190/fundswap/internal/services/router"
)

var ErrNoSnapshot = errors.New("no snapshot loaded")

// View pairs a snapshot with the quoter built over it. Both are immutable.
// Version increases with every accepted update.
type View struct {
	Version  uint64
	Snapshot *domain.Snapshot
	Quoter   *router.Quoter
}

type Stats struct {
	Ready     bool      `json:"ready"`
	Slot      uint64    `json:"slot"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tokens    int       `json:"tokens"`
	Funds     int       `json:"funds"`
	Updates   uint64    `json:"updates"`
}

// SnapshotStore holds the current snapshot. Updates swap the whole view at
// once, so a reader sees either the old or the new snapshot and never a mix.
type SnapshotStore struct {
	current atomic.Pointer[View]
	updates atomic.Uint64
	opts    []router.Option
}

func NewSnapshotStore(opts ...router.Option) *SnapshotStore {
	return &SnapshotStore{opts: opts}
}

// Update validates snap and makes it current. The caller must not modify snap
// afterwards.
func (s *SnapshotStore) Update(snap *domain.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidSnapshot)
	}
	if err := snap.Validate(); err != nil {
		return err
	}
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now().UTC()
	}

	s.current.Store(&View{
		Version:  s.updates.Add(1),
		Snapshot: snap,
		Quoter:   router.NewSnapshotQuoter(snap, s.opts...),
	})

	metrics.FundCount.Set(float64(len(snap.Funds)))
	metrics.TokenCount.Set(float64(len(snap.Tokens)))
	metrics.SnapshotSlot.Set(float64(snap.Slot))
	return nil
}

func (s *SnapshotStore) Current() (*View, error) {
	v := s.current.Load()
	if v == nil {
		return nil, ErrNoSnapshot
	}
	return v, nil
}

func (s *SnapshotStore) Stats() Stats {
	st := Stats{Updates: s.updates.Load()}
	v := s.current.Load()
	if v == nil {
		return st
	}
	st.Ready = true
	st.Slot = v.Snapshot.Slot
	st.UpdatedAt = v.Snapshot.UpdatedAt
	st.Tokens = len(v.Snapshot.Tokens)
	st.Funds = len(v.Snapshot.Funds)
	return st
}
