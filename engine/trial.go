// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/distmm/collective"
	"github.com/katalvlaran/distmm/partition"
)

// Trial is one participant's context for a single distributed product.
// Role is assigned from the rank at construction and never changes.
type Trial struct {
	Rank      int
	Size      int
	Role      collective.Role
	Plan      *partition.Plan
	Transport collective.Transport

	opts    Options
	log     *slog.Logger
	machine *Machine
	cols    int // width of B once distributed
}

// NewTrial prepares a trial for an n-row left operand over tr. The plan is
// computed locally on every participant from (n, tr.Size()); no transport
// activity happens here.
func NewTrial(tr collective.Transport, n int, opts ...Option) (*Trial, error) {
	if tr == nil {
		return nil, ErrNilTransport
	}
	plan, err := partition.New(n, tr.Size())
	if err != nil {
		return nil, fmt.Errorf("engine: NewTrial: %w", err)
	}

	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	rank := tr.Rank()
	t := &Trial{
		Rank:      rank,
		Size:      tr.Size(),
		Role:      collective.RoleOf(rank),
		Plan:      plan,
		Transport: tr,
		opts:      o,
		machine:   NewMachine(rank, o.Hook),
	}
	t.log = o.Logger.With("rank", rank, "role", t.Role.String())

	return t, nil
}

// State returns the participant's current lifecycle state.
func (t *Trial) State() State { return t.machine.State() }

// Kernel returns the configured local kernel.
func (t *Trial) Kernel() Kernel { return t.opts.Kernel }

// fail resets the lifecycle after an aborted step and passes err through.
func (t *Trial) fail(err error) error {
	t.machine.Reset()
	t.log.Warn("trial aborted", "err", err, "kind", KindOf(err).String())

	return err
}
