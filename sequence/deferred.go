package sequence

import (
	"github.com/typeflow/fontcache/service/diagnostics"
)

// Deferred wraps a single asynchronous outcome together with the handle it
// is ordered after and a non-owning back-reference to the Sequencer that
// issued it.  A Deferred is pending until settled via Resolve or Reject;
// settlement is terminal.
type Deferred struct {
	label     string
	handle    *Handle
	preceding *Handle
	owner     *Sequencer // nil for standalone units
	reporter  diagnostics.Reporter
}

// NewDeferred creates a standalone unit with no ordering dependency and no
// owning queue.  Settling it performs no retirement bookkeeping.
func NewDeferred(label string) *Deferred {
	return &Deferred{
		label:    label,
		handle:   newHandle(),
		reporter: diagnostics.Default(),
	}
}

// Label returns the unit's debug label.
func (d *Deferred) Label() string { return d.label }

// Handle returns the unit's own outcome handle, which settles when the unit
// is resolved or rejected.
func (d *Deferred) Handle() *Handle { return d.handle }

// Preceding returns the handle this unit must be ordered after.  A chained
// unit always carries one; asking a unit without a dependency is a protocol
// anomaly — it is reported and nil is returned, which callers must treat as
// "no ordering dependency, proceed immediately" (a nil Handle waits as
// already settled).
func (d *Deferred) Preceding() *Handle {
	if d.preceding == nil {
		d.reporter.Report(diagnostics.CodeMissingPreceding, d.ownerLabel(), d.label)
		return nil
	}
	return d.preceding
}

// Resolve settles the unit successfully with value.
func (d *Deferred) Resolve(value interface{}) {
	d.settleWith(value, nil)
}

// Reject settles the unit as failed.  The error passes through unchanged to
// whoever waits on this unit's handle; this layer does not transform it.
func (d *Deferred) Reject(err error) {
	d.settleWith(nil, err)
}

// settleWith runs exactly-once settlement and, on the winning call, the
// owner's retirement bookkeeping.  A losing call is a programming error: it
// is reported and ignored so counters can neither leak nor double-decrement.
func (d *Deferred) settleWith(value interface{}, err error) {
	if !d.handle.settle(value, err) {
		d.reporter.Report(diagnostics.CodeDoubleSettle, d.ownerLabel(), d.label)
		return
	}
	if d.owner != nil {
		d.owner.retire(d)
	}
}

func (d *Deferred) ownerLabel() string {
	if d.owner != nil {
		return d.owner.label
	}
	return d.label
}
