// Package sequence serializes access to a shared asynchronous resource.
//
// A Sequencer issues Deferred units in FIFO order; every unit is linked to
// the handle of the unit issued before it.  The caller contract is: wait on
// Preceding(), perform the protected work, then settle the unit exactly
// once.  Settling releases the next caller's preceding handle, so protected
// work executes in strict issuance order regardless of wall-clock settle
// timing.
//
// The underlying resource (a persistent record store) provides no ordering
// guarantee across independently issued operations — this package supplies
// that guarantee.  A bounded watchdog reports units stuck pending beyond a
// tolerance window; it is an observability aid only and never unblocks or
// aborts anything.
package sequence
