// Package progress holds the live status record of one provisioning run.
//
// A Tracker has exactly one writer (the pipeline) and any number of readers
// (HTTP handlers, WebSocket streams, tests). Every write and every Snapshot is
// serialized by a single mutex, so a reader can never observe a half-applied
// update such as Complete=true while a step still shows PENDING.
//
// # Core Types
//
// Steps lists the four pipeline steps in order: nginx, certbot, nginx_config
// and nginx_restart. Each has a fixed label shown to users.
//
// Snapshot is a deep copy of the record. Step records and the run outcome are
// kept apart: Snapshot.Steps is the ordered list of steps, Snapshot.Result
// holds the terminal outcome (Complete or Error), Snapshot.Active names the
// step in progress.
//
// Transition is one applied status change; History returns them in order.
//
// # Transitions
//
// Every step starts PENDING. Allowed step transitions:
//
//	PENDING -> PENDING   (re-asserted when the step starts)
//	PENDING -> SUCCESS
//	PENDING -> FAILURE
//
// SetComplete is accepted only when every step is SUCCESS. SetError stores the
// message and rewrites every PENDING step to FAILURE in the same critical
// section. Once Complete or Error is set the tracker is terminal and rejects
// further writes with ErrTerminal.
//
// # Usage
//
// Writing:
//
//	tracker := progress.New(progress.WithRunID(id), progress.WithDomain("example.com"))
//
//	_ = tracker.SetStatus(progress.StepNginx, progress.StatusPending)
//	if err := startProxy(); err != nil {
//		_ = tracker.SetError(err.Error())
//		return err
//	}
//	_ = tracker.SetStatus(progress.StepNginx, progress.StatusSuccess)
//
// Reading:
//
//	snap := tracker.Snapshot()
//	if snap.Terminal() {
//		fmt.Println(snap.Result.Complete, snap.Result.Error)
//	}
//	if st, ok := snap.Step(progress.StepCertbot); ok {
//		fmt.Println(st.Label, st.Status)
//	}
//
// Streaming. Subscribe sends the current snapshot immediately and then one
// after every write. A slow reader only misses intermediate snapshots, never
// the latest one. The channel closes after the terminal snapshot or when ctx
// is done:
//
//	for snap := range tracker.Subscribe(ctx) {
//		render(snap)
//	}
//
// Done is closed when the tracker becomes terminal:
//
//	select {
//	case <-tracker.Done():
//	case <-ctx.Done():
//	}
//
// # Error Handling
//
//   - ErrUnknownStep: step id not in Steps
//   - ErrInvalidStatus: status outside PENDING, SUCCESS, FAILURE
//   - ErrInvalidTransition: a step would leave SUCCESS or FAILURE
//   - ErrTerminal: write after the run finished
//   - ErrIncomplete: SetComplete while some step is not SUCCESS
//   - ErrEmptyError: SetError with an empty message
//
// The package does no I/O and never blocks beyond its mutex.
package progress
