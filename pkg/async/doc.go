// Package async runs error-returning functions on their own goroutine and
// exposes the outcome as an ExecFuture.
//
//	f := async.Exec(ctx, req, func(ctx context.Context, req Request) error {
//		return pipeline.Run(ctx, req, tracker)
//	})
//
//	select {
//	case <-f.Done():
//	case <-time.After(time.Second):
//	}
//	err := f.AwaitContext(ctx)
//
// A function whose context is already done when the goroutine starts is not
// called; the future resolves with the context error instead.
package async
