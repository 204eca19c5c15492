// Package task executes request descriptors.
//
// A Task is bound to one descriptor and can be started any number of times. Each Start
// cancels the run in flight, builds the request, dispatches it through an http.Client
// and routes the outcome to the lifecycle callbacks:
//
//	t := task.New[int](GistPage{}).
//		Before(showSpinner).
//		OnCompletion(func(n int) { fmt.Println("gists:", n) }).
//		OnError(func(err error) { fmt.Println("failed:", err) }).
//		Finally(hideSpinner)
//	t.Start(ctx)
//
// Every failure passes through the descriptor's ParseError; errors it declines reach
// OnError wrapped in a *request.OtherError. Finally fires once per run on every
// terminal path, and after OnCancel unless CallFinallyOnCancel(false) was set.
//
// # Callback goroutines
//
// Before, and the OnError and Finally of a request that fails to build, run on the
// goroutine calling Start. OnCancel and the Finally that follows it run on the goroutine
// calling Cancel, or Start when Start replaces a running request. OnCompletion, OnError
// and Finally for a dispatched request run on the goroutine the http.Client completes
// it on. Callbacks are called without internal locks held, so they may call Start or
// Cancel on the same task.
//
// A canceled or replaced run never reaches OnCompletion or OnError, even when its
// dispatch completes afterwards.
package task
