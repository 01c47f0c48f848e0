// Package submission gates and tracks a single asynchronous form submission.
//
// A Controller belongs to one screen instance. Submit starts an Operation only
// when the form is valid and nothing is pending, and returns a channel that
// delivers exactly one Result. The caller feeds that result back through
// OnResult, which returns the new State together with the side effects the
// screen must apply: clearing secret fields and navigating away. Navigation is
// latched and reported at most once per controller.
//
//	ctrl := submission.NewController("change_password")
//	ch, ok := ctrl.Submit(ctx, form.Valid(), op)
//	if !ok {
//	    return // invalid or already pending
//	}
//	outcome := ctrl.OnResult(<-ch)
//
// There is no queueing, cancellation or local timeout.
package submission
