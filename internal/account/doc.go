// Package account provides an HTTP client for the account self-service backend.
//
// The client reads and updates the user profile, changes the password and
// closes the session. Requests go through a retrying transport with
// exponential backoff; loaded profiles are cached briefly and the cache is
// invalidated on every update.
//
// # Usage Example
//
//	client := account.NewClient("http://localhost:8420")
//	client.SetToken(os.Getenv("CUENTA_TOKEN"))
//
//	profile, err := client.LoadProfile(ctx, userID)
//	if err != nil {
//	    fmt.Println(account.GetShortErrorMessage(err))
//	    return
//	}
//
//	update := account.UpdateFromProfile(*profile)
//	update.Phone = "612345678"
//	result := client.UpdateAndVerify(ctx, update, nil)
//
// # Submissions
//
// ChangePasswordOp and UpdateProfileOp adapt client calls to
// submission.Operation, reducing any error to a short display message.
//
// # Live updates
//
// WatchProfile opens the websocket event stream for a user so that a screen
// showing the profile can refresh when it changes elsewhere.
//
// # Error Handling
//
// All errors are *APIError values classified by ErrorType. Backend refusals
// (wrong current password, invalid field) are ErrTypeRejected and carry the
// backend's message unchanged.
package account
