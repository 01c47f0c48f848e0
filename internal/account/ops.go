package account

import (
	"context"

	"github.com/cuenta-app/cuenta/internal/submission"
)

// Service is the account backend as seen by the screens
type Service interface {
	LoadProfile(ctx context.Context, userID string) (*Profile, error)
	RefreshProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*Profile, error)
	ChangePassword(ctx context.Context, userID, current, next string) (string, error)
	Logout(ctx context.Context) error
}

var _ Service = (*Client)(nil)

// ChangePasswordOp returns a submission operation that changes the password.
// Failures are reduced to a short message for display.
func ChangePasswordOp(svc Service, userID, current, next string) submission.Operation {
	return func(ctx context.Context) submission.Result {
		msg, err := svc.ChangePassword(ctx, userID, current, next)
		if err != nil {
			return submission.Result{Success: false, Message: GetShortErrorMessage(err)}
		}
		if msg == "" {
			msg = "Password changed"
		}
		return submission.Result{Success: true, Message: msg}
	}
}

// UpdateProfileOp returns a submission operation that saves update.
// Failures are reduced to a short message for display.
func UpdateProfileOp(svc Service, update ProfileUpdate) submission.Operation {
	return func(ctx context.Context) submission.Result {
		if _, err := svc.UpdateProfile(ctx, update); err != nil {
			return submission.Result{Success: false, Message: GetShortErrorMessage(err)}
		}
		return submission.Result{Success: true, Message: "Profile updated"}
	}
}
