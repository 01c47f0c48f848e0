package account

import (
	"context"
	"testing"
)

func TestChangePasswordOp(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend.handler())

	r := ChangePasswordOp(client, "u-1", "abc123", "NewPass1")(context.Background())
	if !r.Success || r.Message != "Password changed successfully" {
		t.Errorf("result = %+v", r)
	}

	r = ChangePasswordOp(client, "u-1", "abc123", "Other123")(context.Background())
	if r.Success {
		t.Error("stale current password should fail")
	}
	if r.Message != "Current password is incorrect" {
		t.Errorf("failure message = %q, want backend message", r.Message)
	}
}

func TestUpdateProfileOp(t *testing.T) {
	backend := newFakeBackend()
	client, _ := newTestClient(t, backend.handler())

	update := UpdateFromProfile(backend.currentProfile())
	update.Name = "Anna"

	r := UpdateProfileOp(client, update)(context.Background())
	if !r.Success || r.Message != "Profile updated" {
		t.Errorf("result = %+v", r)
	}

	update.UserID = "nobody"
	r = UpdateProfileOp(client, update)(context.Background())
	if r.Success || r.Message != "user not found" {
		t.Errorf("result = %+v", r)
	}
}

func TestOps_UnreachableBackend(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	client.SetRetry(0, 0, 0)

	r := ChangePasswordOp(client, "u-1", "abc123", "NewPass1")(context.Background())
	if r.Success {
		t.Fatal("unreachable backend should fail")
	}
	if r.Message != "Server refused connection - is it running?" {
		t.Errorf("Message = %q", r.Message)
	}
}
