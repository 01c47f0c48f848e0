package urls

import "net/url"

// API version prefix shared by every route
const APIPrefix = "/v1"

// Health is the liveness endpoint
const Health = APIPrefix + "/health"

// Logout closes the current session
const Logout = APIPrefix + "/session/logout"

// Route patterns in net/http ServeMux syntax
const (
	ProfilePattern  = APIPrefix + "/users/{id}/profile"
	PasswordPattern = APIPrefix + "/users/{id}/password"
	EventsPattern   = APIPrefix + "/users/{id}/events"
)

// UserProfile returns the profile path for a user
func UserProfile(userID string) string {
	return APIPrefix + "/users/" + url.PathEscape(userID) + "/profile"
}

// UserPassword returns the password-change path for a user
func UserPassword(userID string) string {
	return APIPrefix + "/users/" + url.PathEscape(userID) + "/password"
}

// UserEvents returns the event-stream path for a user
func UserEvents(userID string) string {
	return APIPrefix + "/users/" + url.PathEscape(userID) + "/events"
}
