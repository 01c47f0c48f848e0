// Package urls provides centralized constants for the account API routes.
//
// The client in package account and the development server in package server
// both build their paths from here, so a route only has to change in one place.
//
// Usage:
//
//	import "github.com/cuenta-app/cuenta/internal/urls"
//
//	path := urls.UserProfile(userID)
package urls
