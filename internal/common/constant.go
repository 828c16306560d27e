// Package common contains shared constants and sentinel errors used across
// Market Supervisor client components.
package common

// AuthHeaderName is the HTTP header carrying the bearer credential.
const AuthHeaderName = "Authorization"

// BearerPrefix precedes the access token in AuthHeaderName.
const BearerPrefix = "Bearer "

// ContentTypeJSON is the default content type of every API request.
const ContentTypeJSON = "application/json"

// Durable storage keys.
const (
	// TokenKey holds the current access token.
	TokenKey = "authToken"
	// SnapshotKey holds the persisted store snapshot.
	SnapshotKey = "app-storage"
)
