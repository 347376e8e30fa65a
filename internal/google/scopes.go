package google

// DefaultOAuthScopes are the Google OAuth scopes drivekit requests.
// These scopes are used consistently across the application for OAuth configurations.
//
// The scopes provide access to:
//   - Google Drive: full access (files, folders, permissions, revisions)
//   - Drive labels: read and apply labels to files
//   - User info: identify which account a token belongs to
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Google Drive scope
	"https://www.googleapis.com/auth/drive",

	// Drive labels scope
	"https://www.googleapis.com/auth/drive.labels",
}
