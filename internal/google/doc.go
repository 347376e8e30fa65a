// Package google provides OAuth2 authentication and token management for Google APIs.
//
// Tokens are cached on disk per account, so a single machine can hold
// credentials for several Google accounts side by side.
package google
