// Package assets bundles static files served by the API.
package assets

import _ "embed"

// DefaultAvatar is served when a staff member has no profile photo.
//
//go:embed default-avatar.png
var DefaultAvatar []byte
