// File: utils/constants.go
package utils

import "time"

// SessionDenyPrefix is the prefix used for Redis keys of revoked chat-session token hashes.
const SessionDenyPrefix = "session:revoked:"

// SessionTokenTTL is how long a chat session token stays valid.
const SessionTokenTTL = 24 * time.Hour
