package utils

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	avatarBaseURL = "https://www.gravatar.com/avatar/"
	avatarSize    = 285
)

// NormalizeEmail trims and lowercases an email for lookups and hashing.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AvatarURL maps an email to its Gravatar image, falling back to an identicon.
// The URL is resolved lazily by the client; nothing is fetched here.
func AvatarURL(email string) string {
	sum := md5.Sum([]byte(NormalizeEmail(email)))
	return fmt.Sprintf("%s%s?s=%d&d=identicon", avatarBaseURL, hex.EncodeToString(sum[:]), avatarSize)
}
