package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// ResponseKey derives a stable key for a provider request URL. Query
// parameters carry the credential, so only a digest is stored.
func ResponseKey(requestURL string) string {
	hash := sha256.Sum256([]byte(requestURL))
	return fmt.Sprintf("news:%x", hash[:8])
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return strings.TrimSuffix(prefix, ":") + ":" + key
}
