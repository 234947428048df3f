package storage

import (
	"fmt"
	"strings"
)

// keyFromURL derives the storage key from a public file URL by stripping
// the store's base URL. Uploaded objects are always addressed by a URL
// under that base, so anything else is rejected rather than guessed at.
func keyFromURL(baseURL, fileURL string) (string, error) {
	base := strings.TrimSuffix(baseURL, "/") + "/"
	if !strings.HasPrefix(fileURL, base) {
		return "", fmt.Errorf("file url %q is not under base %q", fileURL, baseURL)
	}

	key := strings.TrimPrefix(fileURL, base)
	if key == "" {
		return "", fmt.Errorf("file url %q has no object key", fileURL)
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("file url %q contains path traversal", fileURL)
	}

	return key, nil
}
