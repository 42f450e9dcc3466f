package cachepool

import (
	"fmt"
	"strings"
)

// reservedKeyChars can never appear in a key. The set is shared with other
// cache implementations so keys stay portable across backends.
const reservedKeyChars = `{}()/\@:`

// ValidateKey reports whether key may be used with a Pool or a storage
// adapter keyed by raw strings. A valid key is a non-empty run of
// ASCII letters, digits and underscores. Violations wrap ErrInvalidKey.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	if i := strings.IndexAny(key, reservedKeyChars); i >= 0 {
		return fmt.Errorf("%w: %q contains reserved character %q", ErrInvalidKey, key, key[i])
	}
	for _, r := range key {
		if !isKeyRune(r) {
			return fmt.Errorf("%w: %q contains disallowed character %q", ErrInvalidKey, key, r)
		}
	}
	return nil
}

func isKeyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	return false
}
