package common

import (
	"fmt"
	"strings"
)

// ParseResolution maps a user-supplied resolution string to the success
// flag. "OK" and "KO" are accepted in any case; anything else fails.
// Stored statuses are always written in canonical case, this leniency is
// input-side only.
func ParseResolution(s string) (bool, error) {
	switch strings.ToUpper(s) {
	case "OK":
		return true, nil
	case "KO":
		return false, nil
	}
	return false, fmt.Errorf("resolution %q is neither OK nor KO: %w", s, ErrInvalidConfig)
}
