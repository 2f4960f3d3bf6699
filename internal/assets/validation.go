package assets

import "fmt"

// ValidateAssetName checks that an asset name is a bare file stem.
// Only ASCII letters, digits, '-' and '_' are accepted, which rules out
// separators, traversal sequences and extensions.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}
