package assets

import (
	"fmt"
	"strings"
	"unicode"
)

// AssetLoader defines the contract for loading reducer scripts.
type AssetLoader interface {
	// LoadScript loads a shell script by name (without .sh extension).
	// Returns ErrScriptNotFound if the script doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadScript(name string) (string, error)
}

// ValidateScriptName rejects names that could leave the scripts directory
// or be read as an option by the shell.
func ValidateScriptName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q starts with a dash", ErrInvalidAssetName, name)
	case strings.ContainsAny(name, "/\\."), strings.ContainsFunc(name, unicode.IsSpace):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
