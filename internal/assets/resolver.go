package assets

import (
	"errors"
)

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the script is not found in the custom location.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded scripts are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadScript loads a script, trying the custom loader first if available.
// Only a not-found error falls back; validation and I/O errors are returned.
func (r *AssetResolver) LoadScript(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadScript(name)
	}

	content, err := r.custom.LoadScript(name)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, ErrScriptNotFound) {
		return "", err
	}

	return r.embedded.LoadScript(name)
}

// HasCustomLoader returns true if a custom script directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
