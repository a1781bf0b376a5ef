package assets

import (
	"embed"
	"fmt"
)

//go:embed scripts/*
var scripts embed.FS

// EmbeddedLoader loads scripts from the embedded filesystem.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadScript loads a shell script from embedded assets by name.
func (e *EmbeddedLoader) LoadScript(name string) (string, error) {
	if err := ValidateScriptName(name); err != nil {
		return "", err
	}

	content, err := scripts.ReadFile("scripts/" + name + ".sh")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrScriptNotFound, name)
	}

	return string(content), nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
