// Package assets provides the scripts run by the size-reduction step.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (shrinkpdf)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in Ghostscript reducer script embedded
// at compile time.
//
// FilesystemLoader allows users to provide their own scripts from a
// directory, with path traversal protection and symlink resolution.
//
// AssetResolver is the loader used by the reducer. It tries the custom
// FilesystemLoader first, falling back to EmbeddedLoader if the script is
// not found.
//
// # Directory Structure
//
//	{basePath}/
//	└── scripts/
//	    └── {name}.sh            # reducer script (e.g., shrinkpdf.sh)
//
// Every script is invoked as `sh {name}.sh -r <dpi> -o <output> <input>`.
//
// # Security
//
// Script names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
