package assets

// DefaultReducerScript names the embedded Ghostscript reducer.
const DefaultReducerScript = "shrinkpdf"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadScript loads a reducer script by name using the default embedded loader.
// The name should not include the .sh extension or path components.
// Returns ErrScriptNotFound if the script does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadScript(name string) (string, error) {
	return defaultLoader.LoadScript(name)
}
