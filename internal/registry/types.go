package registry

// Source is a directory searched for generators (e.g. the user's
// ~/.scaffoldr/generators or a project-local .scaffoldr/generators).
type Source struct {
	Name     string
	BasePath string
}

// Discovered is a generator definition found in a source.
type Discovered struct {
	Name           string // generator name from the definition
	Version        string
	Description    string
	Dir            string // directory holding the definition
	DefinitionPath string
	Source         string // name of the source it was found in
}

// Invalid is a definition file that was found but could not be parsed.
type Invalid struct {
	Source         string
	DefinitionPath string
	Err            error
}
