package schema

// LibraryRootTable represents the 'library.root' table — one scanned directory tree.
type LibraryRootTable struct {
	Table     string
	ID        string
	Name      string
	Path      string
	CreatedAt string
	UpdatedAt string
}

// LibraryRoot is the schema definition for library.root
var LibraryRoot = LibraryRootTable{
	Table:     "library.root",
	ID:        "id",
	Name:      "name",
	Path:      "path",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t LibraryRootTable) Columns() []string {
	return []string{t.ID, t.Name, t.Path, t.CreatedAt, t.UpdatedAt}
}
