package schema

// LibrarySeriesTable represents the 'library.series' table
type LibrarySeriesTable struct {
	Table     string
	ID        string
	RootID    string
	Key       string
	Name      string
	StartYear string
	CreatedAt string
	UpdatedAt string
	DeletedAt string
}

// LibrarySeries is the schema definition for library.series
var LibrarySeries = LibrarySeriesTable{
	Table:     "library.series",
	ID:        "id",
	RootID:    "rootid",
	Key:       "key",
	Name:      "name",
	StartYear: "startyear",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
	DeletedAt: "deletedat",
}

func (t LibrarySeriesTable) Columns() []string {
	return []string{t.ID, t.RootID, t.Key, t.Name, t.StartYear, t.CreatedAt, t.UpdatedAt, t.DeletedAt}
}
