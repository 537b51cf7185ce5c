package schema

// LibraryVolumeTable represents the 'library.volume' table
type LibraryVolumeTable struct {
	Table     string
	ID        string
	SeriesID  string
	Number    string
	CreatedAt string
	UpdatedAt string
}

// LibraryVolume is the schema definition for library.volume
var LibraryVolume = LibraryVolumeTable{
	Table:     "library.volume",
	ID:        "id",
	SeriesID:  "seriesid",
	Number:    "number",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t LibraryVolumeTable) Columns() []string {
	return []string{t.ID, t.SeriesID, t.Number, t.CreatedAt, t.UpdatedAt}
}
