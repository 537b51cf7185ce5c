package schema

// LibraryIssueTable represents the 'library.issue' table — one archive-backed issue.
type LibraryIssueTable struct {
	Table       string
	ID          string
	VolumeID    string
	Number      string
	NumberSort  string
	Title       string
	Year        string
	Format      string
	Path        string
	ContentHash string
	Container   string
	PageCount   string
	Unresolved  string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// LibraryIssue is the schema definition for library.issue
var LibraryIssue = LibraryIssueTable{
	Table:       "library.issue",
	ID:          "id",
	VolumeID:    "volumeid",
	Number:      "number",
	NumberSort:  "numbersort",
	Title:       "title",
	Year:        "year",
	Format:      "format",
	Path:        "path",
	ContentHash: "contenthash",
	Container:   "container",
	PageCount:   "pagecount",
	Unresolved:  "unresolved",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

func (t LibraryIssueTable) Columns() []string {
	return []string{
		t.ID, t.VolumeID, t.Number, t.NumberSort, t.Title, t.Year, t.Format,
		t.Path, t.ContentHash, t.Container, t.PageCount, t.Unresolved,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
