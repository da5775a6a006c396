package match

// Status is the persisted match state of a record.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusFound    Status = "FOUND"
	StatusNotFound Status = "NOT_FOUND"
	StatusError    Status = "ERROR"
)

// Record is one administrative unit awaiting a Wikipedia match.
type Record struct {
	Code        string
	Name        string
	State       string
	District    string
	Subdistrict string
	TypeHint    string // census ULB type, e.g. "Municipality"
	Latitude    *float64
	Longitude   *float64
}

// Page is a resolved Wikipedia candidate.
type Page struct {
	Title   string
	Summary string
	URL     string
}

// Outcome is the terminal result of matching one record. Coordinates carry
// either the matched page's coordinates or the record's pre-existing ones;
// known coordinates are never overwritten with null.
type Outcome struct {
	Status    Status
	Page      *Page
	Latitude  *float64
	Longitude *float64
}
