package model

// Bundle is the per-user document: everything one user owns, in one JSON
// file on disk. It is loaded in full and overwritten in full on every
// mutation — there are no partial updates and no history.
//
// TAGGED STRUCT INSTEAD OF map[string]any:
// The persisted documents are hand-editable JSON, so a malformed file is a
// real possibility. Decoding into a typed struct catches shape errors at
// load time instead of panicking deep inside a handler.
type Bundle struct {
	Profile *Profile `json:"profile"` // nil until the user saves a profile
	Todos   []Todo   `json:"todos"`
	Events  []Event  `json:"events"`
}

// EmptyBundle returns the shape an absent document decodes to:
// {"profile":null,"todos":[],"events":[]}.
//
// The slices are allocated (not nil) on purpose — encoding/json serialises
// a nil slice as null, but the API contract promises [] for empty lists.
func EmptyBundle() *Bundle {
	return &Bundle{
		Todos:  []Todo{},
		Events: []Event{},
	}
}

// Profile holds the user-form fields. UpdatedAt is an RFC 3339 timestamp
// set server-side on every save.
type Profile struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	School    string `json:"school"`
	Goal      string `json:"goal"`
	UpdatedAt string `json:"updatedAt"`
}

// Todo is a single to-do item. IDs are assigned by the client — the server
// stores whatever list it is given, wholesale.
type Todo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Event is a calendar entry. Date is an ISO calendar date string
// (e.g. "2026-03-14"); the server treats it as opaque.
type Event struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
