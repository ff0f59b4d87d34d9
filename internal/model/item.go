package model

// Item is the domain model for a todo entry.
// ID 0 means "not stored yet"; the store assigns ids on insertion and
// never reassigns them afterwards.
type Item struct {
	ID      int    `json:"id,omitempty"`
	Title   string `json:"title"`
	Done    bool   `json:"done"`
	OwnerID int    `json:"owner,omitempty"`
}
