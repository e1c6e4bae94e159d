package model

// Item is the domain model for a todo entry as the item API serves it.
// ItemID is assigned by the backend; zero means the item was never created.
type Item struct {
	ItemID         int64  `json:"itemID,omitempty"`
	ItemName       string `json:"itemName"`
	DueDate        string `json:"dueDate"`
	ItemImportance int    `json:"itemImportance"`
}

// Draft returns a copy of the item without its id, the shape sent on create.
func (it Item) Draft() Item {
	it.ItemID = 0
	return it
}

// Persisted reports whether the backend has assigned an id.
func (it Item) Persisted() bool { return it.ItemID != 0 }
