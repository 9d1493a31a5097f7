package domain

import "time"

// Category is one node of the category forest. ParentID is nil for roots.
type Category struct {
	CategoryID  string    `json:"categoryID" db:"category_id"`
	ParentID    *string   `json:"parentID" db:"parent_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == ""
}
