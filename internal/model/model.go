package model

import "strings"

// Wishlist is the client's read/display copy of a wishlist owned by the service.
type Wishlist struct {
	ID          int64  `json:"id"`
	CustomerID  int64  `json:"customer_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	// Dates are ISO calendar dates as sent by the service. UpdatedDate may be empty.
	CreatedDate string `json:"created_date,omitempty"`
	UpdatedDate string `json:"updated_date,omitempty"`

	Items []WishlistItem `json:"wishlist_items,omitempty"`
}

// WishlistItem is a transient, renderable snapshot of one item in a wishlist.
//
// Position is an ordering key only: it is totally ordered within a wishlist but
// never assumed to be contiguous or to start at a fixed value.
type WishlistItem struct {
	WishlistID  int64  `json:"wishlist_id,omitempty"`
	ProductID   int64  `json:"product_id"`
	Description string `json:"description,omitempty"`
	Position    int64  `json:"position"`
}

// NewWishlist is the create payload.
type NewWishlist struct {
	CustomerID  int64  `json:"customer_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// WishlistPatch carries a partial update. Nil fields are left as they are.
type WishlistPatch struct {
	CustomerID  *int64  `json:"customer_id,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p WishlistPatch) Empty() bool {
	return p.CustomerID == nil && p.Name == nil && p.Description == nil && p.Category == nil
}

// ApplyTo overlays the patch on w and returns the merged record.
//
// The service's PUT replaces the record, so the client sends the merged record
// rather than only the changed fields.
func (p WishlistPatch) ApplyTo(w Wishlist) NewWishlist {
	out := NewWishlist{
		CustomerID:  w.CustomerID,
		Name:        w.Name,
		Description: w.Description,
		Category:    w.Category,
	}
	if p.CustomerID != nil {
		out.CustomerID = *p.CustomerID
	}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	return out
}

// NewItem is the add-item payload.
type NewItem struct {
	ProductID   int64  `json:"product_id"`
	Description string `json:"description"`
}

// Query filters the wishlist collection. Empty fields are not sent; set fields
// are combined with logical AND by the service.
type Query struct {
	CustomerID *int64
	Name       string
	Category   string
}

func (q Query) IsZero() bool {
	return q.CustomerID == nil && strings.TrimSpace(q.Name) == "" && strings.TrimSpace(q.Category) == ""
}
