package wishlists

import (
	"strconv"
	"strings"

	"wishlist-cli/internal/model"
	"wishlist-cli/internal/uierr"
)

// Fields is raw form input keyed by field name (customer_id, name,
// description, category). Missing keys are absent, not empty.
type Fields map[string]string

// ParseFields reads "key=value" words. Keys are lower-cased; "-" becomes "_".
func ParseFields(words []string) (Fields, error) {
	out := Fields{}
	for _, w := range words {
		k, v, ok := strings.Cut(w, "=")
		k = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), "-", "_")
		if !ok || k == "" {
			return nil, uierr.Invalid("field", "expected key=value, got "+strconv.Quote(w))
		}
		switch k {
		case "id", "customer_id", "name", "description", "category", "product_id", "before", "before_position":
		default:
			return nil, uierr.Invalid("field", "unknown field "+strconv.Quote(k))
		}
		out[k] = v
	}
	return out, nil
}

func (f Fields) customerID() (*int64, error) {
	raw, ok := f["customer_id"]
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, uierr.Invalid("customer id", "must be an integer")
	}
	return &v, nil
}

// NewWishlist validates the create form.
func (f Fields) NewWishlist() (model.NewWishlist, error) {
	cid, err := f.customerID()
	if err != nil {
		return model.NewWishlist{}, err
	}
	if cid == nil {
		return model.NewWishlist{}, uierr.Invalid("customer id", "value is required")
	}
	name := strings.TrimSpace(f["name"])
	if name == "" {
		return model.NewWishlist{}, uierr.Invalid("name", "value is required")
	}
	return model.NewWishlist{
		CustomerID:  *cid,
		Name:        name,
		Description: strings.TrimSpace(f["description"]),
		Category:    strings.TrimSpace(f["category"]),
	}, nil
}

// Patch validates the update form. Only present keys are changed.
func (f Fields) Patch() (model.WishlistPatch, error) {
	var p model.WishlistPatch
	cid, err := f.customerID()
	if err != nil {
		return p, err
	}
	p.CustomerID = cid
	if v, ok := f["name"]; ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return p, uierr.Invalid("name", "must not be empty")
		}
		p.Name = &v
	}
	if v, ok := f["description"]; ok {
		v = strings.TrimSpace(v)
		p.Description = &v
	}
	if v, ok := f["category"]; ok {
		v = strings.TrimSpace(v)
		p.Category = &v
	}
	if p.Empty() {
		return p, uierr.Invalid("update", "nothing to change")
	}
	return p, nil
}

// Query builds a search from the present, non-empty fields.
func (f Fields) Query() (model.Query, error) {
	cid, err := f.customerID()
	if err != nil {
		return model.Query{}, err
	}
	return model.Query{
		CustomerID: cid,
		Name:       strings.TrimSpace(f["name"]),
		Category:   strings.TrimSpace(f["category"]),
	}, nil
}

// ParseID parses a wishlist id.
func ParseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, uierr.Invalid("wishlist id", "value is required")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, uierr.Invalid("wishlist id", "must be a positive integer")
	}
	return v, nil
}
