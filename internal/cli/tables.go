package cli

import (
	"strconv"
	"time"

	"wishlist-cli/internal/model"
	"wishlist-cli/internal/store"
)

// Payload types give --format table a rendering; JSON output is unchanged.

type wishlistRows []model.Wishlist

func (w wishlistRows) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(w))
	for _, x := range w {
		rows = append(rows, []string{
			itoa(x.ID),
			itoa(x.CustomerID),
			x.Name,
			x.Category,
			strconv.Itoa(len(x.Items)),
			x.CreatedDate,
			x.UpdatedDate,
		})
	}
	return []string{"id", "customer", "name", "category", "items", "created", "updated"}, rows
}

type wishlistRecord model.Wishlist

func (w wishlistRecord) Table() ([]string, [][]string) {
	return []string{"field", "value"}, [][]string{
		{"id", itoa(w.ID)},
		{"customer_id", itoa(w.CustomerID)},
		{"name", w.Name},
		{"category", w.Category},
		{"created_date", w.CreatedDate},
		{"updated_date", w.UpdatedDate},
		{"items", strconv.Itoa(len(w.Items))},
	}
}

type itemRows []model.WishlistItem

func (it itemRows) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(it))
	for _, x := range it {
		rows = append(rows, []string{itoa(x.ProductID), itoa(x.Position), x.Description})
	}
	return []string{"product", "position", "description"}, rows
}

type activityRows []store.Activity

func (a activityRows) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(a))
	for _, x := range a {
		ok := "ok"
		if !x.OK {
			ok = "failed"
		}
		rows = append(rows, []string{
			x.At.Local().Format(time.DateTime),
			x.Op,
			idOrBlank(x.WishlistID),
			idOrBlank(x.ProductID),
			ok,
			x.Message,
		})
	}
	return []string{"at", "op", "wishlist", "product", "result", "message"}, rows
}

type selectionInfo struct {
	WishlistID int64 `json:"wishlist_id,omitempty"`
	Selected   bool  `json:"selected"`
}

func (s selectionInfo) Table() ([]string, [][]string) {
	if !s.Selected {
		return []string{"selected"}, [][]string{{"none"}}
	}
	return []string{"selected"}, [][]string{{itoa(s.WishlistID)}}
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func idOrBlank(v int64) string {
	if v == 0 {
		return ""
	}
	return itoa(v)
}
