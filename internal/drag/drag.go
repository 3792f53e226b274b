// Package drag turns a drop of one item row onto another into the
// before_position key sent to the move endpoint.
package drag

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"wishlist-cli/internal/model"
	"wishlist-cli/internal/uierr"
)

// DefaultTailGap matches the step the service uses when it renumbers a wishlist.
const DefaultTailGap int64 = 1000

var (
	ErrNoSource         = errors.New("No item is being dragged")
	ErrUnknownTarget    = errors.New("Drop target is not an item in this wishlist")
	ErrNoInsertionPoint = errors.New("Could not determine where to place the item")
)

// Policy holds the tail-insertion choice.
type Policy struct {
	// TailGap is added to the last row's position when an item is dropped onto
	// the last row. It must be positive.
	TailGap int64
}

func DefaultPolicy() Policy { return Policy{TailGap: DefaultTailGap} }

// BeforePosition computes the insertion key for dropping sourceID onto
// targetID, given the rows in display order.
//
// A source that is not among rows is treated as moving toward the back.
func (p Policy) BeforePosition(rows []model.WishlistItem, sourceID, targetID int64) (int64, error) {
	if sourceID == 0 {
		return 0, ErrNoSource
	}
	ti := indexOf(rows, targetID)
	if targetID == 0 || ti < 0 {
		return 0, ErrUnknownTarget
	}
	tpos := rows[ti].Position

	if si := indexOf(rows, sourceID); si >= 0 && rows[si].Position > tpos {
		return tpos, nil
	}

	if ti+1 < len(rows) {
		return rows[ti+1].Position, nil
	}

	gap := p.TailGap
	if gap <= 0 {
		gap = DefaultTailGap
	}
	if tpos > math.MaxInt64-gap {
		return 0, ErrNoInsertionPoint
	}
	return tpos + gap, nil
}

// BeforePosition uses DefaultPolicy.
func BeforePosition(rows []model.WishlistItem, sourceID, targetID int64) (int64, error) {
	return DefaultPolicy().BeforePosition(rows, sourceID, targetID)
}

func indexOf(rows []model.WishlistItem, productID int64) int {
	for i, r := range rows {
		if r.ProductID == productID {
			return i
		}
	}
	return -1
}

// ParseKey parses a textual position or product id. field names the value in
// the validation error.
func ParseKey(field, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, uierr.Invalid(field, "value is required")
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, uierr.Invalid(field, "must be an integer")
	}
	return v, nil
}
